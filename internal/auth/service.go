package auth

// Service authenticates the single configured operator and issues
// tokens. Username comparison is plain; the password is bcrypt-checked.
type Service struct {
	username     string
	passwordHash string
	passwords    *PasswordManager
	jwt          *JWTManager
}

// NewService creates the operator auth service.
func NewService(username, passwordHash string, passwords *PasswordManager, jwt *JWTManager) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		passwords:    passwords,
		jwt:          jwt,
	}
}

// Login checks the credentials and returns a signed token.
func (s *Service) Login(username, password string) (string, error) {
	if username != s.username || !s.passwords.VerifyPassword(password, s.passwordHash) {
		return "", ErrInvalidCredentials
	}
	return s.jwt.GenerateToken(username)
}

// TokenDuration exposes the token lifetime for the login response.
func (s *Service) TokenDuration() int64 {
	return s.jwt.TokenDuration()
}
