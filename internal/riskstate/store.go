// Package riskstate persists the account risk snapshot the pre-trade
// gate judges against. State lives in Redis so it survives restarts;
// when Redis is unavailable the store falls back to its in-memory copy
// and keeps working.
package riskstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trading-advisor/internal/risk"
)

const (
	// stateKey is the Redis key holding the account snapshot.
	stateKey = "advisor:riskstate"

	// stateTTL keeps stale state from outliving a dead deployment.
	stateTTL = 48 * time.Hour
)

// persistedState is the wire form of the snapshot plus the UTC day the
// daily loss belongs to.
type persistedState struct {
	State   risk.AccountState `json:"state"`
	Day     string            `json:"day"`
	SavedAt time.Time         `json:"saved_at"`
}

// Store serializes every read-modify-write of the account snapshot
// behind one mutex. It is built for a single operator account; the
// engine itself never touches it.
type Store struct {
	mu             sync.Mutex
	client         *redis.Client
	redisAvailable atomic.Bool
	state          risk.AccountState
	day            string
	logger         zerolog.Logger
}

// NewStore creates a store seeded with the initial snapshot. A nil
// client means memory-only mode.
func NewStore(client *redis.Client, initial risk.AccountState, logger zerolog.Logger) *Store {
	s := &Store{
		client: client,
		state:  initial,
		day:    utcDay(time.Now()),
		logger: logger.With().Str("component", "riskstate").Logger(),
	}
	if s.state.PeakCapital < s.state.Capital {
		s.state.PeakCapital = s.state.Capital
	}

	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("redis unavailable at startup, using in-memory state")
			s.redisAvailable.Store(false)
		} else {
			s.redisAvailable.Store(true)
			s.restore(ctx)
		}
	} else {
		s.redisAvailable.Store(false)
	}

	return s
}

// Snapshot returns the current account state. Crossing a UTC day
// boundary resets the daily loss before the snapshot is taken.
func (s *Store) Snapshot(ctx context.Context) risk.AccountState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollover()
	return s.state
}

// CommitTrade records a newly opened position's risk against the
// account. Called after the operator takes a gated trade.
func (s *Store) CommitTrade(ctx context.Context, riskAmount float64) risk.AccountState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollover()
	s.state.OpenPositions++
	s.state.OpenRisk += riskAmount
	s.persist(ctx)

	s.logger.Info().
		Float64("risk_amount", riskAmount).
		Int("open_positions", s.state.OpenPositions).
		Float64("open_risk", s.state.OpenRisk).
		Msg("trade committed")

	return s.state
}

// CloseTrade releases a position's reserved risk and applies the
// realized outcome. A positive pnl grows capital; a loss also counts
// against the daily budget.
func (s *Store) CloseTrade(ctx context.Context, riskAmount, pnl float64) risk.AccountState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollover()
	if s.state.OpenPositions > 0 {
		s.state.OpenPositions--
	}
	s.state.OpenRisk -= riskAmount
	if s.state.OpenRisk < 0 {
		s.state.OpenRisk = 0
	}

	s.state.Capital += pnl
	if pnl < 0 {
		s.state.DailyLoss += -pnl
	}
	if s.state.Capital > s.state.PeakCapital {
		s.state.PeakCapital = s.state.Capital
	}
	s.persist(ctx)

	s.logger.Info().
		Float64("pnl", pnl).
		Float64("capital", s.state.Capital).
		Float64("daily_loss", s.state.DailyLoss).
		Msg("trade closed")

	return s.state
}

// ResetDaily clears the daily loss counter immediately.
func (s *Store) ResetDaily(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DailyLoss = 0
	s.day = utcDay(time.Now())
	s.persist(ctx)
}

// SetCapital replaces the account capital, keeping the peak watermark.
func (s *Store) SetCapital(ctx context.Context, capital float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Capital = capital
	if capital > s.state.PeakCapital {
		s.state.PeakCapital = capital
	}
	s.persist(ctx)
}

// RedisAvailable reports whether the last Redis operation succeeded.
func (s *Store) RedisAvailable() bool {
	return s.redisAvailable.Load()
}

// rollover resets the daily loss when the UTC day changes. Caller must
// hold the mutex.
func (s *Store) rollover() {
	today := utcDay(time.Now())
	if s.day != today {
		s.day = today
		s.state.DailyLoss = 0
	}
}

// persist writes the snapshot to Redis, best effort. The in-memory copy
// is already current, so a Redis failure only flips the health flag.
// Caller must hold the mutex.
func (s *Store) persist(ctx context.Context) {
	if s.client == nil || !s.redisAvailable.Load() {
		return
	}

	data, err := json.Marshal(persistedState{
		State:   s.state,
		Day:     s.day,
		SavedAt: time.Now(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("marshal risk state")
		return
	}

	if err := s.client.Set(ctx, stateKey, data, stateTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("redis write failed, continuing on in-memory state")
		s.redisAvailable.Store(false)
	}
}

// restore loads persisted state at startup. A missing key keeps the
// seeded snapshot.
func (s *Store) restore(ctx context.Context) {
	data, err := s.client.Get(ctx, stateKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("redis read failed at startup")
			s.redisAvailable.Store(false)
		}
		return
	}

	var ps persistedState
	if err := json.Unmarshal([]byte(data), &ps); err != nil {
		s.logger.Error().Err(err).Msg("corrupt persisted risk state, ignoring")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ps.State
	s.day = ps.Day
	s.rollover()
	s.logger.Info().
		Float64("capital", s.state.Capital).
		Int("open_positions", s.state.OpenPositions).
		Msg("risk state restored")
}

func utcDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// String implements fmt.Stringer for debug output.
func (s *Store) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("riskstate{capital=%.2f daily_loss=%.2f open=%d risk=%.2f}",
		s.state.Capital, s.state.DailyLoss, s.state.OpenPositions, s.state.OpenRisk)
}
