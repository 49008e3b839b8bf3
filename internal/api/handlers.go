package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trading-advisor/internal/auth"
	"trading-advisor/internal/database"
	"trading-advisor/internal/engine"
	"trading-advisor/internal/indicators"
	"trading-advisor/internal/logging"
	"trading-advisor/internal/market"
	"trading-advisor/internal/risk"
)

// analyzeRequest is the POST /api/analyze body. Candle columns must be
// equal length; chart_image is optional base64 and only journaled.
type analyzeRequest struct {
	Symbol      string    `json:"symbol" binding:"required"`
	Timeframe   string    `json:"timeframe" binding:"required"`
	Open        []float64 `json:"open" binding:"required"`
	High        []float64 `json:"high" binding:"required"`
	Low         []float64 `json:"low" binding:"required"`
	Close       []float64 `json:"close" binding:"required"`
	Volume      []float64 `json:"volume" binding:"required"`
	ChartImage  string    `json:"chart_image,omitempty"`
	Capital     float64   `json:"capital"`
	RiskPercent float64   `json:"risk_percent"`
}

// handleAnalyze runs one evaluation and journals the plan.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	series, err := market.FromColumns(req.Symbol, req.Timeframe, req.Open, req.High, req.Low, req.Close, req.Volume)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var image []byte
	if req.ChartImage != "" {
		image, err = base64.StdEncoding.DecodeString(req.ChartImage)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "chart_image is not valid base64")
			return
		}
	}

	capital := req.Capital
	if capital <= 0 {
		capital = s.riskStore.Snapshot(c.Request.Context()).Capital
	}

	logger := logging.AnalysisContext(req.Symbol, req.Timeframe)
	start := time.Now()

	plan, err := s.engine.Evaluate(engine.Request{
		Series:      series,
		ChartImage:  image,
		Capital:     capital,
		RiskPercent: req.RiskPercent,
		State:       s.riskStore.Snapshot(c.Request.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, market.ErrInsufficientHistory), errors.Is(err, market.ErrMalformedCandles):
			errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, risk.ErrInvalidStopDistance), errors.Is(err, risk.ErrInvalidSizing):
			errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		default:
			logger.WithError(err).Error("evaluation failed")
			errorResponse(c, http.StatusInternalServerError, "evaluation failed")
		}
		return
	}

	plan.AnalysisID = uuid.New().String()
	plan.GeneratedAt = time.Now().UTC()

	logger.WithDuration(time.Since(start)).Info("analysis completed",
		"analysis_id", plan.AnalysisID,
		"signal", string(plan.Signal.Type),
		"quality_score", plan.Signal.QualityScore,
	)

	if err := s.journal.SaveAnalysis(c.Request.Context(), database.RecordFromPlan(plan)); err != nil {
		logger.WithError(err).Error("failed to journal analysis")
	}

	s.eventBus.PublishAnalysisCompleted(plan.AnalysisID, plan.Symbol, plan.Timeframe,
		string(plan.Signal.Type), plan.Signal.QualityScore)
	if plan.Signal.Actionable() {
		s.eventBus.PublishSignal(plan.AnalysisID, plan.Symbol, string(plan.Signal.Type),
			string(plan.Signal.Strength), string(plan.Signal.Trigger), plan.Price)
	}
	if plan.Gate != nil && !plan.Gate.Passed {
		s.eventBus.PublishGateRejected(plan.AnalysisID, plan.Symbol, plan.Gate.Reasons)
	}

	successResponse(c, plan)
}

// handleGetAnalyses lists recent journaled analyses.
func (s *Server) handleGetAnalyses(c *gin.Context) {
	symbol := c.Query("symbol")
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	records, err := s.journal.RecentAnalyses(c.Request.Context(), symbol, limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, records)
}

// handleSummary aggregates the journal.
func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.journal.Summarize(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	successResponse(c, summary)
}

// handleIndicators describes the indicator catalog.
func (s *Server) handleIndicators(c *gin.Context) {
	successResponse(c, indicators.Catalog())
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin authenticates the operator and returns a bearer token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			errorResponse(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   s.authService.TokenDuration(),
	})
}
