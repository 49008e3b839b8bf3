package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trading-advisor/internal/events"
	"trading-advisor/internal/risk"
	"trading-advisor/internal/signal"
)

// trackRequest registers an open position for trailing-stop tracking.
type trackRequest struct {
	Symbol     string  `json:"symbol" binding:"required"`
	Direction  string  `json:"direction" binding:"required"`
	EntryPrice float64 `json:"entry_price" binding:"required"`
	StopPrice  float64 `json:"stop_price" binding:"required"`
	ATR        float64 `json:"atr" binding:"required"`
	RiskAmount float64 `json:"risk_amount" binding:"required"`
}

// handleTrackPosition commits the trade's risk and starts trailing its
// stop.
func (s *Server) handleTrackPosition(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	direction := signal.Type(req.Direction)
	if direction != signal.Buy && direction != signal.Sell {
		errorResponse(c, http.StatusBadRequest, "direction must be BUY or SELL")
		return
	}
	if req.EntryPrice <= 0 || req.StopPrice <= 0 || req.ATR <= 0 || req.RiskAmount <= 0 {
		errorResponse(c, http.StatusBadRequest, "entry_price, stop_price, atr and risk_amount must be positive")
		return
	}
	if direction == signal.Buy && req.StopPrice >= req.EntryPrice {
		errorResponse(c, http.StatusBadRequest, "long stop must sit below entry")
		return
	}
	if direction == signal.Sell && req.StopPrice <= req.EntryPrice {
		errorResponse(c, http.StatusBadRequest, "short stop must sit above entry")
		return
	}
	if _, exists := s.tracker.Position(req.Symbol); exists {
		errorResponse(c, http.StatusConflict, "position already tracked for symbol")
		return
	}

	now := time.Now()
	s.tracker.Track(risk.TrackedPosition{
		Symbol:        req.Symbol,
		Direction:     direction,
		EntryPrice:    req.EntryPrice,
		CurrentStop:   req.StopPrice,
		OriginalStop:  req.StopPrice,
		ATR:           req.ATR,
		HighWaterMark: req.EntryPrice,
		LowWaterMark:  req.EntryPrice,
		RiskAmount:    req.RiskAmount,
		OpenedAt:      now,
		LastUpdate:    now,
	})

	state := s.riskStore.CommitTrade(c.Request.Context(), req.RiskAmount)

	s.eventBus.Publish(events.Event{
		Type: events.EventPositionOpened,
		Data: map[string]interface{}{
			"symbol":      req.Symbol,
			"direction":   req.Direction,
			"entry_price": req.EntryPrice,
			"stop_price":  req.StopPrice,
			"risk_amount": req.RiskAmount,
		},
	})

	successResponse(c, gin.H{
		"tracked": true,
		"state":   state,
	})
}

type priceUpdateRequest struct {
	Price float64 `json:"price" binding:"required"`
}

// handlePriceUpdate feeds a price into the trailing tracker. A stop
// move is broadcast; a stop hit releases the position and realizes an
// estimated loss against the daily budget.
func (s *Server) handlePriceUpdate(c *gin.Context) {
	symbol := c.Param("symbol")

	var req priceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price <= 0 {
		errorResponse(c, http.StatusBadRequest, "price must be positive")
		return
	}

	pos, exists := s.tracker.Position(symbol)
	if !exists {
		errorResponse(c, http.StatusNotFound, "no tracked position for symbol")
		return
	}

	update := s.tracker.UpdatePrice(symbol, req.Price)
	if update == nil {
		successResponse(c, gin.H{"changed": false})
		return
	}

	if update.Triggered {
		s.tracker.Release(symbol)
		state := s.riskStore.CloseTrade(c.Request.Context(), pos.RiskAmount, stopOutcome(pos, update.TriggerPrice))
		s.eventBus.PublishStopTriggered(symbol, update.OldStop, update.TriggerPrice)
		successResponse(c, gin.H{
			"changed":   true,
			"triggered": true,
			"update":    update,
			"state":     state,
		})
		return
	}

	s.eventBus.PublishStopMoved(symbol, update.OldStop, update.NewStop)
	successResponse(c, gin.H{
		"changed": true,
		"update":  update,
	})
}

// stopOutcome estimates the realized pnl of a stop-out from how far the
// trigger sits between entry and the original stop, scaled to the risk
// committed at entry. A trailed stop above entry books a profit.
func stopOutcome(pos risk.TrackedPosition, trigger float64) float64 {
	initialRisk := pos.EntryPrice - pos.OriginalStop
	move := trigger - pos.EntryPrice
	if pos.Direction == signal.Sell {
		initialRisk = pos.OriginalStop - pos.EntryPrice
		move = pos.EntryPrice - trigger
	}
	if initialRisk <= 0 {
		return 0
	}
	return pos.RiskAmount * move / initialRisk
}

type closePositionRequest struct {
	PnL float64 `json:"pnl"`
}

// handleClosePosition releases a tracked position with the operator's
// realized pnl.
func (s *Server) handleClosePosition(c *gin.Context) {
	symbol := c.Param("symbol")

	var req closePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pos, exists := s.tracker.Position(symbol)
	if !exists {
		errorResponse(c, http.StatusNotFound, "no tracked position for symbol")
		return
	}

	s.tracker.Release(symbol)
	state := s.riskStore.CloseTrade(c.Request.Context(), pos.RiskAmount, req.PnL)

	s.eventBus.Publish(events.Event{
		Type: events.EventPositionClosed,
		Data: map[string]interface{}{
			"symbol": symbol,
			"pnl":    req.PnL,
		},
	})

	successResponse(c, gin.H{
		"closed": true,
		"state":  state,
	})
}

// handleGetPositions lists tracked positions with the account snapshot.
func (s *Server) handleGetPositions(c *gin.Context) {
	successResponse(c, gin.H{
		"positions": s.tracker.Positions(),
		"state":     s.riskStore.Snapshot(c.Request.Context()),
	})
}

// handleRiskState returns the account snapshot and the configured
// limits.
func (s *Server) handleRiskState(c *gin.Context) {
	successResponse(c, gin.H{
		"state":  s.riskStore.Snapshot(c.Request.Context()),
		"limits": s.engine.Limits(),
	})
}

// handleResetDaily clears the daily loss counter.
func (s *Server) handleResetDaily(c *gin.Context) {
	s.riskStore.ResetDaily(c.Request.Context())
	successResponse(c, s.riskStore.Snapshot(c.Request.Context()))
}
