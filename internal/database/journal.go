package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trading-advisor/internal/engine"
)

// AnalysisRecord is one journaled evaluation.
type AnalysisRecord struct {
	ID              string            `json:"id"`
	Symbol          string            `json:"symbol"`
	Timeframe       string            `json:"timeframe"`
	Price           float64           `json:"price"`
	SignalType      string            `json:"signal_type"`
	Strength        string            `json:"strength,omitempty"`
	Trigger         string            `json:"trigger,omitempty"`
	QualityScore    float64           `json:"quality_score"`
	ConfluenceCount int               `json:"confluence_count"`
	StopPrice       *float64          `json:"stop_price,omitempty"`
	StopMethod      string            `json:"stop_method,omitempty"`
	RiskReward      *float64          `json:"risk_reward,omitempty"`
	GatePassed      *bool             `json:"gate_passed,omitempty"`
	GateReasons     []string          `json:"gate_reasons,omitempty"`
	Plan            *engine.TradePlan `json:"plan"`
	CreatedAt       time.Time         `json:"created_at"`
}

// RecordFromPlan flattens a plan into its journal row. The plan must
// already carry its analysis ID and timestamp.
func RecordFromPlan(plan *engine.TradePlan) *AnalysisRecord {
	rec := &AnalysisRecord{
		ID:              plan.AnalysisID,
		Symbol:          plan.Symbol,
		Timeframe:       plan.Timeframe,
		Price:           plan.Price,
		SignalType:      string(plan.Signal.Type),
		Strength:        string(plan.Signal.Strength),
		Trigger:         string(plan.Signal.Trigger),
		QualityScore:    plan.Signal.QualityScore,
		ConfluenceCount: plan.Signal.ConfluenceCount,
		Plan:            plan,
		CreatedAt:       plan.GeneratedAt,
	}
	if plan.StopLoss != nil {
		rec.StopPrice = &plan.StopLoss.Price
		rec.StopMethod = string(plan.StopLoss.Method)
	}
	if plan.RiskReward != nil {
		rec.RiskReward = &plan.RiskReward.Ratio
	}
	if plan.Gate != nil {
		rec.GatePassed = &plan.Gate.Passed
		rec.GateReasons = plan.Gate.Reasons
	}
	return rec
}

// Summary aggregates the journal for the summary endpoint.
type Summary struct {
	TotalAnalyses int            `json:"total_analyses"`
	BySignal      map[string]int `json:"by_signal"`
	AverageScore  float64        `json:"average_score"`
	GateRejected  int            `json:"gate_rejected"`
	LastAnalysis  *time.Time     `json:"last_analysis,omitempty"`
}

// Journal persists completed analyses. Implementations: pgx-backed
// Repository, in-memory ring when no database is configured.
type Journal interface {
	SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error
	RecentAnalyses(ctx context.Context, symbol string, limit int) ([]*AnalysisRecord, error)
	Summarize(ctx context.Context) (*Summary, error)
}

// Repository is the PostgreSQL journal.
type Repository struct {
	db *DB
}

// NewRepository creates a repository over an open connection pool.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveAnalysis inserts one analysis row; the full plan goes into the
// JSONB column so nothing is lost in the flattening.
func (r *Repository) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	planJSON, err := json.Marshal(rec.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	query := `
		INSERT INTO analyses (
			id, symbol, timeframe, price, signal_type, strength, trigger_type,
			quality_score, confluence_count, stop_price, stop_method,
			risk_reward, gate_passed, gate_reasons, plan, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''),
			$8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15, $16)`

	_, err = r.db.Pool.Exec(ctx, query,
		rec.ID, rec.Symbol, rec.Timeframe, rec.Price, rec.SignalType,
		rec.Strength, rec.Trigger, rec.QualityScore, rec.ConfluenceCount,
		rec.StopPrice, rec.StopMethod, rec.RiskReward, rec.GatePassed,
		rec.GateReasons, planJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// RecentAnalyses returns the newest analyses, optionally filtered by
// symbol.
func (r *Repository) RecentAnalyses(ctx context.Context, symbol string, limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
		SELECT id, symbol, timeframe, price, signal_type,
			COALESCE(strength, ''), COALESCE(trigger_type, ''),
			quality_score, confluence_count, stop_price,
			COALESCE(stop_method, ''), risk_reward, gate_passed,
			gate_reasons, plan, created_at
		FROM analyses`
	args := []interface{}{}
	if symbol != "" {
		query += ` WHERE symbol = $1`
		args = append(args, symbol)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		rec := &AnalysisRecord{}
		var planJSON []byte
		err := rows.Scan(
			&rec.ID, &rec.Symbol, &rec.Timeframe, &rec.Price, &rec.SignalType,
			&rec.Strength, &rec.Trigger, &rec.QualityScore, &rec.ConfluenceCount,
			&rec.StopPrice, &rec.StopMethod, &rec.RiskReward, &rec.GatePassed,
			&rec.GateReasons, &planJSON, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		if len(planJSON) > 0 {
			var plan engine.TradePlan
			if err := json.Unmarshal(planJSON, &plan); err == nil {
				rec.Plan = &plan
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Summarize aggregates the whole journal in one query.
func (r *Repository) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{BySignal: make(map[string]int)}

	query := `
		SELECT signal_type, COUNT(*), AVG(quality_score),
			COUNT(*) FILTER (WHERE gate_passed = FALSE), MAX(created_at)
		FROM analyses
		GROUP BY signal_type`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize analyses: %w", err)
	}
	defer rows.Close()

	var weightedScore float64
	for rows.Next() {
		var signalType string
		var count, rejected int
		var avgScore float64
		var last *time.Time
		if err := rows.Scan(&signalType, &count, &avgScore, &rejected, &last); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		summary.BySignal[signalType] = count
		summary.TotalAnalyses += count
		summary.GateRejected += rejected
		weightedScore += avgScore * float64(count)
		if last != nil && (summary.LastAnalysis == nil || last.After(*summary.LastAnalysis)) {
			summary.LastAnalysis = last
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if summary.TotalAnalyses > 0 {
		summary.AverageScore = weightedScore / float64(summary.TotalAnalyses)
	}

	return summary, nil
}
