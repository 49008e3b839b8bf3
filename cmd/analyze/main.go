package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"trading-advisor/internal/engine"
	"trading-advisor/internal/market"
	"trading-advisor/internal/risk"
	"trading-advisor/internal/signal"
)

// candleFile is the JSON layout the CLI reads: parallel OHLCV columns,
// the same shape the /api/analyze endpoint accepts.
type candleFile struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Open      []float64 `json:"open"`
	High      []float64 `json:"high"`
	Low       []float64 `json:"low"`
	Close     []float64 `json:"close"`
	Volume    []float64 `json:"volume"`
}

func main() {
	godotenv.Load()

	var (
		file        = flag.String("file", "", "path to OHLCV JSON file (required)")
		capital     = flag.Float64("capital", 10000, "account capital")
		riskPercent = flag.Float64("risk", 1.0, "risk per trade as percent of capital")
		jsonOut     = flag.Bool("json", false, "print the full trade plan as JSON")
	)
	flag.Parse()

	if *file == "" {
		fmt.Println("❌ -file is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("❌ Cannot read %s: %v\n", *file, err)
		os.Exit(1)
	}

	var input candleFile
	if err := json.Unmarshal(data, &input); err != nil {
		fmt.Printf("❌ Cannot parse %s: %v\n", *file, err)
		os.Exit(1)
	}

	series, err := market.FromColumns(input.Symbol, input.Timeframe,
		input.Open, input.High, input.Low, input.Close, input.Volume)
	if err != nil {
		fmt.Printf("❌ Bad candle data: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(risk.DefaultLimits())
	plan, err := eng.Evaluate(engine.Request{
		Series:      series,
		Capital:     *capital,
		RiskPercent: *riskPercent,
	})
	if err != nil {
		fmt.Printf("❌ Analysis failed: %v\n", err)
		os.Exit(1)
	}
	plan.AnalysisID = uuid.New().String()

	if *jsonOut {
		out, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			fmt.Printf("❌ Cannot encode plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	printPlan(plan)
}

func printPlan(plan *engine.TradePlan) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("📊 %s %s @ %.4f\n", plan.Symbol, plan.Timeframe, plan.Price)
	fmt.Println(strings.Repeat("=", 60))

	icon := "⏸️"
	if plan.Signal.Type == signal.Buy {
		icon = "🟢"
	} else if plan.Signal.Type == signal.Sell {
		icon = "🔴"
	}
	fmt.Printf("\n%s Signal: %s", icon, plan.Signal.Type)
	if plan.Signal.Strength != "" {
		fmt.Printf(" (%s, %s)", plan.Signal.Strength, plan.Signal.Trigger)
	}
	fmt.Printf("\n⭐ Quality: %.1f/100 on %d confirmations\n",
		plan.Confluence.Score, plan.Confluence.ConfluenceCount)

	if len(plan.Reasons) > 0 {
		fmt.Println("\nEvidence:")
		for _, r := range plan.Reasons {
			fmt.Printf("  • %s\n", r)
		}
	}
	if len(plan.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range plan.Warnings {
			fmt.Printf("  ⚠️  %s\n", w)
		}
	}

	if plan.StopLoss != nil {
		fmt.Printf("\n🛑 Stop: %.4f (%s, %.2f%% away)\n",
			plan.StopLoss.Price, plan.StopLoss.Method, plan.StopLoss.DistancePercent)
	}
	if plan.TakeProfit != nil {
		fmt.Println("🎯 Targets:")
		for _, t := range plan.TakeProfit.Targets {
			fmt.Printf("  %dR  %.4f  close %d%%\n", int(t.RiskMultiple), t.Price, t.ClosePercent)
		}
	}
	if plan.Position != nil {
		fmt.Printf("💰 Size: %.6f units (~%.2f notional, risking %.2f)\n",
			plan.Position.SizeUnits, plan.Position.PositionValue, plan.Position.RiskAmount)
	}
	if plan.RiskReward != nil {
		fmt.Printf("⚖️  Risk/Reward: %.2f (%s)\n", plan.RiskReward.Ratio, plan.RiskReward.Status)
	}
	if plan.Gate != nil {
		if plan.Gate.Passed {
			fmt.Println("✅ Risk gate: PASSED")
		} else {
			fmt.Println("🚫 Risk gate: REJECTED")
			for _, d := range plan.Gate.Details {
				fmt.Printf("   %s\n", d)
			}
		}
	}

	if len(plan.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range plan.Recommendations {
			fmt.Printf("  → %s\n", r)
		}
	}
}
