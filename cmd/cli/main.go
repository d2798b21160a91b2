package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"coin-dca/internal/analysis"
	"coin-dca/internal/config"
	"coin-dca/internal/data"
	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --data charts/bitcoin.json --config examples/config.yaml --out results/events.csv")
	fmt.Println("  cli rank --data charts/ --contribution 100 --cadence monthly")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data takes saved market_chart JSON responses (see cmd/update-coins for the catalog)")
	fmt.Println("  - simulate writes one CSV row per periodic purchase")
	fmt.Println("  - rank runs the same plan over every chart and sorts by return")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to saved market_chart JSON response")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/events.csv", "Output CSV path")
	timeframe := fs.String("timeframe", "all", "Display window for CSV rows: all|month|year")
	_ = fs.Parse(args)

	if *dataPath == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}
	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	series, err := data.LoadSeriesJSON(*dataPath)
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	cadence, err := cfg.Plan.ParsedCadence()
	if err != nil {
		panic(err)
	}

	// Default the schedule to the span of the loaded series; an explicit
	// range in the config wins.
	start, end, err := planSpan(cfg.Plan, series)
	if err != nil {
		panic(err)
	}

	dates, err := sim.GenerateScheduleDates(start, end, cadence)
	if err != nil {
		panic(err)
	}

	res, err := sim.ComputeReturns(dates, cfg.Plan.ContributionDecimal(), series)
	if err != nil {
		panic(err)
	}

	tf, err := sim.ParseTimeframe(*timeframe)
	if err != nil {
		panic(err)
	}
	events := sim.FilterByTimeframe(res.Events, tf, time.Now().UTC())

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := sim.WriteEventsCSV(*outPath, events); err != nil {
		panic(err)
	}

	s := res.Summary
	fmt.Printf("Wrote %d rows to %s\n", len(events), *outPath)
	fmt.Printf("Invested=%s Units=%s Value=%s Return=%s (%s%%) AvgPrice=%s\n",
		s.TotalInvested.StringFixed(2),
		s.TotalUnits.StringFixed(6),
		s.CurrentValue.StringFixed(2),
		s.TotalReturn.StringFixed(2),
		s.ReturnPercentage.StringFixed(2),
		s.AveragePrice.StringFixed(2),
	)
	if s.SkippedDates > 0 {
		fmt.Printf("Skipped %d scheduled dates with no price data\n", s.SkippedDates)
	}
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	dataPaths := fs.String("data", "", "Comma-separated JSON paths or a directory")
	contribution := fs.Float64("contribution", 100, "Contribution per event")
	cadenceStr := fs.String("cadence", "monthly", "Cadence: daily|weekly|biweekly|monthly")
	_ = fs.Parse(args)

	if *dataPaths == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}

	cadence, err := sim.ParseCadence(*cadenceStr)
	if err != nil {
		panic(err)
	}

	byCoin := map[string]*model.PriceSeries{}
	for _, p := range splitPaths(*dataPaths) {
		info, err := os.Stat(p)
		if err != nil {
			panic(err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				panic(err)
			}
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				full := filepath.Join(p, e.Name())
				series, err := data.LoadSeriesJSON(full)
				if err != nil {
					panic(err)
				}
				byCoin[data.CoinIDFromFilename(full)] = series
			}
		} else {
			series, err := data.LoadSeriesJSON(p)
			if err != nil {
				panic(err)
			}
			byCoin[data.CoinIDFromFilename(p)] = series
		}
	}

	ranked := analysis.RankByReturn(byCoin, decimal.NewFromFloat(*contribution), cadence)
	fmt.Printf("%-4s %-16s %-6s %-8s %-12s %-12s %-10s\n", "rank", "coin", "days", "events", "invested", "value", "return%")
	for i, r := range ranked {
		fmt.Printf("%-4d %-16s %-6d %-8d %-12s %-12s %-10s\n",
			i+1,
			r.CoinID,
			r.Days,
			r.Events,
			r.TotalInvested.StringFixed(2),
			r.CurrentValue.StringFixed(2),
			r.ReturnPercentage.StringFixed(2),
		)
	}
}

func planSpan(plan config.PlanConfig, series *model.PriceSeries) (start, end time.Time, err error) {
	if plan.HasDateRange() {
		return plan.DateRange()
	}
	first, ok := series.First()
	if !ok {
		return time.Time{}, time.Time{}, sim.ErrInsufficientData
	}
	latest, _ := series.Latest()
	return first.Day, latest.Day, nil
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
