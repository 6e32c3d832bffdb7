package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/fortuna/farmcheck/internal/cache"
	"github.com/fortuna/farmcheck/internal/config"
	"github.com/fortuna/farmcheck/internal/eligibility"
	"github.com/fortuna/farmcheck/internal/ingest/fangraphs"
	"github.com/fortuna/farmcheck/internal/ingest/fantrax"
	"github.com/fortuna/farmcheck/internal/service"
)

const (
	appName    = "eligibility-report"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		configPath = flag.String("config", getEnv("CONFIG_FILE", "farmcheck.yaml"), "Path to YAML config file")
		leagueID   = flag.String("league", "", "Fantrax league ID (overrides config)")
		mapping    = flag.String("mapping", "", "Player ID Key CSV path (overrides config)")
		output     = flag.String("o", "", "Write CSV here instead of stdout")
	)

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	if *leagueID != "" {
		cfg.LeagueID = *leagueID
	}
	if *mapping != "" {
		cfg.MappingFile = *mapping
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	statsClient := fangraphs.New(cfg.FanGraphs.BaseURL, cfg.FanGraphs.Season)
	if cfg.FanGraphs.PageDelay > 0 {
		statsClient.PageDelay = cfg.FanGraphs.PageDelay.Std()
	}
	rosterClient := fantrax.New(cfg.Fantrax.BaseURL)

	// One-shot run: nothing to share, so the in-memory cache is enough.
	analysis := service.NewAnalysisService(statsClient, rosterClient, cache.NewMemoryCache(), service.Config{
		LeagueID:    cfg.LeagueID,
		MappingFile: cfg.MappingFile,
		StatsTTL:    cfg.Cache.StatsTTL.Std(),
		RostersTTL:  cfg.Cache.RostersTTL.Std(),
	})

	report, err := analysis.Run(context.Background(), &consoleReporter{})
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	for _, note := range report.Diagnostics {
		log.Printf("⚠️  %s", note)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := report.WriteCSV(out); err != nil {
		log.Fatalf("write CSV: %v", err)
	}

	log.Printf("✓ %d violations (%d pitchers, %d batters), %d diagnostics",
		len(report.Violations), report.PitcherViolations, report.BatterViolations, len(report.Diagnostics))
}

type consoleReporter struct{}

func (c *consoleReporter) OnRunStart(leagueID string) {
	log.Printf("Analyzing league %s", leagueID)
}

func (c *consoleReporter) OnStatsPage(group string, page, records int) {
	log.Printf("Fetched %s page %d (%d records)", group, page, records)
}

func (c *consoleReporter) OnPhase(phase string) {
	log.Printf("Phase: %s", phase)
}

func (c *consoleReporter) OnWarning(message string) {
	log.Printf("Warning: %s", message)
}

func (c *consoleReporter) OnRunComplete(report *eligibility.Report) {
	log.Printf("Run complete: %d violations", len(report.Violations))
}

func (c *consoleReporter) OnRunError(err error) {
	log.Printf("Run error: %v", err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
