// Package service orchestrates the analysis pipeline: fetch career stats
// and rosters through the cache, load the identity mapping, reconcile.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/farmcheck/internal/cache"
	"github.com/fortuna/farmcheck/internal/eligibility"
	"github.com/fortuna/farmcheck/internal/idmap"
	"github.com/fortuna/farmcheck/internal/ingest/fangraphs"
	"github.com/fortuna/farmcheck/internal/ingest/fantrax"
)

// StatsFetcher is the career-stats source.
type StatsFetcher interface {
	FetchCareerStats(ctx context.Context, onPage fangraphs.PageFunc) (batting, pitching fangraphs.CareerIndex, warnings []string)
}

// RosterFetcher is the league roster source.
type RosterFetcher interface {
	FetchRosters(ctx context.Context, leagueID string) (*fantrax.RosterSnapshot, error)
}

// Reporter receives run progress. Both the WebSocket hub and the CLI
// console implement it.
type Reporter interface {
	OnRunStart(leagueID string)
	OnStatsPage(group string, page, records int)
	OnPhase(phase string)
	OnWarning(message string)
	OnRunComplete(report *eligibility.Report)
	OnRunError(err error)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) OnRunStart(string)                 {}
func (NopReporter) OnStatsPage(string, int, int)      {}
func (NopReporter) OnPhase(string)                    {}
func (NopReporter) OnWarning(string)                  {}
func (NopReporter) OnRunComplete(*eligibility.Report) {}
func (NopReporter) OnRunError(error)                  {}

// Config holds the analysis inputs.
type Config struct {
	LeagueID    string
	MappingFile string
	StatsTTL    time.Duration
	RostersTTL  time.Duration
}

// AnalysisService runs the fetch → join → filter pipeline once per
// invocation. Fetches go through the injected cache; the reconcile core
// stays pure.
type AnalysisService struct {
	stats   StatsFetcher
	rosters RosterFetcher
	cache   cache.Cache
	engine  *eligibility.Engine
	config  Config
}

// NewAnalysisService creates the analysis service.
func NewAnalysisService(stats StatsFetcher, rosters RosterFetcher, c cache.Cache, cfg Config) *AnalysisService {
	if cfg.StatsTTL == 0 {
		cfg.StatsTTL = time.Hour
	}
	if cfg.RostersTTL == 0 {
		cfg.RostersTTL = 5 * time.Minute
	}
	return &AnalysisService{
		stats:   stats,
		rosters: rosters,
		cache:   c,
		engine:  eligibility.NewEngine(),
		config:  cfg,
	}
}

// careerStatsPayload is the cached form of a full stats fetch. Warnings
// ride along so a cached partial fetch keeps reporting its truncation.
type careerStatsPayload struct {
	Batting  fangraphs.CareerIndex `json:"batting"`
	Pitching fangraphs.CareerIndex `json:"pitching"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Run executes one full analysis. Roster and mapping failures are fatal;
// stats page failures degrade to partial coverage carried as warnings.
func (s *AnalysisService) Run(ctx context.Context, reporter Reporter) (*eligibility.Report, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	reporter.OnRunStart(s.config.LeagueID)

	stats, err := s.loadCareerStats(ctx, reporter)
	if err != nil {
		reporter.OnRunError(err)
		return nil, err
	}
	for _, warning := range stats.Warnings {
		log.Printf("[analysis] ⚠️  %s", warning)
		reporter.OnWarning(warning)
	}
	reporter.OnPhase("career stats loaded")

	snapshot, err := s.loadRosters(ctx)
	if err != nil {
		reporter.OnRunError(err)
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}
	reporter.OnPhase("rosters loaded")

	mapping, err := idmap.Load(s.config.MappingFile)
	if err != nil {
		reporter.OnRunError(err)
		return nil, err
	}
	if mapping.MissingIDs() > 0 {
		log.Printf("[analysis] mapping loaded: %d rows (%d without FanGraphs id)", mapping.Len(), mapping.MissingIDs())
	}
	reporter.OnPhase("mapping loaded")

	violations, diagnostics := s.engine.Reconcile(snapshot, mapping, stats.Batting, stats.Pitching)
	metrics := s.engine.Metrics()

	report := &eligibility.Report{
		GeneratedAt:       time.Now(),
		LeagueID:          s.config.LeagueID,
		Violations:        violations,
		Diagnostics:       diagnostics,
		Warnings:          stats.Warnings,
		PitcherViolations: metrics.PitcherViolations,
		BatterViolations:  metrics.BatterViolations,
	}

	log.Printf("[analysis] ✓ reconciled %d entries (%d in minors): %d violations, %d diagnostics",
		metrics.EntriesScanned, metrics.MinorsChecked, len(violations), len(diagnostics))
	reporter.OnRunComplete(report)

	return report, nil
}

func (s *AnalysisService) loadCareerStats(ctx context.Context, reporter Reporter) (*careerStatsPayload, error) {
	data, err := s.cache.GetOrCompute(ctx, cache.KeyCareerStats, s.config.StatsTTL, func(ctx context.Context) ([]byte, error) {
		batting, pitching, warnings := s.stats.FetchCareerStats(ctx, reporter.OnStatsPage)
		return json.Marshal(careerStatsPayload{
			Batting:  batting,
			Pitching: pitching,
			Warnings: warnings,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading career stats: %w", err)
	}

	var payload careerStatsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding cached career stats: %w", err)
	}
	return &payload, nil
}

func (s *AnalysisService) loadRosters(ctx context.Context) (*fantrax.RosterSnapshot, error) {
	data, err := s.cache.GetOrCompute(ctx, cache.RostersKey(s.config.LeagueID), s.config.RostersTTL, func(ctx context.Context) ([]byte, error) {
		snapshot, err := s.rosters.FetchRosters(ctx, s.config.LeagueID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(snapshot)
	})
	if err != nil {
		return nil, err
	}

	var snapshot fantrax.RosterSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding cached rosters: %w", err)
	}
	return &snapshot, nil
}
