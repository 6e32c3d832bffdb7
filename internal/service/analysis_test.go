package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fortuna/farmcheck/internal/cache"
	"github.com/fortuna/farmcheck/internal/eligibility"
	"github.com/fortuna/farmcheck/internal/ingest/fangraphs"
	"github.com/fortuna/farmcheck/internal/ingest/fantrax"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubStats struct {
	batting  fangraphs.CareerIndex
	pitching fangraphs.CareerIndex
	warnings []string
	calls    int
}

func (s *stubStats) FetchCareerStats(ctx context.Context, onPage fangraphs.PageFunc) (fangraphs.CareerIndex, fangraphs.CareerIndex, []string) {
	s.calls++
	if onPage != nil {
		onPage(fangraphs.GroupBatting, 1, len(s.batting))
	}
	return s.batting, s.pitching, s.warnings
}

type stubRosters struct {
	snapshot *fantrax.RosterSnapshot
	err      error
	calls    int
}

func (s *stubRosters) FetchRosters(ctx context.Context, leagueID string) (*fantrax.RosterSnapshot, error) {
	s.calls++
	return s.snapshot, s.err
}

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Player ID Key.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testSnapshot() *fantrax.RosterSnapshot {
	return &fantrax.RosterSnapshot{Teams: []fantrax.Team{{
		TeamID:   "t1",
		TeamName: "River Cats",
		RosterItems: []fantrax.RosterEntry{
			{ID: "fxP", Status: "MINORS", Position: "SP"},
			{ID: "fxB", Status: "MINORS", Position: "OF"},
		},
	}}}
}

const testMappingCSV = "Fantrax_ID,FANTRAXNAME,IDFANGRAPHS\n" +
	"fxP,Dee Ray,7001\n" +
	"fxB,Lou Marsh,7002\n"

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRun_ProducesReport(t *testing.T) {
	stats := &stubStats{
		pitching: fangraphs.CareerIndex{7001: {Name: "Dee Ray", IP: 62.3}},
		batting:  fangraphs.CareerIndex{},
	}
	rosters := &stubRosters{snapshot: testSnapshot()}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: writeMapping(t, testMappingCSV),
	})

	report, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Equal(t, "league1", report.LeagueID)
	require.Equal(t, []eligibility.Violation{{
		Player:       "Dee Ray",
		Position:     "SP",
		Team:         "River Cats",
		CurrentTotal: 62.3,
		Threshold:    "50 IP",
	}}, report.Violations)
	require.Equal(t, []string{"No stats for Lou Marsh (FG ID: 7002)"}, report.Diagnostics)
	require.Equal(t, 1, report.PitcherViolations)
	require.Equal(t, 0, report.BatterViolations)
}

func TestRun_SecondRunServedFromCache(t *testing.T) {
	stats := &stubStats{batting: fangraphs.CareerIndex{}, pitching: fangraphs.CareerIndex{}}
	rosters := &stubRosters{snapshot: testSnapshot()}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: writeMapping(t, testMappingCSV),
		StatsTTL:    time.Hour,
		RostersTTL:  time.Hour,
	})

	_, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Equal(t, 1, stats.calls, "career stats must come from cache on the second run")
	require.Equal(t, 1, rosters.calls, "rosters must come from cache on the second run")
}

func TestRun_RosterFailureIsFatal(t *testing.T) {
	stats := &stubStats{batting: fangraphs.CareerIndex{}, pitching: fangraphs.CareerIndex{}}
	rosters := &stubRosters{err: fantrax.ErrMalformedResponse}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: writeMapping(t, testMappingCSV),
	})

	report, err := svc.Run(context.Background(), nil)
	require.Nil(t, report)
	require.ErrorIs(t, err, fantrax.ErrMalformedResponse)
}

func TestRun_MappingFailureIsFatal(t *testing.T) {
	stats := &stubStats{batting: fangraphs.CareerIndex{}, pitching: fangraphs.CareerIndex{}}
	rosters := &stubRosters{snapshot: testSnapshot()}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: filepath.Join(t.TempDir(), "missing.csv"),
	})

	report, err := svc.Run(context.Background(), nil)
	require.Nil(t, report)
	require.Error(t, err)
}

func TestRun_StatsWarningsCarriedOnReport(t *testing.T) {
	stats := &stubStats{
		batting:  fangraphs.CareerIndex{},
		pitching: fangraphs.CareerIndex{},
		warnings: []string{"bat stats truncated at page 3: boom"},
	}
	rosters := &stubRosters{snapshot: &fantrax.RosterSnapshot{}}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: writeMapping(t, testMappingCSV),
	})

	report, err := svc.Run(context.Background(), nil)
	require.NoError(t, err, "a truncated stats fetch degrades, never aborts")
	require.Equal(t, []string{"bat stats truncated at page 3: boom"}, report.Warnings)
}

func TestRun_ReporterSeesLifecycle(t *testing.T) {
	stats := &stubStats{batting: fangraphs.CareerIndex{}, pitching: fangraphs.CareerIndex{}}
	rosters := &stubRosters{snapshot: testSnapshot()}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: writeMapping(t, testMappingCSV),
	})

	rec := &recordingReporter{}
	_, err := svc.Run(context.Background(), rec)
	require.NoError(t, err)

	require.Equal(t, "league1", rec.started)
	require.Equal(t, []string{"career stats loaded", "rosters loaded", "mapping loaded"}, rec.phases)
	require.NotNil(t, rec.completed)
	require.Equal(t, 1, rec.pages)
}

func TestRun_ErroredRosterCacheNotPoisoned(t *testing.T) {
	stats := &stubStats{batting: fangraphs.CareerIndex{}, pitching: fangraphs.CareerIndex{}}
	rosters := &stubRosters{err: errors.New("transient")}

	svc := NewAnalysisService(stats, rosters, cache.NewMemoryCache(), Config{
		LeagueID:    "league1",
		MappingFile: writeMapping(t, testMappingCSV),
	})

	_, err := svc.Run(context.Background(), nil)
	require.Error(t, err)

	rosters.err = nil
	rosters.snapshot = testSnapshot()

	report, err := svc.Run(context.Background(), nil)
	require.NoError(t, err, "a failed fetch must not be cached")
	require.NotNil(t, report)
}

type recordingReporter struct {
	started   string
	phases    []string
	warnings  []string
	pages     int
	completed *eligibility.Report
	runErr    error
}

func (r *recordingReporter) OnRunStart(leagueID string) { r.started = leagueID }

func (r *recordingReporter) OnStatsPage(string, int, int) { r.pages++ }

func (r *recordingReporter) OnPhase(phase string) { r.phases = append(r.phases, phase) }

func (r *recordingReporter) OnWarning(msg string) { r.warnings = append(r.warnings, msg) }

func (r *recordingReporter) OnRunComplete(report *eligibility.Report) { r.completed = report }

func (r *recordingReporter) OnRunError(err error) { r.runErr = err }
