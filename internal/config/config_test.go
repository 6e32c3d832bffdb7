package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileAbsent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.RESTPort)
	require.Equal(t, "8081", cfg.WSPort)
	require.Equal(t, time.Hour, cfg.Cache.StatsTTL.Std())
	require.Equal(t, 5*time.Minute, cfg.Cache.RostersTTL.Std())
	require.Equal(t, 500*time.Millisecond, cfg.FanGraphs.PageDelay.Std())
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmcheck.yaml")
	content := `
league_id: customleague
mapping_file: /data/ids.csv
rest_port: "9090"
cache:
  stats_ttl: 30m
  rosters_ttl: 1m
fangraphs:
  season: "2027"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "customleague", cfg.LeagueID)
	require.Equal(t, "/data/ids.csv", cfg.MappingFile)
	require.Equal(t, "9090", cfg.RESTPort)
	require.Equal(t, 30*time.Minute, cfg.Cache.StatsTTL.Std())
	require.Equal(t, time.Minute, cfg.Cache.RostersTTL.Std())
	require.Equal(t, "2027", cfg.FanGraphs.Season)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("FARMCHECK_LEAGUE_ID", "env-league")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "env-league", cfg.LeagueID)
	require.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}

func TestValidate(t *testing.T) {
	cfg := Default()

	cfg.LeagueID = ""
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MappingFile = ""
	require.Error(t, cfg.Validate())
}
