package idmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReader_CanonicalHeader(t *testing.T) {
	csv := "Fantrax_ID,FANTRAXNAME,IDFANGRAPHS\n" +
		"fx1,Casey Mills,1001\n" +
		"fx2,Jordan Reyes,N/A\n"

	table, err := LoadReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	row, ok := table.Lookup("fx1")
	require.True(t, ok)
	require.Equal(t, Row{FantraxID: "fx1", Name: "Casey Mills", FanGraphsID: "1001"}, row)

	// Non-integer ids pass through untouched: they are a signal, not
	// missing data.
	row, ok = table.Lookup("fx2")
	require.True(t, ok)
	require.Equal(t, "N/A", row.FanGraphsID)
}

func TestLoadReader_LegacyFantraxIDHeader(t *testing.T) {
	csv := "FANTRAXID,FANTRAXNAME,IDFANGRAPHS\nfx1,Casey Mills,1001\n"

	table, err := LoadReader(strings.NewReader(csv))
	require.NoError(t, err)

	_, ok := table.Lookup("fx1")
	require.True(t, ok)
}

func TestLoadReader_NormalizesMissingMarkers(t *testing.T) {
	csv := "Fantrax_ID,FANTRAXNAME,IDFANGRAPHS\n" +
		"fx1,A,\n" +
		"fx2,B,nan\n" +
		"fx3,C,NaN\n" +
		"fx4,D,NULL\n" +
		"fx5,E,null\n"

	table, err := LoadReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 5, table.MissingIDs())

	for _, id := range []string{"fx1", "fx2", "fx3", "fx4", "fx5"} {
		row, ok := table.Lookup(id)
		require.True(t, ok, "row %s", id)
		require.Empty(t, row.FanGraphsID, "row %s should normalize to missing", id)
	}
}

func TestLoadReader_ExtraColumnsIgnored(t *testing.T) {
	csv := "MLBID,Fantrax_ID,FANTRAXNAME,Team,IDFANGRAPHS\n" +
		"660271,fx1,Casey Mills,SEA,1001\n"

	table, err := LoadReader(strings.NewReader(csv))
	require.NoError(t, err)

	row, ok := table.Lookup("fx1")
	require.True(t, ok)
	require.Equal(t, "1001", row.FanGraphsID)
}

func TestLoadReader_MissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no fantrax id", "FANTRAXNAME,IDFANGRAPHS"},
		{"no name", "Fantrax_ID,IDFANGRAPHS"},
		{"no fangraphs id", "Fantrax_ID,FANTRAXNAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.header + "\n"))
			require.Error(t, err)
			require.Contains(t, err.Error(), "missing column")
		})
	}
}

func TestLoadReader_FirstDuplicateWins(t *testing.T) {
	csv := "Fantrax_ID,FANTRAXNAME,IDFANGRAPHS\n" +
		"fx1,First Entry,1\n" +
		"fx1,Second Entry,2\n"

	table, err := LoadReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	row, _ := table.Lookup("fx1")
	require.Equal(t, "First Entry", row.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv")
	require.Error(t, err)
}
