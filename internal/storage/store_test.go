package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bcbseries/internal/catalog"
	"bcbseries/internal/series"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "series.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestSaveAndLoadTable(t *testing.T) {
	s := openTemp(t)
	ind, ok := catalog.Default().Lookup("433")
	require.True(t, ok)

	tbl := series.Normalize(ind.Column(), ind.Unit, []series.Point{
		{Date: day(2025, 2, 1), Value: 0.45},
		{Date: day(2025, 1, 1), Value: 0.50},
	})
	require.NoError(t, s.SaveTable(t.Context(), ind, tbl))

	got, err := s.LoadTable(t.Context(), "433")
	require.NoError(t, err)
	require.Equal(t, ind.Column(), got.Column)
	require.Equal(t, ind.Unit, got.Unit)
	require.Equal(t, tbl.Points, got.Points)
}

func TestSaveTable_ReplacesPreviousRows(t *testing.T) {
	s := openTemp(t)
	ind, _ := catalog.Default().Lookup("1178")

	first := series.Normalize(ind.Column(), ind.Unit, []series.Point{
		{Date: day(1999, 6, 22), Value: 45},
		{Date: day(1999, 6, 23), Value: 45},
	})
	require.NoError(t, s.SaveTable(t.Context(), ind, first))

	second := series.Normalize(ind.Column(), ind.Unit, []series.Point{{Date: day(2009, 6, 23), Value: 9.5}})
	require.NoError(t, s.SaveTable(t.Context(), ind, second))

	got, err := s.LoadTable(t.Context(), "1178")
	require.NoError(t, err)
	require.Len(t, got.Points, 1)
	require.InEpsilon(t, 9.5, got.Points[0].Value, 0.0001)
}

func TestSaveTable_Empty(t *testing.T) {
	s := openTemp(t)
	ind, _ := catalog.Default().Lookup("1")

	require.NoError(t, s.SaveTable(t.Context(), ind, series.Empty(ind.Column(), ind.Unit)))

	got, err := s.LoadTable(t.Context(), "1")
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
}

func TestLoadTable_NotFound(t *testing.T) {
	s := openTemp(t)
	_, err := s.LoadTable(t.Context(), "99999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// migrations already applied
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
