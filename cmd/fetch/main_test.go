package main

import (
    "bytes"
    "encoding/json"
    "math"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "bcbseries/internal/series"
)

func TestPrintResults(t *testing.T) {
    t.Parallel()

    tbl := series.Normalize("IPCA (Mensal) (% a.m.)", "% a.m.", []series.Point{
        {Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 0.50},
        {Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Value: 0.45},
    })
    var buf bytes.Buffer
    require.NoError(t, printResults(&buf, []result{{Code: "433", Column: tbl.Column, Summary: series.Summarize(tbl), Sample: tbl.Points}}))

    var got []result
    require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
    require.Len(t, got, 1)
    require.Equal(t, series.HasData, got[0].Summary.State)
    require.Len(t, got[0].Sample, 2)
}

func TestPrintResults_EncodeError(t *testing.T) {
    t.Parallel()

    var buf bytes.Buffer
    err := printResults(&buf, []result{{Code: "433", Sample: []series.Point{{Value: math.NaN()}}}})
    require.ErrorContains(t, err, "encode output")
    require.Zero(t, buf.Len())
}

func TestSplitCSVAndParseDate(t *testing.T) {
    t.Parallel()

    require.Equal(t, []string{"433", "1178"}, splitCSV(" 433, ,1178 ,"))

    d, err := parseDate("2025-01-31")
    require.NoError(t, err)
    require.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), d)

    d, err = parseDate("  ")
    require.NoError(t, err)
    require.True(t, d.IsZero())

    _, err = parseDate("31/01/2025")
    require.Error(t, err)
}
