package aggregate

import (
    "testing"
    "time"

    "bcbseries/internal/catalog"
    "bcbseries/internal/series"
)

func ind(code string) catalog.Indicator {
    i, ok := catalog.Default().Lookup(code)
    if !ok { panic("missing " + code) }
    return i
}

func table(i catalog.Indicator, pts ...series.Point) *series.Table {
    return series.Normalize(i.Column(), i.Unit, pts)
}

func TestLatest_NewestObservationAndChange(t *testing.T) {
    t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
    t2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
    ipca := ind("433")

    out := LatestByIndicator([]Entry{{ipca, table(ipca, series.Point{Date: t1, Value: 0.50}, series.Point{Date: t2, Value: 0.45})}}, false)
    if len(out) != 1 {
        t.Fatalf("want 1, got %d: %+v", len(out), out)
    }
    got := out[0]
    if got.Code != "433" || got.State != series.HasData || !got.Date.Equal(t2) || *got.Value != 0.45 {
        t.Fatalf("unexpected result: %+v", got)
    }
    if got.PreviousDate == nil || !got.PreviousDate.Equal(t1) {
        t.Fatalf("previous date: %+v", got.PreviousDate)
    }
    if d := *got.Change - (-0.05); d > 1e-9 || d < -1e-9 {
        t.Fatalf("change: %v", *got.Change)
    }
}

func TestLatest_SinglePointHasNoChange(t *testing.T) {
    selic := ind("1178")
    out := LatestByIndicator([]Entry{{selic, table(selic, series.Point{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 12.25})}}, false)
    if out[0].State != series.InsufficientData || out[0].Change != nil || out[0].Value == nil {
        t.Fatalf("unexpected: %+v", out[0])
    }
}

func TestLatest_EmptyTables_KeptOrSkipped(t *testing.T) {
    ipca, ptax := ind("433"), ind("1")
    in := []Entry{
        {ipca, series.Empty(ipca.Column(), ipca.Unit)},
        {ptax, table(ptax, series.Point{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Value: 6.1})},
    }

    all := LatestByIndicator(in, false)
    if len(all) != 2 {
        t.Fatalf("want 2 rows, got %d: %+v", len(all), all)
    }
    if all[1].Code != "433" || all[1].State != series.NoData || all[1].Value != nil {
        t.Fatalf("expected a no_data row for 433: %+v", all[1])
    }

    some := LatestByIndicator(in, true)
    if len(some) != 1 || some[0].Code != "1" {
        t.Fatalf("expected only 1: %+v", some)
    }
}

func TestLatest_DuplicateCodes_NewerDateWins(t *testing.T) {
    ipca := ind("433")
    old := table(ipca, series.Point{Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), Value: 0.52})
    recent := table(ipca, series.Point{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 0.50})

    for _, in := range [][]Entry{
        {{ipca, old}, {ipca, recent}},
        {{ipca, recent}, {ipca, old}},
        {{ipca, recent}, {ipca, series.Empty("", "")}},
    } {
        out := LatestByIndicator(in, false)
        if len(out) != 1 || *out[0].Value != 0.50 {
            t.Fatalf("unexpected: %+v", out)
        }
    }
}

func TestLatest_OrderedNumerically(t *testing.T) {
    var in []Entry
    for _, code := range []string{"21619", "433", "1", "13522", "1178"} {
        i := ind(code)
        in = append(in, Entry{i, series.Empty(i.Column(), i.Unit)})
    }
    out := LatestByIndicator(in, false)
    want := []string{"1", "433", "1178", "13522", "21619"}
    for i, w := range want {
        if out[i].Code != w {
            t.Fatalf("position %d: want %s got %s", i, w, out[i].Code)
        }
    }
}
