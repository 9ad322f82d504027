// Package aggregate reduces fetched tables to the figures a dashboard shows
// side by side: the most recent observation of every indicator.
package aggregate

import (
    "sort"
    "time"

    "bcbseries/internal/catalog"
    "bcbseries/internal/series"
)

// Entry pairs an indicator with its fetched table.
type Entry struct {
    Indicator catalog.Indicator
    Table     *series.Table
}

// Latest is the newest observation of one indicator.
type Latest struct {
    Code      string            `json:"code"`
    Name      string            `json:"name"`
    Column    string            `json:"column"`
    Unit      string            `json:"unit"`
    Frequency catalog.Frequency `json:"frequency"`
    State     series.State      `json:"state"`
    Date      *time.Time        `json:"date,omitempty"`
    Value     *float64          `json:"value,omitempty"`
    // Previous observation and the change from it, when there is one.
    PreviousDate *time.Time `json:"previous_date,omitempty"`
    Change       *float64   `json:"change,omitempty"`
}

// LatestByIndicator collapses entries to one row per code. When a code
// appears more than once, the entry with the newer last date wins; on a
// tie the later entry wins. Empty tables still yield a no_data row unless
// skipEmpty is set. Rows are ordered numerically by code.
func LatestByIndicator(entries []Entry, skipEmpty bool) []Latest {
    latest := make(map[string]Latest, len(entries))

    for _, e := range entries {
        row := summarize(e)
        if skipEmpty && row.State == series.NoData { continue }

        if cur, ok := latest[row.Code]; ok && newer(cur, row) {
            continue
        }
        latest[row.Code] = row
    }

    out := make([]Latest, 0, len(latest))
    for _, v := range latest { out = append(out, v) }
    sort.Slice(out, func(i, j int) bool { return catalog.CodeLess(out[i].Code, out[j].Code) })
    return out
}

func summarize(e Entry) Latest {
    ind := e.Indicator
    row := Latest{
        Code:      ind.Code,
        Name:      ind.Name,
        Column:    ind.Column(),
        Unit:      ind.Unit,
        Frequency: ind.Frequency,
        State:     series.Classify(e.Table),
    }
    n := e.Table.Len()
    if n == 0 {
        return row
    }
    last := e.Table.Points[n-1]
    row.Date, row.Value = &last.Date, &last.Value
    if n > 1 {
        prev := e.Table.Points[n-2]
        d := last.Value - prev.Value
        row.PreviousDate, row.Change = &prev.Date, &d
    }
    return row
}

// newer reports whether cur must be kept over cand.
func newer(cur, cand Latest) bool {
    switch {
    case cand.Date == nil:
        return cur.Date != nil
    case cur.Date == nil:
        return false
    default:
        return cur.Date.After(*cand.Date)
    }
}
