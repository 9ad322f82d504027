package series

import (
    "sort"
    "time"
)

// Point is a single dated observation.
type Point struct {
    Date  time.Time `json:"date"`
    Value float64   `json:"value"`
}

// Table is a date-ordered single-column series.
// Dates are strictly increasing; an empty table means "no data".
type Table struct {
    Column string  `json:"column"`
    Unit   string  `json:"unit"`
    Points []Point `json:"points"`
}

// Empty returns a table with no rows for the given column.
func Empty(column, unit string) *Table {
    return &Table{Column: column, Unit: unit, Points: []Point{}}
}

// Normalize builds a Table from rows in arrival order: duplicate dates keep
// the last value seen, and the result is sorted by date.
func Normalize(column, unit string, rows []Point) *Table {
    byDate := make(map[time.Time]int, len(rows))
    out := make([]Point, 0, len(rows))
    for _, r := range rows {
        d := Day(r.Date)
        if i, ok := byDate[d]; ok {
            out[i].Value = r.Value
            continue
        }
        byDate[d] = len(out)
        out = append(out, Point{Date: d, Value: r.Value})
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
    return &Table{Column: column, Unit: unit, Points: out}
}

func (t *Table) Len() int {
    if t == nil {
        return 0
    }
    return len(t.Points)
}

func (t *Table) IsEmpty() bool { return t.Len() == 0 }

// First and Last return the boundary points; ok is false for empty tables.
func (t *Table) First() (Point, bool) {
    if t.IsEmpty() {
        return Point{}, false
    }
    return t.Points[0], true
}

func (t *Table) Last() (Point, bool) {
    if t.IsEmpty() {
        return Point{}, false
    }
    return t.Points[len(t.Points)-1], true
}

// Slice returns the rows whose dates fall within [start, end].
// A zero start or end leaves that side open. The receiver is not modified.
func (t *Table) Slice(start, end time.Time) *Table {
    if t == nil {
        return Empty("", "")
    }
    out := Empty(t.Column, t.Unit)
    if t.IsEmpty() {
        return out
    }
    lo := 0
    if !start.IsZero() {
        s := Day(start)
        lo = sort.Search(len(t.Points), func(i int) bool { return !t.Points[i].Date.Before(s) })
    }
    hi := len(t.Points)
    if !end.IsZero() {
        e := Day(end)
        hi = sort.Search(len(t.Points), func(i int) bool { return t.Points[i].Date.After(e) })
    }
    if lo >= hi {
        return out
    }
    out.Points = append(out.Points, t.Points[lo:hi]...)
    return out
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
