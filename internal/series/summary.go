package series

// State is the presentable condition of a (sliced) table.
type State string

const (
    NoData           State = "no_data"
    InsufficientData State = "insufficient_data"
    HasData          State = "has_data"
)

// Classify triages a table: a variation needs at least two points.
func Classify(t *Table) State {
    switch n := t.Len(); {
    case n == 0:
        return NoData
    case n == 1:
        return InsufficientData
    default:
        return HasData
    }
}

// Summary describes a table the way a summary card does.
// Variation fields are only set for HasData.
type Summary struct {
    State     State    `json:"state"`
    Count     int      `json:"count"`
    First     *Point   `json:"first,omitempty"`
    Last      *Point   `json:"last,omitempty"`
    Min       *Point   `json:"min,omitempty"`
    Max       *Point   `json:"max,omitempty"`
    Change    *float64 `json:"change,omitempty"`
    ChangePct *float64 `json:"change_pct,omitempty"`
}

// Summarize computes first/last/min/max and the variation between first and last.
func Summarize(t *Table) Summary {
    s := Summary{State: Classify(t), Count: t.Len()}
    if s.State == NoData {
        return s
    }

    first, _ := t.First()
    last, _ := t.Last()
    lo, hi := first, first
    for _, p := range t.Points[1:] {
        // ties keep the earliest date
        if p.Value < lo.Value {
            lo = p
        }
        if p.Value > hi.Value {
            hi = p
        }
    }
    s.First, s.Last, s.Min, s.Max = &first, &last, &lo, &hi

    if s.State != HasData {
        return s
    }
    change := last.Value - first.Value
    s.Change = &change
    if first.Value != 0 {
        pct := change / first.Value * 100
        s.ChangePct = &pct
    }
    return s
}
