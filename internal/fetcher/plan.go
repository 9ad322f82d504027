package fetcher

import (
    "fmt"
    "time"

    "bcbseries/internal/catalog"
    "bcbseries/internal/provider/sgs"
    "bcbseries/internal/series"
)

// Span is an inclusive calendar-date range covered by one upstream request.
type Span struct {
    Start time.Time
    End   time.Time
}

func (s Span) String() string {
    return fmt.Sprintf("%s-%s", s.Start.Format(sgs.DateLayout), s.End.Format(sgs.DateLayout))
}

// PlanSpans splits [ind.SeriesStart, today] into the requests needed to
// cover it. Daily series get consecutive spans of at most years years, each
// ending the day before the next one starts, with the last clipped to today.
// Every other frequency gets a single span. All spans are computed up front,
// so they can be requested in any order.
func PlanSpans(ind catalog.Indicator, now time.Time, years int) []Span {
    start := series.Day(ind.SeriesStart)
    today := series.Day(now)
    if start.After(today) {
        return nil
    }
    if ind.Frequency != catalog.Daily || years <= 0 {
        return []Span{{Start: start, End: today}}
    }

    var spans []Span
    for s := start; !s.After(today); {
        e := s.AddDate(years, 0, -1)
        if e.After(today) {
            e = today
        }
        spans = append(spans, Span{Start: s, End: e})
        s = e.AddDate(0, 0, 1)
    }
    return spans
}
