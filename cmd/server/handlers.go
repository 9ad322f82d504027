package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "bcbseries/internal/aggregate"
    "bcbseries/internal/catalog"
    "bcbseries/internal/fetcher"
    "bcbseries/internal/series"
)

const queryDateLayout = "2006-01-02"

type api struct {
    fetcher *fetcher.Fetcher
    timeout time.Duration
    log     *slog.Logger
}

type indicatorsResponse struct {
    Indicators []catalog.Indicator `json:"indicators"`
}

type latestResponse struct {
    Latest []aggregate.Latest `json:"latest"`
}

type seriesResponse struct {
    Indicator catalog.Indicator `json:"indicator"`
    Column    string            `json:"column"`
    Unit      string            `json:"unit"`
    State     series.State      `json:"state"`
    Summary   series.Summary    `json:"summary"`
    Points    []series.Point    `json:"points"`
}

func (a *api) routes(g prometheus.Gatherer) http.Handler {
    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte(`{"status":"ok"}`))
    })
    mux.HandleFunc("/api/indicators", getOnly(a.handleIndicators))
    mux.HandleFunc("/api/series", getOnly(a.handleSeries))
    mux.HandleFunc("/api/latest", getOnly(a.handleLatest))
    mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
    return mux
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            writeError(w, http.StatusMethodNotAllowed, "method not allowed")
            return
        }
        h(w, r)
    }
}

func (a *api) handleIndicators(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, indicatorsResponse{Indicators: a.fetcher.Catalog().All()})
}

func (a *api) handleSeries(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    code := strings.TrimSpace(q.Get("code"))
    if code == "" {
        writeError(w, http.StatusBadRequest, "missing code query param")
        return
    }
    ind, ok := a.fetcher.Catalog().Lookup(code)
    if !ok {
        writeError(w, http.StatusNotFound, fmt.Sprintf("unknown indicator %q", code))
        return
    }
    start, err := parseQueryDate(q.Get("start"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid start: "+err.Error())
        return
    }
    end, err := parseQueryDate(q.Get("end"))
    if err != nil {
        writeError(w, http.StatusBadRequest, "invalid end: "+err.Error())
        return
    }
    if !start.IsZero() && !end.IsZero() && end.Before(start) {
        writeError(w, http.StatusBadRequest, "end is before start")
        return
    }

    ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
    defer cancel()
    t := a.fetcher.Range(ctx, code, start, end)

    writeJSON(w, http.StatusOK, seriesResponse{
        Indicator: ind,
        Column:    t.Column,
        Unit:      t.Unit,
        State:     series.Classify(t),
        Summary:   series.Summarize(t),
        Points:    t.Points,
    })
}

// handleLatest reports the newest observation of each requested code, or of
// the whole catalog when codes is omitted.
func (a *api) handleLatest(w http.ResponseWriter, r *http.Request) {
    var inds []catalog.Indicator
    if q := r.URL.Query().Get("codes"); strings.TrimSpace(q) != "" {
        for _, code := range splitCSV(q) {
            ind, ok := a.fetcher.Catalog().Lookup(code)
            if !ok {
                writeError(w, http.StatusNotFound, fmt.Sprintf("unknown indicator %q", code))
                return
            }
            inds = append(inds, ind)
        }
    } else {
        inds = a.fetcher.Catalog().All()
    }

    ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
    defer cancel()
    // one goroutine per code
    ch := make(chan aggregate.Entry, len(inds))
    for _, ind := range inds {
        go func() {
            ch <- aggregate.Entry{Indicator: ind, Table: a.fetcher.Fetch(ctx, ind.Code)}
        }()
    }
    entries := make([]aggregate.Entry, 0, len(inds))
    for range inds {
        entries = append(entries, <-ch)
    }

    skipEmpty := r.URL.Query().Get("skip_empty") == "true"
    writeJSON(w, http.StatusOK, latestResponse{Latest: aggregate.LatestByIndicator(entries, skipEmpty)})
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}

// parseQueryDate accepts YYYY-MM-DD; empty means unbounded.
func parseQueryDate(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if s == "" {
        return time.Time{}, nil
    }
    return time.Parse(queryDateLayout, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
    writeJSON(w, status, map[string]string{"error": msg})
}
