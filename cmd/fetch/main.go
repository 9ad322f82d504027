package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "os"
    "strings"
    "time"

    "bcbseries/internal/catalog"
    "bcbseries/internal/config"
    "bcbseries/internal/fetcher"
    "bcbseries/internal/httpx"
    "bcbseries/internal/logger"
    "bcbseries/internal/provider/ratelimit"
    "bcbseries/internal/provider/sgs"
    "bcbseries/internal/series"
    "bcbseries/internal/storage"
)

type result struct {
    Code    string         `json:"code"`
    Column  string         `json:"column"`
    Summary series.Summary `json:"summary"`
    Sample  []series.Point `json:"sample"`
}

func main() {
    var codesCSV string
    var startStr, endStr string
    var configPath string
    var dbPath string
    var timeout int

    flag.StringVar(&codesCSV, "code", getenv("CODES", "433"), "comma-separated SGS codes (\"all\" for the whole catalog)")
    flag.StringVar(&startStr, "start", "", "first date to print, YYYY-MM-DD (optional)")
    flag.StringVar(&endStr, "end", "", "last date to print, YYYY-MM-DD (optional)")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.StringVar(&dbPath, "db", "", "export full histories to this SQLite file (defaults to SQLITE_PATH)")
    flag.IntVar(&timeout, "timeout", 120, "overall timeout seconds")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil {
        slog.Error("config", "err", err)
        os.Exit(1)
    }
    log := logger.NewWithWriter(cfg.Log, os.Stderr)

    start, err := parseDate(startStr)
    if err != nil { fatal(log, "invalid -start", err) }
    end, err := parseDate(endStr)
    if err != nil { fatal(log, "invalid -end", err) }
    if dbPath == "" { dbPath = cfg.Storage.SQLitePath }

    cat := catalog.Default()
    codes := splitCSV(codesCSV)
    if len(codes) == 1 && strings.EqualFold(codes[0], "all") {
        codes = codes[:0]
        for _, ind := range cat.All() {
            codes = append(codes, ind.Code)
        }
    }
    if len(codes) == 0 { fatal(log, "no codes provided", nil) }

    httpClient := httpx.New(cfg.SGS.Timeout())
    client := sgs.NewClient(
        sgs.WithBaseURL(cfg.SGS.BaseURL),
        sgs.WithHTTPClient(ratelimit.Wrap(httpClient, cfg.SGS.MaxRequestsPerMinute, cfg.SGS.Burst, cfg.SGS.MinInterval())),
    )
    f := fetcher.New(cat, client, fetcher.Config{
        ChunkYears:     cfg.SGS.ChunkYears,
        MaxConcurrency: cfg.SGS.MaxConcurrency,
        RequestTimeout: cfg.SGS.Timeout(),
        CacheMaxItems:  len(codes),
    }, fetcher.WithLogger(log))

    var store *storage.Store
    if dbPath != "" {
        store, err = storage.Open(dbPath)
        if err != nil { fatal(log, "open storage", err) }
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)

    var out []result
    for _, code := range codes {
        full := f.Fetch(ctx, code)
        ind, known := cat.Lookup(code)
        if store != nil && known && !full.IsEmpty() {
            if err := store.SaveTable(ctx, ind, full); err != nil {
                log.Error("export failed", "code", code, "err", err)
            } else {
                log.Info("exported", "code", code, "rows", full.Len(), "db", dbPath)
            }
        }

        t := full.Slice(start, end)
        // Print up to 10 points, the most recent ones
        sample := t.Points
        if n := len(sample); n > 10 { sample = sample[n-10:] }
        out = append(out, result{Code: code, Column: t.Column, Summary: series.Summarize(t), Sample: sample})
    }

    cancel()
    if store != nil { _ = store.Close() }
    if err := printResults(os.Stdout, out); err != nil { fatal(log, "print results", err) }

    // non-zero when any code came back empty
    for _, r := range out {
        if r.Summary.State == series.NoData {
            os.Exit(2)
        }
    }
}

// printResults writes out as indented JSON.
func printResults(w io.Writer, out []result) error {
    b, err := json.MarshalIndent(out, "", "  ")
    if err != nil {
        return fmt.Errorf("encode output: %w", err)
    }
    _, err = fmt.Fprintln(w, string(b))
    return err
}

func parseDate(s string) (time.Time, error) {
    if strings.TrimSpace(s) == "" { return time.Time{}, nil }
    return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func fatal(log *slog.Logger, msg string, err error) {
    if err != nil {
        log.Error(msg, "err", err)
    } else {
        log.Error(msg)
    }
    os.Exit(1)
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

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
