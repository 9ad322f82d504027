package main

import (
    "context"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus"

    "bcbseries/internal/catalog"
    "bcbseries/internal/config"
    "bcbseries/internal/fetcher"
    "bcbseries/internal/httpx"
    "bcbseries/internal/logger"
    "bcbseries/internal/metrics"
    "bcbseries/internal/provider/ratelimit"
    "bcbseries/internal/provider/sgs"
)

func main() {
    // Config
    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    if err != nil {
        slog.Error("config", "err", err)
        os.Exit(1)
    }
    log := logger.New(cfg.Log)
    slog.SetDefault(log)

    m := metrics.New(prometheus.DefaultRegisterer)

    httpClient := httpx.New(cfg.SGS.Timeout())
    doer := ratelimit.Wrap(httpClient, cfg.SGS.MaxRequestsPerMinute, cfg.SGS.Burst, cfg.SGS.MinInterval())
    client := sgs.NewClient(
        sgs.WithBaseURL(cfg.SGS.BaseURL),
        sgs.WithHTTPClient(doer),
    )

    f := fetcher.New(catalog.Default(), client, fetcher.Config{
        ChunkYears:     cfg.SGS.ChunkYears,
        MaxConcurrency: cfg.SGS.MaxConcurrency,
        RequestTimeout: cfg.SGS.Timeout(),
        CacheMaxItems:  cfg.Cache.MaxItems,
    }, fetcher.WithLogger(log), fetcher.WithMetrics(m))

    a := &api{
        fetcher: f,
        timeout: time.Duration(cfg.Server.RequestTimeoutSec) * time.Second,
        log:     log,
    }

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(log, limitBody(a.routes(prometheus.DefaultGatherer))))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        // a cold daily series takes several upstream round trips
        WriteTimeout: a.timeout + 10*time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Info("server listening", "addr", srv.Addr, "indicators", f.Catalog().Len())
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Error("server", "err", err)
            os.Exit(1)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    log.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}
