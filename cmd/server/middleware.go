package main

import (
    "compress/gzip"
    "io"
    "log/slog"
    "net/http"
    "strings"
    "sync"
)

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        // promhttp sets its own text exposition content type
        if r.URL.Path != "/metrics" {
            w.Header().Set("Content-Type", "application/json; charset=utf-8")
        }
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // full daily histories are large but repetitive; speed over ratio
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        // promhttp negotiates its own compression
        if r.URL.Path == "/metrics" || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        w.Header().Del("Content-Length")
        next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size; the API is read-only.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 64 << 10
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(log *slog.Logger, next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                log.Error("handler panic", "path", r.URL.Path, "panic", rec)
                writeError(w, http.StatusInternalServerError, "internal server error")
            }
        }()
        next.ServeHTTP(w, r)
    })
}
