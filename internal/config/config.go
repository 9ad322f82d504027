package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/hashicorp/go-multierror"
    "github.com/joho/godotenv"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type SGS struct {
    BaseURL               string `json:"base_url"`
    TimeoutSec            int    `json:"timeout_sec"`
    ChunkYears            int    `json:"chunk_years"`
    MaxConcurrency        int    `json:"max_concurrency"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    Burst                 int    `json:"burst"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
}

type Cache struct {
    MaxItems int `json:"max_items"`
}

type Log struct {
    Level  string `json:"level"`
    Format string `json:"format"`
}

type Storage struct {
    SQLitePath string `json:"sqlite_path"`
}

type Config struct {
    Server  Server  `json:"server"`
    SGS     SGS     `json:"sgs"`
    Cache   Cache   `json:"cache"`
    Log     Log     `json:"log"`
    Storage Storage `json:"storage"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 60},
        SGS: SGS{
            BaseURL:        "https://api.bcb.gov.br/dados/serie",
            TimeoutSec:     10,
            ChunkYears:     10,
            MaxConcurrency: 1,
            Burst:          1,
        },
        Cache: Cache{MaxItems: 16},
        Log:   Log{Level: "info", Format: "text"},
    }
}

// Timeout is the per-request upstream timeout.
func (s SGS) Timeout() time.Duration { return time.Duration(s.TimeoutSec) * time.Second }

// MinInterval is the minimum spacing between upstream requests.
func (s SGS) MinInterval() time.Duration {
    return time.Duration(s.MinRequestIntervalSec) * time.Second
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. A .env file in the working directory is loaded first
// (without overriding the real environment); environment variables override
// file values.
func Load(path string) (Config, error) {
    _ = godotenv.Load()

    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    if err := cfg.Validate(); err != nil {
        return cfg, err
    }
    return cfg, nil
}

// Validate rejects settings the fetcher cannot run with. Every problem is
// reported, not just the first.
func (c Config) Validate() error {
    var errs *multierror.Error
    if strings.TrimSpace(c.SGS.BaseURL) == "" {
        errs = multierror.Append(errs, errors.New("sgs.base_url is required"))
    }
    if c.SGS.TimeoutSec <= 0 {
        errs = multierror.Append(errs, errors.New("sgs.timeout_sec must be positive"))
    }
    if c.SGS.ChunkYears <= 0 {
        errs = multierror.Append(errs, errors.New("sgs.chunk_years must be positive"))
    }
    if c.SGS.MaxConcurrency <= 0 {
        errs = multierror.Append(errs, errors.New("sgs.max_concurrency must be positive"))
    }
    if c.Cache.MaxItems <= 0 {
        errs = multierror.Append(errs, errors.New("cache.max_items must be positive"))
    }
    if err := errs.ErrorOrNil(); err != nil {
        return fmt.Errorf("invalid config: %w", err)
    }
    return nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    envInt("REQUEST_TIMEOUT_SEC", 1, &cfg.Server.RequestTimeoutSec)

    if v := os.Getenv("SGS_BASE_URL"); v != "" { cfg.SGS.BaseURL = v }
    envInt("SGS_TIMEOUT_SEC", 1, &cfg.SGS.TimeoutSec)
    envInt("SGS_CHUNK_YEARS", 1, &cfg.SGS.ChunkYears)
    envInt("SGS_MAX_CONCURRENCY", 1, &cfg.SGS.MaxConcurrency)
    envInt("SGS_MAX_RPM", 0, &cfg.SGS.MaxRequestsPerMinute)
    envInt("SGS_BURST", 1, &cfg.SGS.Burst)
    envInt("SGS_MIN_INTERVAL_SEC", 0, &cfg.SGS.MinRequestIntervalSec)

    envInt("CACHE_MAX_ITEMS", 1, &cfg.Cache.MaxItems)

    if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Log.Level = strings.ToLower(v) }
    if v := os.Getenv("LOG_FORMAT"); v != "" { cfg.Log.Format = strings.ToLower(v) }

    if v := os.Getenv("SQLITE_PATH"); v != "" { cfg.Storage.SQLitePath = v }
}

// envInt overwrites dst with the integer in key when it parses and is >= min.
func envInt(key string, min int, dst *int) {
    v := os.Getenv(key)
    if v == "" { return }
    var x int
    if _, err := fmt.Sscanf(v, "%d", &x); err != nil { return }
    if x >= min { *dst = x }
}
