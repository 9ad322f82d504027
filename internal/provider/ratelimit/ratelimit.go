package ratelimit

import (
    "net/http"
    "sync"
    "time"
)

// Doer is the subset of *http.Client the limiters wrap.
type Doer interface {
    Do(req *http.Request) (*http.Response, error)
}

// MinInterval wraps a Doer and enforces a minimum time between request starts.
// Concurrent callers queue up behind each other, or return early if the
// request context is canceled.
type MinInterval struct {
    C        Doer
    Interval time.Duration
    mu       sync.Mutex
    next     time.Time
}

func (m *MinInterval) Do(req *http.Request) (*http.Response, error) {
    if m.Interval > 0 {
        // reserve the next slot under the lock so concurrent callers do not share it
        m.mu.Lock()
        now := time.Now()
        slot := m.next
        if slot.Before(now) {
            slot = now
        }
        m.next = slot.Add(m.Interval)
        m.mu.Unlock()

        if wait := time.Until(slot); wait > 0 {
            t := time.NewTimer(wait)
            defer t.Stop()
            select {
            case <-req.Context().Done():
                return nil, req.Context().Err()
            case <-t.C:
            }
        }
    }
    return m.C.Do(req)
}

// Wrap gates d with a token bucket when rpm > 0, otherwise with a minimum
// interval when minInterval > 0. With neither set d is returned as-is.
func Wrap(d Doer, rpm, burst int, minInterval time.Duration) Doer {
    switch {
    case rpm > 0:
        return &Client{C: d, TB: PerMinute(rpm, burst)}
    case minInterval > 0:
        return &MinInterval{C: d, Interval: minInterval}
    default:
        return d
    }
}
