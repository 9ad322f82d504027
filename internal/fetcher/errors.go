package fetcher

import (
    "context"
    "errors"
    "net"

    "bcbseries/internal/provider/sgs"
)

var (
    // ErrUnknownIndicator is reported for codes missing from the catalog.
    ErrUnknownIndicator = errors.New("unknown indicator")
    // ErrEmptyUpstream means every request succeeded but returned no rows.
    ErrEmptyUpstream = errors.New("upstream returned no data")
)

// Outcome labels, also used as the metrics "outcome" label.
const (
    OutcomeOK       = "ok"
    OutcomeEmpty    = "empty"
    OutcomeUnknown  = "unknown"
    OutcomeFailed   = "failed"
    OutcomeCanceled = "canceled"
    OutcomeCached   = "cached"
)

// outcome classifies the error returned by a load.
func outcome(err error) string {
    switch {
    case err == nil:
        return OutcomeOK
    case errors.Is(err, ErrEmptyUpstream):
        return OutcomeEmpty
    case errors.Is(err, ErrUnknownIndicator):
        return OutcomeUnknown
    case errors.Is(err, context.Canceled):
        return OutcomeCanceled
    default:
        return OutcomeFailed
    }
}

// reason is a short failure cause for logs.
func reason(err error) string {
    var (
        se *sgs.StatusError
        pe *sgs.ParseError
        ne net.Error
    )
    switch {
    case errors.Is(err, context.DeadlineExceeded):
        return "timeout"
    case errors.Is(err, context.Canceled):
        return "canceled"
    case errors.Is(err, sgs.ErrRateLimited):
        return "rate_limited"
    case errors.Is(err, sgs.ErrSeriesNotFound):
        return "not_found"
    case errors.As(err, &se):
        return "status"
    case errors.As(err, &pe):
        return "parse"
    case errors.As(err, &ne) && ne.Timeout():
        return "timeout"
    case errors.As(err, &ne):
        return "network"
    default:
        return "transport"
    }
}

// statusClass labels a single upstream request for metrics.
func statusClass(err error) string {
    if err == nil {
        return "2xx"
    }
    var se *sgs.StatusError
    switch {
    case errors.Is(err, sgs.ErrRateLimited):
        return "429"
    case errors.Is(err, sgs.ErrSeriesNotFound):
        return "404"
    case errors.As(err, &se) && se.Code >= 500:
        return "5xx"
    case errors.As(err, &se):
        return "4xx"
    default:
        return reason(err)
    }
}
