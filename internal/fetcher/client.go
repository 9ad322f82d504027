package fetcher

import (
    "context"
    "time"

    "bcbseries/internal/series"
)

// Client fetches the raw observations of one series over one span.
// *sgs.Client implements it.
//
//go:generate mockgen -package=fetcher_test -destination=mock_client_test.go -source=client.go Client
type Client interface {
    GetSeries(ctx context.Context, code string, start, end time.Time) ([]series.Point, error)
}
