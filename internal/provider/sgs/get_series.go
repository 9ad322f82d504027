package sgs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bcbseries/internal/series"
)

// DateLayout is the DD/MM/YYYY layout used by SGS in queries and payloads.
const DateLayout = "02/01/2006"

var (
	ErrRateLimited    = errors.New("sgs: rate limited")
	ErrSeriesNotFound = errors.New("sgs: series not found")
)

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sgs: unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("sgs: unexpected status code: %d: %s", e.Code, e.Body)
}

// ParseError reports a row that could not be converted into a point.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sgs: row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// row is the raw wire shape:
//
//	{ "data": "01/01/2025", "valor": "0.50" }
type row struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// GetSeries retrieves the observations of series code between start and end
// (inclusive, calendar dates). An empty upstream array yields an empty,
// non-nil slice and no error.
func (c *Client) GetSeries(ctx context.Context, code string, start, end time.Time) ([]series.Point, error) {
	query := url.Values{}
	query.Set("formato", "json")
	query.Set("dataInicial", start.Format(DateLayout))
	query.Set("dataFinal", end.Format(DateLayout))

	u := fmt.Sprintf("%s/bcdata.sgs.%s/dados?%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(code), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		break

	case res.StatusCode == http.StatusNotFound:
		return nil, ErrSeriesNotFound

	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var rows []row
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding series response: %w", err)
	}

	points := make([]series.Point, 0, len(rows))
	for i, r := range rows {
		p, err := parseRow(i, r)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func parseRow(i int, r row) (series.Point, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(r.Data), time.UTC)
	if err != nil {
		return series.Point{}, &ParseError{Row: i, Field: "data", Value: r.Data, Err: err}
	}
	value, err := ParseDecimal(r.Valor)
	if err != nil {
		return series.Point{}, &ParseError{Row: i, Field: "valor", Value: r.Valor, Err: err}
	}
	return series.Point{Date: date, Value: value}, nil
}

// decimalPattern is plain decimal notation: optional sign, digits with at
// most one '.' or ',' separator, optional exponent.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+([.,]\d*)?|[.,]\d+)([eE][+-]?\d+)?$`)

// ParseDecimal parses "0.50" as well as the comma form "0,50". Hex floats,
// digit separators and NaN/Inf spellings are rejected.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("not a decimal number")
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
