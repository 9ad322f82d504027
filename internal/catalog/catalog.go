package catalog

import (
    "fmt"
    "sort"
    "strconv"
    "strings"
    "time"
)

// Frequency is the sampling cadence of a series. It decides whether a full
// history request has to be split into spans.
type Frequency int

const (
    Monthly Frequency = iota
    Daily
)

func (f Frequency) String() string {
    switch f {
    case Daily:
        return "daily"
    case Monthly:
        return "monthly"
    default:
        return "unknown"
    }
}

// MarshalText lets Frequency render as a plain string in JSON.
func (f Frequency) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Frequency) UnmarshalText(b []byte) error {
    v, err := ParseFrequency(string(b))
    if err != nil {
        return err
    }
    *f = v
    return nil
}

// ParseFrequency accepts english and portuguese spellings.
func ParseFrequency(s string) (Frequency, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "daily", "diaria", "diária":
        return Daily, nil
    case "monthly", "mensal":
        return Monthly, nil
    }
    return 0, fmt.Errorf("unknown frequency %q", s)
}

// Indicator describes one SGS series.
type Indicator struct {
    Code        string    `json:"code"`
    Name        string    `json:"name"`
    Frequency   Frequency `json:"frequency"`
    SeriesStart time.Time `json:"series_start"`
    Unit        string    `json:"unit"`
}

// Column is the label used for the value column of a fetched table.
func (i Indicator) Column() string { return fmt.Sprintf("%s (%s)", i.Name, i.Unit) }

// Catalog is an immutable code -> Indicator mapping.
type Catalog struct {
    byCode map[string]Indicator
    all    []Indicator
}

// New builds a catalog. Codes must be unique and non-empty.
func New(indicators ...Indicator) (*Catalog, error) {
    c := &Catalog{byCode: make(map[string]Indicator, len(indicators))}
    for _, ind := range indicators {
        code := strings.TrimSpace(ind.Code)
        if code == "" {
            return nil, fmt.Errorf("catalog: empty code for %q", ind.Name)
        }
        if _, dup := c.byCode[code]; dup {
            return nil, fmt.Errorf("catalog: duplicate code %s", code)
        }
        ind.Code = code
        c.byCode[code] = ind
        c.all = append(c.all, ind)
    }
    sort.Slice(c.all, func(i, j int) bool { return CodeLess(c.all[i].Code, c.all[j].Code) })
    return c, nil
}

// Lookup returns the indicator for code.
func (c *Catalog) Lookup(code string) (Indicator, bool) {
    ind, ok := c.byCode[strings.TrimSpace(code)]
    return ind, ok
}

// All returns every indicator ordered by code.
func (c *Catalog) All() []Indicator {
    out := make([]Indicator, len(c.all))
    copy(out, c.all)
    return out
}

func (c *Catalog) Len() int { return len(c.all) }

// CodeLess orders numeric codes numerically and falls back to string order.
func CodeLess(a, b string) bool {
    na, errA := strconv.Atoi(a)
    nb, errB := strconv.Atoi(b)
    if errA == nil && errB == nil {
        return na < nb
    }
    return a < b
}
