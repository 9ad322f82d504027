package catalog

import "time"

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// builtin lists the SGS series served out of the box.
var builtin = []Indicator{
    // SELIC
    {Code: "1178", Name: "Taxa SELIC (Meta)", Frequency: Daily, SeriesStart: date(1999, time.June, 22), Unit: "% a.a."},
    // IPCA
    {Code: "433", Name: "IPCA (Mensal)", Frequency: Monthly, SeriesStart: date(1980, time.January, 1), Unit: "% a.m."},
    {Code: "13522", Name: "IPCA (Acumulado 12m)", Frequency: Monthly, SeriesStart: date(1980, time.January, 1), Unit: "% a.a."},
    // PTAX
    {Code: "1", Name: "Dólar (USD) - PTAX Compra", Frequency: Daily, SeriesStart: date(1994, time.November, 18), Unit: "R$"},
    {Code: "10813", Name: "Dólar (USD) - PTAX Venda", Frequency: Daily, SeriesStart: date(1994, time.November, 18), Unit: "R$"},
    {Code: "21619", Name: "Euro (EUR) - PTAX Compra", Frequency: Daily, SeriesStart: date(1999, time.January, 4), Unit: "R$"},
    {Code: "21620", Name: "Euro (EUR) - PTAX Venda", Frequency: Daily, SeriesStart: date(1999, time.January, 4), Unit: "R$"},
}

// Default returns the built-in catalog.
func Default() *Catalog {
    c, err := New(builtin...)
    if err != nil {
        panic(err)
    }
    return c
}
