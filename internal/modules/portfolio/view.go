package portfolio

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// formatMoney renders an amount with the symbol and minor-unit precision of
// its currency. Unknown codes fall back to a plain two-decimal rendering.
func formatMoney(amount float64, code domain.Currency) string {
	cur := money.GetCurrency(string(code))
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0)

	return money.New(minor.IntPart(), cur.Code).Display()
}

// formatPct renders a ratio pointer as a signed percentage, or a dash when
// the ratio is undefined
func formatPct(pct *float64) string {
	if pct == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", *pct*100)
}

func formatQty(qty float64) string {
	return decimal.NewFromFloat(qty).String()
}

var viewTemplate = template.Must(template.New("portfolio").Funcs(template.FuncMap{
	"money": formatMoney,
	"moneyPtr": func(amount *float64, code domain.Currency) string {
		if amount == nil {
			return "-"
		}
		return formatMoney(*amount, code)
	},
	"pct": formatPct,
	"qty": formatQty,
	"when": func(t *time.Time) string {
		if t == nil {
			return "never"
		}
		return t.Format("2006-01-02 15:04 MST")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Portfolio</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: right; }
th { background: #f0f0f0; }
td.sym, th.sym { text-align: left; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>Portfolio</h1>
<p class="muted">Prices updated: {{when .Valuation.LastPriceUpdate}}</p>

<h2>Open Positions</h2>
{{if .Valuation.Open}}
<table>
<tr><th class="sym">Ticker</th><th class="sym">Name</th><th>Qty</th><th>Avg Cost</th><th>Price</th><th>Cost ({{.Base}})</th><th>Value ({{.Base}})</th><th>Gain</th><th>%</th></tr>
{{range .Valuation.Open}}
<tr>
<td class="sym">{{.Ticker}}.{{.Exchange}}</td>
<td class="sym">{{.Name}}</td>
<td>{{qty .Quantity}}</td>
<td>{{money .AvgCostLocal .Currency}}</td>
<td>{{moneyPtr .PriceLocal .Currency}}</td>
<td>{{money .CostBase $.Base}}</td>
<td>{{money .MarketValueBase $.Base}}</td>
<td>{{money .UnrealizedGain $.Base}}</td>
<td>{{pct .GainPct}}</td>
</tr>
{{end}}
<tr>
<th class="sym" colspan="5">Total</th>
<th>{{money .Valuation.Totals.OpenCost .Base}}</th>
<th>{{money .Valuation.Totals.OpenMarketValue .Base}}</th>
<th>{{money .Valuation.Totals.UnrealizedGain .Base}}</th>
<th>{{pct .Valuation.Totals.UnrealizedPct}}</th>
</tr>
</table>
{{else}}
<p class="muted">No open positions.</p>
{{end}}

<h2>Closed Positions</h2>
{{if .Valuation.Closed}}
<table>
<tr><th class="sym">Ticker</th><th class="sym">Name</th><th>Cost ({{.Base}})</th><th>Proceeds ({{.Base}})</th><th>Realized</th><th>%</th></tr>
{{range .Valuation.Closed}}
<tr>
<td class="sym">{{.Ticker}}.{{.Exchange}}</td>
<td class="sym">{{.Name}}</td>
<td>{{money .CostBase $.Base}}</td>
<td>{{money .ProceedsBase $.Base}}</td>
<td>{{money .RealizedGain $.Base}}</td>
<td>{{pct .GainPct}}</td>
</tr>
{{end}}
<tr>
<th class="sym" colspan="2">Total</th>
<th>{{money .Valuation.Totals.ClosedCost .Base}}</th>
<th>{{money .Valuation.Totals.ClosedProceeds .Base}}</th>
<th>{{money .Valuation.Totals.RealizedGain .Base}}</th>
<th>{{pct .Valuation.Totals.RealizedPct}}</th>
</tr>
</table>
{{else}}
<p class="muted">No closed positions.</p>
{{end}}

{{if .Valuation.Anomalies}}
<h2>Unclassified</h2>
<table>
<tr><th class="sym">Ticker</th><th>Net Qty</th></tr>
{{range .Valuation.Anomalies}}
<tr><td class="sym">{{.Ticker}}</td><td>{{qty .NetQty}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

type viewData struct {
	Base      domain.Currency
	Valuation Valuation
}

// RenderView writes the portfolio valuation as an HTML page
func RenderView(w io.Writer, base domain.Currency, valuation Valuation) error {
	return viewTemplate.Execute(w, viewData{Base: base, Valuation: valuation})
}
