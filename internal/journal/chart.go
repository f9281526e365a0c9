package journal

import (
	"github.com/mfreitas/tradejournal/internal/domain/models"
)

// Per-ticker bar colors. Unknown tickers render white.
var tickerColors = map[string]string{
	"EUR/USD": "#4CAF50",
	"GBP/USD": "#2196F3",
	"GBP/JPY": "#FF9800",
	"XAU/USD": "#FFD700",
}

const defaultBarColor = "#FFFFFF"

// ChartData is the gains/losses bar chart, derived per render from the
// current trade list. One bar per trade, in list order.
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// BuildChartData derives the chart from the trades as currently sorted.
// Labels combine ticker and date so repeated instruments stay tellable
// apart.
func BuildChartData(trades []models.Trade) ChartData {
	data := ChartData{
		Labels: make([]string, 0, len(trades)),
		Values: make([]float64, 0, len(trades)),
		Colors: make([]string, 0, len(trades)),
	}
	for _, t := range trades {
		data.Labels = append(data.Labels, t.Ticker+" "+t.Date.Format(csvDateLayout))
		data.Values = append(data.Values, t.GainsLosses)
		color, ok := tickerColors[t.Ticker]
		if !ok {
			color = defaultBarColor
		}
		data.Colors = append(data.Colors, color)
	}
	return data
}
