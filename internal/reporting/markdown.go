package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Volatility Shock Analysis\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Method: %s | Detail level: %d\n\n", r.RunID, r.Method, r.DetailLevel))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Equity Symbol | %s |\n", r.DataSummary.EquitySymbol))
	sb.WriteString(fmt.Sprintf("| Volatility Symbol | %s |\n", r.DataSummary.VolatilitySymbol))
	sb.WriteString(fmt.Sprintf("| Equity Daily Observations | %d |\n", r.DataSummary.EquityDailyObs))
	sb.WriteString(fmt.Sprintf("| Volatility Daily Observations | %d |\n", r.DataSummary.VolatilityDailyObs))
	sb.WriteString(fmt.Sprintf("| Equity Months | %d |\n", r.DataSummary.EquityMonths))
	sb.WriteString(fmt.Sprintf("| Volatility Months | %d |\n", r.DataSummary.VolatilityMonths))
	sb.WriteString(fmt.Sprintf("| Equity Returns Dropped | %d |\n", r.DataSummary.EquityDropped))
	sb.WriteString(fmt.Sprintf("| Volatility Returns Dropped | %d |\n", r.DataSummary.VolatilityDropped))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range Start | %s |\n", r.DataSummary.DateRangeStart.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("| Date Range End | %s |\n", r.DataSummary.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	// Shock Model
	sb.WriteString("## Shock Model\n\n")
	if r.ShockModel.Order != "" {
		sb.WriteString(fmt.Sprintf("Selected model: %s (AIC %.4f)\n\n", r.ShockModel.Order, r.ShockModel.AIC))
	} else {
		sb.WriteString("No shock model fitted.\n\n")
	}

	// Lag Scan
	sb.WriteString("## Lag Scan\n\n")
	if len(r.LagRows) > 0 {
		sb.WriteString("| Lag | Intercept | Slope | Slope SE | R2 | N | Best | Error |\n")
		sb.WriteString("|-----|-----------|-------|----------|----|---|------|-------|\n")
		for _, row := range r.LagRows {
			if row.Err != "" {
				sb.WriteString(fmt.Sprintf("| %d | - | - | - | - | - | | %s |\n", row.Lag, row.Err))
				continue
			}
			best := ""
			if row.Best {
				best = "*"
			}
			sb.WriteString(fmt.Sprintf("| %d | %.4f | %.4f | %.4f | %.4f | %d | %s | |\n",
				row.Lag, row.Intercept, row.Slope, row.SlopeStderr, row.RSquared, row.SampleSize, best))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No lag scan performed.\n\n")
	}

	// Best Lag
	sb.WriteString("## Best Lag\n\n")
	if r.BestLag >= 0 {
		sb.WriteString(fmt.Sprintf("Best lag by R-squared: **%d** months.\n", r.BestLag))
	} else {
		sb.WriteString("No lag produced a successful fit.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
