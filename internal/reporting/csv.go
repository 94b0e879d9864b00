package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders lag scan rows as CSV string.
func RenderCSV(rows []LagRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("lag,intercept,slope,slope_stderr,r_squared,sample_size,best,error\n")

	// Rows
	for _, row := range rows {
		if row.Err != "" {
			// Keep the row parseable even when the message contains commas
			msg := strings.ReplaceAll(row.Err, ",", ";")
			sb.WriteString(fmt.Sprintf("%d,,,,,,false,%s\n", row.Lag, msg))
			continue
		}
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f,%.6f,%.6f,%d,%t,\n",
			row.Lag,
			row.Intercept,
			row.Slope,
			row.SlopeStderr,
			row.RSquared,
			row.SampleSize,
			row.Best,
		))
	}

	return sb.String()
}
