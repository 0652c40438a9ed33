package exporter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// formatDecimal formats an amount with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatCell renders one table cell for CSV output
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return formatDecimal(x)
	case float64:
		return formatFloat(x)
	case int:
		return fmt.Sprintf("%d", x)
	case time.Time:
		return formatDate(x)
	case *time.Time:
		if x == nil {
			return ""
		}
		return formatDate(*x)
	default:
		return fmt.Sprint(x)
	}
}
