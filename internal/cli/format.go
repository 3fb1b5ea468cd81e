package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradevision/internal/models"
)

// FormatTime formats a time for display.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatDate formats a date for display.
func FormatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatDateTime formats a full timestamp for display.
func FormatDateTime(t time.Time) string {
	return t.Format("02 Jan 2006 15:04:05")
}

// FormatPrice formats a price with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatOptionalPrice renders a possibly-unset price.
func FormatOptionalPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return FormatPrice(*price)
}

// FormatOptionalTime renders a possibly-unset timestamp.
func FormatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return FormatTime(*t)
}

// FormatQuantity renders an integer quantity.
func FormatQuantity(qty int) string {
	return fmt.Sprintf("%d", qty)
}

// ParsePrice parses a price argument.
func ParsePrice(arg string) (float64, error) {
	price, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", arg)
	}
	return price, nil
}

// FormatIDList joins an id list for display.
func FormatIDList(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}

// TruncateString truncates a string to maxLen, adding an ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// ParseDateKey validates and normalizes a yyyy-MM-dd argument,
// defaulting to today when empty. A malformed date is an error to the
// user, not a crash.
func ParseDateKey(arg string) (string, error) {
	if arg == "" {
		return time.Now().Format(models.DateKeyLayout), nil
	}
	t, err := time.Parse(models.DateKeyLayout, arg)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want yyyy-MM-dd)", arg)
	}
	return t.Format(models.DateKeyLayout), nil
}

// ParseMode validates a mode flag value.
func ParseMode(arg string) (models.ExecutionMode, error) {
	mode := models.ExecutionMode(arg)
	if !mode.Valid() {
		return "", fmt.Errorf("invalid mode %q (want real, theoretical or both)", arg)
	}
	return mode, nil
}
