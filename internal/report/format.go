package report

import (
	"fmt"
	"time"
)

// Clock formats a duration as HH:MM:SS; hours are not wrapped at 24
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// Spelled formats seconds as "Hh Mm Ss", or "--" for zero
func Spelled(seconds int64) string {
	if seconds <= 0 {
		return "--"
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Hours formats minutes as hours with two decimals
func Hours(minutes int64) string {
	return fmt.Sprintf("%.2f", float64(minutes)/60)
}
