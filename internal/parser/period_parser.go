package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Period is a calendar month
type Period struct {
	Month time.Month
	Year  int
}

// Start returns midnight of the first day of the period in loc
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// End returns midnight of the first day of the next month in loc
func (p Period) End(loc *time.Location) time.Time {
	return p.Start(loc).AddDate(0, 1, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

var monthAliases = map[string]time.Month{
	"enero": time.January, "ene": time.January, "january": time.January, "jan": time.January,
	"febrero": time.February, "feb": time.February, "february": time.February,
	"marzo": time.March, "mar": time.March, "march": time.March,
	"abril": time.April, "abr": time.April, "april": time.April, "apr": time.April,
	"mayo": time.May, "may": time.May,
	"junio": time.June, "jun": time.June, "june": time.June,
	"julio": time.July, "jul": time.July, "july": time.July,
	"agosto": time.August, "ago": time.August, "august": time.August, "aug": time.August,
	"septiembre": time.September, "setiembre": time.September, "sep": time.September, "sept": time.September, "september": time.September,
	"octubre": time.October, "oct": time.October, "october": time.October,
	"noviembre": time.November, "nov": time.November, "november": time.November,
	"diciembre": time.December, "dic": time.December, "december": time.December, "dec": time.December,
}

var (
	isoMonthRegex   = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	slashMonthRegex = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	namedMonthRegex = regexp.MustCompile(`^([a-záéíóú]+)(?:\s+(?:de\s+)?(\d{4}))?$`)
)

// ParsePeriod parses a month selector relative to now
// Supported formats:
// - empty, "this month", "este mes" (current month)
// - "last month", "mes pasado"
// - yyyy-mm (e.g., "2025-03")
// - mm/yyyy (e.g., "03/2025")
// - month name in Spanish or English, optionally with a year (e.g., "marzo 2025", "march")
// - natural language dates (e.g., "yesterday", "3 weeks ago"), resolved to their month
func ParsePeriod(input string, now time.Time) (Period, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "", "this month", "este mes", "current":
		return periodOf(now), nil
	case "last month", "previous month", "mes pasado", "mes anterior":
		return periodOf(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)), nil
	}

	if m := isoMonthRegex.FindStringSubmatch(input); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return newPeriod(month, year)
	}

	if m := slashMonthRegex.FindStringSubmatch(input); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		return newPeriod(month, year)
	}

	if m := namedMonthRegex.FindStringSubmatch(input); m != nil {
		if month, ok := monthAliases[m[1]]; ok {
			year := now.Year()
			if m[2] != "" {
				year, _ = strconv.Atoi(m[2])
			}
			return newPeriod(int(month), year)
		}
	}

	if t, ok := parseNatural(input, now); ok {
		return periodOf(t), nil
	}

	return Period{}, fmt.Errorf("invalid period %q. Use: yyyy-mm, mm/yyyy, a month name, or 'last month'", input)
}

func newPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return Period{}, fmt.Errorf("year must be between 2000 and 2100")
	}
	return Period{Month: time.Month(month), Year: year}, nil
}

func periodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// parseNatural resolves expressions like "yesterday" or "2 weeks ago"
func parseNatural(input string, now time.Time) (time.Time, bool) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(input, now)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return result.Time, true
}
