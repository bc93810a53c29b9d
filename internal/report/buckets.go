package report

import (
	"fmt"
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Point is one bar of a chart series
type Point struct {
	Label string
	Date  string
	Hours float64
}

// WeekOfMonth returns ceil(day/7) clamped to 4, so days 29 to 31 fall in
// the fourth week
func WeekOfMonth(day int) int {
	w := (day + 6) / 7
	if w > 4 {
		return 4
	}
	if w < 1 {
		return 1
	}
	return w
}

// WeeklyBuckets returns worked hours per week of the month, labeled Sem 1
// to Sem 4
func WeeklyBuckets(sessions []models.WorkSession) []Point {
	var minutes [4]int64
	for _, s := range sessions {
		d, ok := dateOf(s, time.UTC)
		if !ok {
			continue
		}
		minutes[WeekOfMonth(d.Day())-1] += s.TotalMinutes
	}

	points := make([]Point, 4)
	for i := range points {
		points[i] = Point{Label: fmt.Sprintf("Sem %d", i+1), Hours: float64(minutes[i]) / 60}
	}
	return points
}

// DayOfWeekBuckets returns worked hours per weekday, Monday first
func DayOfWeekBuckets(sessions []models.WorkSession) []Point {
	var minutes [7]int64
	for _, s := range sessions {
		d, ok := dateOf(s, time.UTC)
		if !ok {
			continue
		}
		minutes[mondayIndex(d.Weekday())] += s.TotalMinutes
	}

	points := make([]Point, 7)
	for i := range points {
		wd := time.Weekday((i + 1) % 7)
		points[i] = Point{Label: WeekdayShort(wd), Hours: float64(minutes[i]) / 60}
	}
	return points
}

// LastWeekStart returns the Monday of the calendar week before today's
func LastWeekStart(today time.Time) time.Time {
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return midnight.AddDate(0, 0, -mondayIndex(today.Weekday())-7)
}

// LastWeekSeries returns the daily hours of the last complete week, Monday
// to Sunday. Several sessions on one day are summed.
func LastWeekSeries(sessions []models.WorkSession, today time.Time) []Point {
	return dailySeries(sessions, LastWeekStart(today), 7)
}

// LastDaysSeries returns daily hours for the n days ending today
func LastDaysSeries(sessions []models.WorkSession, today time.Time, n int) []Point {
	if n <= 0 {
		return nil
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, -(n - 1))
	return dailySeries(sessions, start, n)
}

func dailySeries(sessions []models.WorkSession, start time.Time, n int) []Point {
	byDate := make(map[string]int64, len(sessions))
	for _, s := range sessions {
		byDate[s.Date] += s.TotalMinutes
	}

	points := make([]Point, n)
	for i := range points {
		day := start.AddDate(0, 0, i)
		date := day.Format(models.DateLayout)
		points[i] = Point{
			Label: WeekdayShort(day.Weekday()),
			Date:  date,
			Hours: float64(byDate[date]) / 60,
		}
	}
	return points
}
