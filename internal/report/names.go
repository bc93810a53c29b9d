package report

import "time"

var weekdayNames = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var weekdayShort = [...]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// WeekdayName returns the lower-case Spanish name of a weekday
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// WeekdayShort returns the three-letter Spanish abbreviation of a weekday
func WeekdayShort(d time.Weekday) string {
	return weekdayShort[d]
}

// MonthName returns the capitalized Spanish name of a month
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// mondayIndex maps a weekday to 0..6 with Monday first
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
