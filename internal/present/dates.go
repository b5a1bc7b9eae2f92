package present

import (
	"fmt"
	"time"
)

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var weekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// ShortDate formats t as "6 de febrero de 2026".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// LongDate formats t as "Lunes, 19 de octubre de 2026".
func LongDate(t time.Time) string {
	return Capitalize(weekdays[t.Weekday()] + ", " + ShortDate(t))
}
