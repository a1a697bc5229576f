package helpers

import (
	"fmt"
	"time"
)

// Russian month names in the genitive case, as used in dates on
// official documents ("15 января 2026 г.").
var russianGenitiveMonths = [12]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatRussianDate renders a date as "DD <month> YYYY г." with the month
// in the genitive case and a zero-padded day.
func FormatRussianDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d г.", t.Day(), russianGenitiveMonths[t.Month()-1], t.Year())
}
