// Package locale holds the language-specific pieces of parsing and rendering:
// month names and numeric separators.
package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Locale describes how dates and numbers are written in one language
type Locale struct {
	Name string

	// Months are the forms used after a day number ("29 września"), January first
	Months [12]string
	// MonthsNominative are the standalone forms ("wrzesień"), accepted when parsing
	MonthsNominative [12]string

	Decimal rune
	Group   rune

	// DateSuffix is the trailing abbreviation some sources append to dates ("r." for rok)
	DateSuffix string
}

// Polish is the locale of the scraped listing
var Polish = Locale{
	Name: "pl",
	Months: [12]string{
		"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
		"lipca", "sierpnia", "września", "października", "listopada", "grudnia",
	},
	MonthsNominative: [12]string{
		"styczeń", "luty", "marzec", "kwiecień", "maj", "czerwiec",
		"lipiec", "sierpień", "wrzesień", "październik", "listopad", "grudzień",
	},
	Decimal:    ',',
	Group:      '\u00a0',
	DateSuffix: " r.",
}

// MonthByName resolves a month name in either grammatical form, ignoring case
func (l Locale) MonthByName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false
	}
	for i := range l.Months {
		if name == l.Months[i] || name == l.MonthsNominative[i] {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// FormatDate renders t as "dd <month> yyyy" using the day-number month form
func (l Locale) FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), l.Months[t.Month()-1], t.Year())
}

// FormatDecimal renders v with exactly digits fraction digits, using the locale
// decimal separator and, when grouped is set, the locale thousands separator.
func (l Locale) FormatDecimal(v float64, digits int, grouped bool) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if grouped {
		intPart = groupThousands(intPart, l.Group)
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(intPart)
	if fracPart != "" {
		b.WriteRune(l.Decimal)
		b.WriteString(fracPart)
	}
	return b.String()
}

func groupThousands(digits string, sep rune) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
