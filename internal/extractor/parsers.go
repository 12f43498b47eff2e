package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sjsage522/offerwatch/internal/locale"
	"sjsage522/offerwatch/internal/offer"
)

// FieldParserFunc fills one field of into from a matched feature block
type FieldParserFunc func(e *Extractor, block Node, into *offer.Offer) error

var (
	interestRatePattern = regexp.MustCompile(`oprocentowanie\s+(\d+,\d+)%`)
	amountPattern       = regexp.MustCompile(`(\d[\d\s,.]*)\s+(\p{L}+)`)
	whitespacePattern   = regexp.MustCompile(`\s+`)

	errNoEmphasis = errors.New("block has no emphasized text")
)

// normalizeSpaces turns the non-breaking space variants used by the page into
// ordinary spaces so that \s matches them
func normalizeSpaces(text string) string {
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.ReplaceAll(text, "\u202f", " ")
}

// ParseValidUntil parses a validity date written either as "29 września 2023 r."
// or as "29.09.2023". The result is midnight UTC of that calendar date.
func ParseValidUntil(text string, loc locale.Locale) (time.Time, error) {
	if t, err := parseLongDate(text, loc); err == nil {
		return t, nil
	}

	t, err := parseNumericDate(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", strings.TrimSpace(text))
	}
	return t, nil
}

func parseLongDate(text string, loc locale.Locale) (time.Time, error) {
	s := strings.TrimSpace(normalizeSpaces(text))
	s = strings.TrimSpace(strings.TrimSuffix(s, loc.DateSuffix))

	parts := strings.Fields(s)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected day, month and year in %q", s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	month, ok := loc.MonthByName(parts[1])
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", parts[1])
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) != 4 {
		return time.Time{}, fmt.Errorf("invalid year %q", parts[2])
	}

	return calendarDate(year, month, day)
}

func parseNumericDate(text string) (time.Time, error) {
	s := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
	// "29.09.2023 r." leaves a trailing dot from the suffix
	s = strings.Trim(s, ".")

	t, err := time.Parse("2.1.2006", s)
	if err != nil {
		return time.Time{}, err
	}
	return calendarDate(t.Year(), t.Month(), t.Day())
}

// calendarDate rejects days that time.Date would silently roll over
func calendarDate(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("day %d does not exist in %s %d", day, month, year)
	}
	return t, nil
}

// ParseInterestRate reads "oprocentowanie 4,60%" as 4.6
func ParseInterestRate(text string) (float64, error) {
	match := interestRatePattern.FindStringSubmatch(normalizeSpaces(text))
	if match == nil {
		return 0, fmt.Errorf("no interest rate in %q", strings.TrimSpace(text))
	}
	return strconv.ParseFloat(strings.Replace(match[1], ",", ".", 1), 64)
}

// ParseAmount reads "12 500 000 EUR" as 12500000 and "EUR".
//
// A dot is the decimal point ("5 000.50 PLN" is 5000.5). Every comma is treated
// as a thousands separator, so "5 000,50 PLN" yields 500050. Known defect kept
// for compatibility with stored snapshots.
func ParseAmount(text string) (float64, string, error) {
	match := amountPattern.FindStringSubmatch(normalizeSpaces(text))
	if match == nil {
		return 0, "", fmt.Errorf("no amount and currency in %q", strings.TrimSpace(text))
	}

	digits := whitespacePattern.ReplaceAllString(match[1], "")
	digits = strings.ReplaceAll(digits, ",", "")

	amount, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, "", err
	}
	return amount, match[2], nil
}

func (e *Extractor) emphasizedText(block Node) (string, error) {
	strong, ok := block.First(e.Selectors.Emphasis...)
	if !ok {
		return "", errNoEmphasis
	}
	return strong.Text(), nil
}

func parseValidUntilBlock(e *Extractor, block Node, into *offer.Offer) error {
	text, err := e.emphasizedText(block)
	if err != nil {
		return err
	}
	date, err := ParseValidUntil(text, e.Locale)
	if err != nil {
		return err
	}
	into.ValidUntilDate = date
	return nil
}

func parseInterestRateBlock(_ *Extractor, block Node, into *offer.Offer) error {
	rate, err := ParseInterestRate(block.Text())
	if err != nil {
		return err
	}
	into.InterestRate = rate
	return nil
}

func parseAmountBlock(e *Extractor, block Node, into *offer.Offer) error {
	text, err := e.emphasizedText(block)
	if err != nil {
		return err
	}
	amount, currency, err := ParseAmount(text)
	if err != nil {
		return err
	}
	into.MinAmount = amount
	into.Currency = currency
	return nil
}
