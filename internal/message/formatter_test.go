package message

import (
	"testing"
	"time"

	"sjsage522/offerwatch/internal/offer"

	"github.com/stretchr/testify/assert"
)

const listingURL = "https://bank.com/interesting-page"

func TestFormat(t *testing.T) {
	offers := []offer.Offer{
		{
			ProductName:    "Legit Deal",
			InterestRate:   4.6,
			Currency:       "PLN",
			MinAmount:      5000,
			ValidUntilDate: time.Date(2023, 9, 29, 0, 0, 0, 0, time.UTC),
			DetailsURL:     "https://bank.com/legit-deal",
		},
		{
			ProductName:    "Euro Growth",
			InterestRate:   3,
			Currency:       "EUR",
			MinAmount:      12500000,
			ValidUntilDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			DetailsURL:     "https://bank.com/euro-growth",
		},
	}

	expected := "⚡️ *Zmiany w ofercie produktów strukturyzowanych*:\n\n" +
		"▪️ *Legit Deal*\n" +
		"• 4,60% w PLN\n" +
		"• Minimalna wartość inwestycji: 5\u00a0000,00 PLN\n" +
		"• Oferta ważna do 29 września 2023\n" +
		"• [Zobacz szczegóły](https://bank.com/legit-deal)\n" +
		"\n" +
		"▪️ *Euro Growth*\n" +
		"• 3,00% w EUR\n" +
		"• Minimalna wartość inwestycji: 12\u00a0500\u00a0000,00 EUR\n" +
		"• Oferta ważna do 05 stycznia 2024\n" +
		"• [Zobacz szczegóły](https://bank.com/euro-growth)\n" +
		"\n📌 [Pełna oferta](https://bank.com/interesting-page)"

	formatter := NewFormatter(listingURL)
	assert.Equal(t, expected, formatter.Format(offers))
	assert.Equal(t, expected, formatter.Format(offers), "formatting must be repeatable")
}

func TestFormatOmitsMissingDate(t *testing.T) {
	text := NewFormatter(listingURL).Format([]offer.Offer{{
		ProductName:  "Open Ended",
		InterestRate: 1.5,
		Currency:     "USD",
		MinAmount:    999,
		DetailsURL:   "https://bank.com/open",
	}})

	assert.Contains(t, text, "• Minimalna wartość inwestycji: 999,00 USD\n• [Zobacz szczegóły](https://bank.com/open)\n")
	assert.NotContains(t, text, "Oferta ważna do")
}

func TestFormatEscapesMarkdown(t *testing.T) {
	text := NewFormatter("https://bank.com/oferta_(1)").Format([]offer.Offer{{
		ProductName:    "Lokata 3-miesięczna v2.0 (promo)",
		InterestRate:   7,
		Currency:       "PLN",
		MinAmount:      1000,
		ValidUntilDate: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		DetailsURL:     "https://bank.com/lokata_(3m)",
	}})

	assert.Contains(t, text, `▪️ *Lokata 3\-miesięczna v2\.0 \(promo\)*`)
	assert.Contains(t, text, `[Zobacz szczegóły](https://bank.com/lokata_(3m\))`)
	assert.Contains(t, text, `[Pełna oferta](https://bank.com/oferta_(1\))`)
}

func TestFormatDateUsesCalendarDay(t *testing.T) {
	// Same instant presented in a zone west of UTC must render the UTC day
	validUntil := time.Date(2023, 9, 29, 0, 0, 0, 0, time.UTC).In(time.FixedZone("UTC-5", -5*3600))
	text := NewFormatter(listingURL).Format([]offer.Offer{{ProductName: "A", Currency: "PLN", ValidUntilDate: validUntil}})
	assert.Contains(t, text, "Oferta ważna do 29 września 2023")
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "Fix me 🔧🥲 Request to scrape url failed with status 403", FormatError("Request to scrape url failed with status 403"))
	assert.Equal(t, `Fix me 🔧🥲 Error saving snapshot\.`, FormatError("Error saving snapshot."))
}
