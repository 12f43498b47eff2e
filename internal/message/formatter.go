// Package message renders offers into the alert text sent to the chat channel
package message

import (
	"fmt"
	"strings"

	"sjsage522/offerwatch/internal/locale"
	"sjsage522/offerwatch/internal/offer"
)

const (
	header          = "⚡️ *Zmiany w ofercie produktów strukturyzowanych*:\n\n"
	errorPrefix     = "Fix me 🔧🥲 "
	detailsLabel    = "Zobacz szczegóły"
	fullOfferLabel  = "Pełna oferta"
	minAmountLabel  = "Minimalna wartość inwestycji"
	validUntilLabel = "Oferta ważna do"
)

// Formatter renders offer alerts. Output depends only on its inputs.
type Formatter struct {
	ListingURL string
	Locale     locale.Locale
}

// NewFormatter creates a formatter that links to listingURL in the footer
func NewFormatter(listingURL string) *Formatter {
	return &Formatter{
		ListingURL: listingURL,
		Locale:     locale.Polish,
	}
}

// Format renders offers, in order, as one MarkdownV2 message
func (f *Formatter) Format(offers []offer.Offer) string {
	entries := make([]string, 0, len(offers))
	for _, o := range offers {
		entries = append(entries, f.formatOffer(o))
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(strings.Join(entries, "\n"))
	fmt.Fprintf(&b, "\n📌 [%s](%s)", fullOfferLabel, EscapeLinkTarget(f.ListingURL))
	return b.String()
}

func (f *Formatter) formatOffer(o offer.Offer) string {
	currency := EscapeMarkdown(o.Currency)
	rate := EscapeMarkdown(f.Locale.FormatDecimal(o.InterestRate, 2, false))
	amount := EscapeMarkdown(f.Locale.FormatDecimal(o.MinAmount, 2, true))

	var b strings.Builder
	fmt.Fprintf(&b, "▪️ *%s*\n", EscapeMarkdown(o.ProductName))
	fmt.Fprintf(&b, "• %s%% w %s\n", rate, currency)
	fmt.Fprintf(&b, "• %s: %s %s\n", minAmountLabel, amount, currency)
	if !o.ValidUntilDate.IsZero() {
		fmt.Fprintf(&b, "• %s %s\n", validUntilLabel, f.Locale.FormatDate(o.ValidUntilDate.UTC()))
	}
	fmt.Fprintf(&b, "• [%s](%s)\n", detailsLabel, EscapeLinkTarget(o.DetailsURL))
	return b.String()
}

// FormatError renders a short failure summary for the chat channel
func FormatError(summary string) string {
	return errorPrefix + EscapeMarkdown(summary)
}
