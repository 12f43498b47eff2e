package extractor

import (
	stderrors "errors"
	"testing"
	"time"

	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceURL = "https://bank.com/interesting-page"

const legitDealHTML = `<html><body>
	<section class="product-list">
		<h3 class="title">  Legit Deal  </h3>
		<div class="features">
			<div class="rows">
				<div class="columns">Produkt dostępny do: <strong>29 września 2023 r.</strong></div>
				<div class="columns">oprocentowanie 4,60% w skali roku</div>
				<div class="columns">minimalna wartość inwestycji: <strong>5 000 PLN</strong></div>
			</div>
		</div>
		<a class="button" href="/legit-deal">Zobacz szczegóły</a>
	</section>
</body></html>`

// Same structure served with the second class naming scheme
const alternateLayoutHTML = `<html><body>
	<section class="products-list">
		<h2>Euro Growth</h2>
		<div class="features">
			<div class="row">
				<div class="column">subskrypcja do <b>30.11.2023</b></div>
				<div class="column">oprocentowanie&nbsp;3,00%</div>
				<div class="column">minimalna wartość <b>12 500 000 EUR</b></div>
				<div class="column"><a href="https://cdn.bank.com/terms.pdf">Warunki</a></div>
			</div>
		</div>
	</section>
	<section class="products-list">
		<h2>Dollar Shield</h2>
		<div class="features">
			<div class="row">
				<div class="column">dostępny do <b>1 grudnia 2023</b></div>
				<div class="column">oprocentowanie 5,25%</div>
				<div class="column">minimalna wartość <b>10 000 USD</b></div>
				<div class="column"><a href="dollar-shield">Więcej</a></div>
			</div>
		</div>
	</section>
</body></html>`

func TestExtractOffers(t *testing.T) {
	offers, err := ExtractOffers(legitDealHTML, sourceURL)
	require.NoError(t, err)
	require.Len(t, offers, 1)

	assert.Equal(t, offer.Offer{
		ProductName:    "Legit Deal",
		InterestRate:   4.6,
		Currency:       "PLN",
		MinAmount:      5000,
		ValidUntilDate: time.Date(2023, 9, 29, 0, 0, 0, 0, time.UTC),
		DetailsURL:     "https://bank.com/legit-deal",
	}, offers[0])
}

func TestExtractOffersAlternateLayout(t *testing.T) {
	offers, err := ExtractOffers(alternateLayoutHTML, sourceURL)
	require.NoError(t, err)
	require.Len(t, offers, 2)

	euro := offers[0]
	assert.Equal(t, "Euro Growth", euro.ProductName)
	assert.Equal(t, 3.0, euro.InterestRate)
	assert.Equal(t, 12500000.0, euro.MinAmount)
	assert.Equal(t, "EUR", euro.Currency)
	assert.Equal(t, time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC), euro.ValidUntilDate)
	assert.Equal(t, "https://cdn.bank.com/terms.pdf", euro.DetailsURL)

	dollar := offers[1]
	assert.Equal(t, "Dollar Shield", dollar.ProductName)
	assert.Equal(t, 5.25, dollar.InterestRate)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), dollar.ValidUntilDate)
	assert.Equal(t, "https://bank.com/dollar-shield", dollar.DetailsURL)
}

func TestExtractOffersIsDeterministic(t *testing.T) {
	first, err := ExtractOffers(alternateLayoutHTML, sourceURL)
	require.NoError(t, err)
	second, err := ExtractOffers(alternateLayoutHTML, sourceURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := range first {
		assert.True(t, first[i].ValidUntilDate.Equal(second[i].ValidUntilDate))
	}
}

func TestExtractOffersEmptyPage(t *testing.T) {
	offers, err := ExtractOffers(`<html><body>Hello</body></html>`, sourceURL)
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestExtractOffersFirstMatchingBlockWins(t *testing.T) {
	html := `<section class="product-list"><h3>Twin Rate</h3><div class="features"><div class="rows">
		<div class="columns">oprocentowanie 2,10% w pierwszym roku</div>
		<div class="columns">oprocentowanie 9,90% w drugim roku</div>
		<div class="columns">subskrypcja do <strong>10.10.2023</strong></div>
		<div class="columns">dostępny do <strong>1 stycznia 2030 r.</strong></div>
		<div class="columns">minimalna wartość <strong>1 000 PLN</strong></div>
	</div></div><a href="/twin">x</a></section>`

	offers, err := ExtractOffers(html, sourceURL)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 2.1, offers[0].InterestRate)
	assert.Equal(t, time.Date(2023, 10, 10, 0, 0, 0, 0, time.UTC), offers[0].ValidUntilDate)
}

func TestExtractOffersIsAllOrNothing(t *testing.T) {
	// Second offer lacks the minimum amount block
	html := legitDealHTML + `<section class="product-list"><h3>Broken</h3><div class="features"><div class="rows">
		<div class="columns">dostępny do <strong>29 września 2023 r.</strong></div>
		<div class="columns">oprocentowanie 4,60%</div>
	</div></div><a href="/broken">x</a></section>`

	offers, err := ExtractOffers(html, sourceURL)
	assert.Nil(t, offers)
	require.Error(t, err)

	var extErr *errors.ExtractionError
	require.True(t, stderrors.As(err, &extErr))
	assert.Equal(t, 1, extErr.OfferIndex)
	assert.Equal(t, FieldMinAmount, extErr.Field)
	assert.True(t, errors.IsExtraction(err))
}

func TestExtractOffersFieldFailures(t *testing.T) {
	testCases := []struct {
		name  string
		html  string
		field string
	}{
		{
			name:  "no heading",
			html:  `<section class="product-list"><div class="features"></div><a href="/x">x</a></section>`,
			field: FieldProductName,
		},
		{
			name: "unparseable rate",
			html: `<section class="product-list"><h3>A</h3><div class="features"><div class="rows">
				<div class="columns">dostępny do <strong>29 września 2023 r.</strong></div>
				<div class="columns">oprocentowanie zmienne</div>
				<div class="columns">minimalna wartość <strong>1 000 PLN</strong></div>
			</div></div><a href="/a">x</a></section>`,
			field: FieldInterestRate,
		},
		{
			name: "date without emphasis",
			html: `<section class="product-list"><h3>A</h3><div class="features"><div class="rows">
				<div class="columns">dostępny do 29 września 2023 r.</div>
				<div class="columns">oprocentowanie 1,00%</div>
				<div class="columns">minimalna wartość <strong>1 000 PLN</strong></div>
			</div></div><a href="/a">x</a></section>`,
			field: FieldValidUntilDate,
		},
		{
			name: "keyword case differs",
			html: `<section class="product-list"><h3>A</h3><div class="features"><div class="rows">
				<div class="columns">Dostępny do <strong>29 września 2023 r.</strong></div>
			</div></div><a href="/a">x</a></section>`,
			field: FieldValidUntilDate,
		},
		{
			name: "no link",
			html: `<section class="product-list"><h3>A</h3><div class="features"><div class="rows">
				<div class="columns">dostępny do <strong>29 września 2023 r.</strong></div>
				<div class="columns">oprocentowanie 1,00%</div>
				<div class="columns">minimalna wartość <strong>1 000 PLN</strong></div>
			</div></div></section>`,
			field: FieldDetailsURL,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			offers, err := ExtractOffers(tc.html, sourceURL)
			assert.Nil(t, offers)

			var extErr *errors.ExtractionError
			require.True(t, stderrors.As(err, &extErr), "expected extraction error, got %v", err)
			assert.Equal(t, tc.field, extErr.Field)
		})
	}
}

func TestExtractOffersInvalidSourceURL(t *testing.T) {
	_, err := ExtractOffers(legitDealHTML, "/relative/only")

	var extErr *errors.ExtractionError
	require.True(t, stderrors.As(err, &extErr))
	assert.Equal(t, "sourceUrl", extErr.Field)
}

func TestNodeSelectorFallback(t *testing.T) {
	doc, err := NewDocument(`<div><p class="b">second</p><p class="a">first</p></div>`)
	require.NoError(t, err)

	node, ok := doc.First("p.missing", "p.a", "p.b")
	require.True(t, ok)
	assert.Equal(t, "first", node.Text())

	nodes := doc.All("p.missing", "p")
	require.Len(t, nodes, 2)
	assert.Equal(t, "second", nodes[0].Text())

	assert.Nil(t, doc.All("span"))
	_, ok = doc.First("span")
	assert.False(t, ok)
}
