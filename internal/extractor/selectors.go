package extractor

// Selectors contains the CSS selector fallback lists for the offer listing.
// The listing has been served with two class naming schemes for the same
// structure, so every list carries both forms in priority order.
type Selectors struct {
	OfferList   []string
	Heading     []string
	FeatureList []string
	Emphasis    []string
	Link        []string
}

// DefaultSelectors matches both known layouts of the structured products page
var DefaultSelectors = Selectors{
	OfferList:   []string{"section.product-list", "section.products-list"},
	Heading:     []string{"h1, h2, h3, h4, h5, h6"},
	FeatureList: []string{".features .rows .columns", ".features .row .column"},
	Emphasis:    []string{"strong", "b"},
	Link:        []string{"a[href]"},
}

// Field names used in extraction errors
const (
	FieldProductName    = "productName"
	FieldValidUntilDate = "validUntilDate"
	FieldInterestRate   = "interestRate"
	FieldMinAmount      = "minAmount"
	FieldDetailsURL     = "detailsUrl"
)

// FieldRoute binds a set of keywords to the parser that fills the matching
// offer field. The first feature block whose text contains any keyword is used.
type FieldRoute struct {
	Field    string
	Keywords []string
	Parse    FieldParserFunc
}

// DefaultRoutes is the keyword routing of the source page, in priority order
var DefaultRoutes = []FieldRoute{
	{
		Field:    FieldValidUntilDate,
		Keywords: []string{"dostępny do", "subskrypcja do"},
		Parse:    parseValidUntilBlock,
	},
	{
		Field:    FieldInterestRate,
		Keywords: []string{"oprocentowanie"},
		Parse:    parseInterestRateBlock,
	},
	{
		Field:    FieldMinAmount,
		Keywords: []string{"minimalna wartość"},
		Parse:    parseAmountBlock,
	},
}
