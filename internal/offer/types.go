package offer

import "time"

// Offer represents one structured financial offer scraped from the listing
type Offer struct {
	ProductName    string    `json:"productName"`
	InterestRate   float64   `json:"interestRate"`
	MinAmount      float64   `json:"minAmount"`
	Currency       string    `json:"currency"`
	ValidUntilDate time.Time `json:"validUntilDate"`
	DetailsURL     string    `json:"detailsUrl"`
}

// Snapshot is one complete extraction result captured at a point in time
type Snapshot struct {
	ID        string    `json:"id"`
	ScrapedAt time.Time `json:"scrapedAt"`
	Products  []Offer   `json:"products"`
}

// Same reports whether a and b describe the same real-world offer.
// DetailsURL is not part of the identity.
func Same(a, b Offer) bool {
	return a.ProductName == b.ProductName &&
		a.Currency == b.Currency &&
		a.InterestRate == b.InterestRate &&
		a.MinAmount == b.MinAmount &&
		a.ValidUntilDate.Equal(b.ValidUntilDate)
}
