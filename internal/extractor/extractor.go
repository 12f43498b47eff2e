// Package extractor turns the structured products listing page into offers.
//
// Extraction is all-or-nothing: the first field that cannot be parsed aborts
// the whole batch with an *errors.ExtractionError and no offers are returned.
package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"sjsage522/offerwatch/internal/locale"
	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/pkg/errors"
)

// batchIndex marks extraction errors that concern the whole document
const batchIndex = -1

// Extractor extracts offers using a selector set, a keyword routing table
// and a locale for dates
type Extractor struct {
	Selectors Selectors
	Routes    []FieldRoute
	Locale    locale.Locale
}

// New creates an extractor configured for the Polish structured products page
func New() *Extractor {
	return &Extractor{
		Selectors: DefaultSelectors,
		Routes:    DefaultRoutes,
		Locale:    locale.Polish,
	}
}

// ExtractOffers extracts all offers from html using the default extractor.
// sourceURL is the page address; relative links are resolved against its origin.
func ExtractOffers(html, sourceURL string) ([]offer.Offer, error) {
	return New().Extract(html, sourceURL)
}

// Extract parses html and extracts every offer on the page
func (e *Extractor) Extract(html, sourceURL string) ([]offer.Offer, error) {
	doc, err := NewDocument(html)
	if err != nil {
		return nil, errors.NewExtraction(batchIndex, "document", "cannot parse document", err)
	}
	return e.ExtractDocument(doc, sourceURL)
}

// ExtractDocument extracts every offer from an already parsed document
func (e *Extractor) ExtractDocument(doc Node, sourceURL string) ([]offer.Offer, error) {
	origin, err := originOf(sourceURL)
	if err != nil {
		return nil, errors.NewExtraction(batchIndex, "sourceUrl", "invalid source url", err)
	}

	containers := doc.All(e.Selectors.OfferList...)
	offers := make([]offer.Offer, 0, len(containers))
	for i, container := range containers {
		o, err := e.extractOffer(i, container, origin)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}

	return offers, nil
}

// extractOffer builds one offer from its container node
func (e *Extractor) extractOffer(index int, container Node, origin *url.URL) (offer.Offer, error) {
	var o offer.Offer

	heading, ok := container.First(e.Selectors.Heading...)
	if !ok {
		return o, errors.NewExtraction(index, FieldProductName, "no heading found", nil)
	}
	o.ProductName = strings.TrimSpace(heading.Text())
	if o.ProductName == "" {
		return o, errors.NewExtraction(index, FieldProductName, "heading is empty", nil)
	}

	blocks := container.All(e.Selectors.FeatureList...)
	for _, route := range e.Routes {
		block, ok := findBlock(blocks, route.Keywords)
		if !ok {
			message := fmt.Sprintf("no feature block contains any of %q", route.Keywords)
			return o, errors.NewExtraction(index, route.Field, message, nil)
		}
		if err := route.Parse(e, block, &o); err != nil {
			return o, errors.NewExtraction(index, route.Field, "cannot parse feature block", err)
		}
	}

	detailsURL, err := e.detailsURL(container, origin)
	if err != nil {
		return o, errors.NewExtraction(index, FieldDetailsURL, "cannot resolve details link", err)
	}
	o.DetailsURL = detailsURL

	return o, nil
}

// findBlock returns the first block whose text contains any of the keywords
func findBlock(blocks []Node, keywords []string) (Node, bool) {
	for _, block := range blocks {
		text := block.Text()
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				return block, true
			}
		}
	}
	return nil, false
}

// detailsURL resolves the first link of the container against the page origin
func (e *Extractor) detailsURL(container Node, origin *url.URL) (string, error) {
	link, ok := container.First(e.Selectors.Link...)
	if !ok {
		return "", fmt.Errorf("no link found")
	}

	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("link has empty href")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return origin.ResolveReference(ref).String(), nil
}

// originOf returns scheme://host of an absolute url
func originOf(sourceURL string) (*url.URL, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute url", sourceURL)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}
