// Package diff decides whether the offer set changed between two snapshots.
//
// Comparison is set membership under offer.Same, so reordering the listing
// never counts as a change.
package diff

import "sjsage522/offerwatch/internal/offer"

// WasChanged reports whether current differs from previous. A change in the
// number of offers is always a change; otherwise every current offer must have
// an identical counterpart in previous.
func WasChanged(previous, current []offer.Offer) bool {
	if len(previous) != len(current) {
		return true
	}

	for _, o := range current {
		if !contains(previous, o) {
			return true
		}
	}

	return false
}

// Added returns the offers of current that have no identical counterpart in
// previous, in the order they appear in current
func Added(previous, current []offer.Offer) []offer.Offer {
	var added []offer.Offer
	for _, o := range current {
		if !contains(previous, o) {
			added = append(added, o)
		}
	}
	return added
}

// Removed returns the offers of previous that no longer appear in current
func Removed(previous, current []offer.Offer) []offer.Offer {
	return Added(current, previous)
}

func contains(offers []offer.Offer, target offer.Offer) bool {
	for _, o := range offers {
		if offer.Same(o, target) {
			return true
		}
	}
	return false
}
