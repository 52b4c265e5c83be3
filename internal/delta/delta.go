// Package delta compares the implemented-cards picture at two points in
// history: which cards the working tree implements, per set, that a
// baseline revision did not.
package delta

import (
	"xmage-maintenance/internal/extract"
)

// CardSets groups implemented card names by expansion set code.
type CardSets map[string]map[string]struct{}

// Collect folds extractor records into a CardSets. Duplicate records
// collapse; a card reprinted across sets appears under each code.
func Collect(recs []extract.CardRecord) CardSets {
	out := make(CardSets)
	for _, rec := range recs {
		names := out[rec.SetCode]
		if names == nil {
			names = make(map[string]struct{})
			out[rec.SetCode] = names
		}
		names[rec.CardName] = struct{}{}
	}
	return out
}

// Added returns the names in curr that base lacks, per set. Sets with
// nothing new are omitted entirely, so an unchanged history yields an
// empty result.
func Added(base, curr CardSets) CardSets {
	out := make(CardSets)
	for code, names := range curr {
		baseNames := base[code]
		var added map[string]struct{}
		for name := range names {
			if _, ok := baseNames[name]; ok {
				continue
			}
			if added == nil {
				added = make(map[string]struct{})
			}
			added[name] = struct{}{}
		}
		if added != nil {
			out[code] = added
		}
	}
	return out
}
