// Package era classifies repository revisions against the two refactorings
// of the sets source tree, deciding which layout a revision's card files
// use and therefore which scanner can read them.
package era

import (
	"context"

	"xmage-maintenance/internal/gitrepo"
)

// The sets tree was restructured twice. Revisions are classified by which
// side of each restructuring they fall on.
const (
	// Refactor1Rev is the first commit where set directories hold one
	// class per card instead of per-set aggregator classes.
	Refactor1Rev = "e0b43883612d551873445ace182c5fc433b283d7"
	// Refactor2Rev is the first commit of the flat layout, where a single
	// class per set registers all of its cards.
	Refactor2Rev = "39eaaf727491e998ba6137a18fcdd18fde95b558"
)

// Era identifies which sets layout a revision uses.
type Era int

const (
	// Current is the flat layout: one class per set whose constructor
	// registers every card it contains.
	Current Era = iota
	// Legacy is the one-file-per-card layout, where each card class
	// carries its own expansion set code or extends a printing from
	// another set.
	Legacy
	// VeryLegacy is the oldest layout: per-set aggregator classes
	// register card classes that may live in another set's directory.
	VeryLegacy
)

func (e Era) String() string {
	switch e {
	case Current:
		return "current"
	case Legacy:
		return "legacy"
	case VeryLegacy:
		return "very-legacy"
	}
	return "unknown"
}

// MergeBaser resolves the best common ancestor of two revisions.
type MergeBaser interface {
	MergeBase(ctx context.Context, a, b string) (string, error)
}

// OlderThan reports whether rev is strictly older than boundary. A
// revision is at or after the boundary exactly when the boundary is an
// ancestor of it, i.e. when merge-base(rev, boundary) is the boundary
// itself. The boundary revision is therefore not older than itself.
func OlderThan(ctx context.Context, g MergeBaser, rev, boundary string) (bool, error) {
	base, err := g.MergeBase(ctx, rev, boundary)
	if err != nil {
		return false, err
	}
	return base != boundary, nil
}

// Classify maps a revision to its layout era. The working-tree sentinel
// is always Current: the live checkout tracks the repository head, which
// is long past both restructurings.
func Classify(ctx context.Context, g MergeBaser, rev string) (Era, error) {
	if rev == gitrepo.WorkingTree {
		return Current, nil
	}
	older, err := OlderThan(ctx, g, rev, Refactor2Rev)
	if err != nil {
		return Current, err
	}
	if !older {
		return Current, nil
	}
	veryOld, err := OlderThan(ctx, g, rev, Refactor1Rev)
	if err != nil {
		return Current, err
	}
	if veryOld {
		return VeryLegacy, nil
	}
	return Legacy, nil
}
