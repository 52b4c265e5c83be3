// Package extract scans the card set sources of an XMage checkout and
// reports which cards are implemented in which expansion sets.
//
// The sets tree was restructured twice over the repository's history, so
// three scanners coexist:
//
//   - current: one flat class per set, registering every card in its
//     constructor
//   - legacy: one class per card, carrying an expansion set code or
//     extending the printing of another set
//   - very legacy: per-set aggregator classes registering card classes
//     that may live in another set's directory
//
// Revision classification is delegated to the era package. All scanners
// are line-oriented regular-expression matchers, not Java parsers; files
// they cannot make sense of are skipped, not fatal.
package extract

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"xmage-maintenance/internal/era"
	"xmage-maintenance/internal/gitrepo"
)

// SetsRoot is the slash-separated path of the sets source tree inside
// the checkout.
const SetsRoot = "Mage.Sets/src/mage/sets"

// CardRecord is one implemented card: a card name paired with the code
// of the expansion set implementing it.
type CardRecord struct {
	SetCode  string
	CardName string
}

// Source lists directories and reads files at a revision. File content
// is normalized text per the gitrepo contract. The empty revision
// selects the working tree.
type Source interface {
	ListDir(ctx context.Context, rev, path string) ([]gitrepo.TreeEntry, error)
	ReadFile(ctx context.Context, rev, path string) ([]byte, error)
}

// Extractor scans the sets tree of a checkout for implemented cards.
type Extractor struct {
	src  Source
	hist era.MergeBaser
	log  *zap.Logger
}

// New returns an Extractor reading from src and classifying revisions
// through hist. A nil logger disables logging.
func New(src Source, hist era.MergeBaser, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{src: src, hist: hist, log: log}
}

// Iter returns every implemented card at rev, one record per printing.
// The same name may appear under several set codes, and the record order
// is not part of the contract. A revision so early that the sets tree
// does not exist yet yields no records and no error.
func (e *Extractor) Iter(ctx context.Context, rev string) ([]CardRecord, error) {
	kind, err := era.Classify(ctx, e.hist, rev)
	if err != nil {
		return nil, err
	}
	switch kind {
	case era.Legacy:
		return e.iterLegacy(ctx, rev, false)
	case era.VeryLegacy:
		return e.iterLegacy(ctx, rev, true)
	default:
		return e.iterCurrent(ctx, rev)
	}
}

// missingSetsTree reports whether err is the recoverable absence of the
// top-level sets directory.
func (e *Extractor) missingSetsTree(rev string, err error) bool {
	if errors.Is(err, gitrepo.ErrNotFound) {
		e.log.Debug("sets tree does not exist yet", zap.String("rev", revLabel(rev)))
		return true
	}
	return false
}

func revLabel(rev string) string {
	if rev == gitrepo.WorkingTree {
		return "working tree"
	}
	return rev
}
