package delta

import (
	"context"
	"errors"
	"fmt"

	"xmage-maintenance/internal/extract"
	"xmage-maintenance/internal/gitrepo"
)

// restoreBranch is the reference branch the checkout returns to after a
// baseline extraction.
const restoreBranch = "master"

// Checkouter switches a live checkout between revisions.
type Checkouter interface {
	Checkout(ctx context.Context, rev string) error
}

// Iterator yields implemented-card records at a revision.
type Iterator interface {
	Iter(ctx context.Context, rev string) ([]extract.CardRecord, error)
}

// Progress receives phase boundaries while a scan runs, so callers can
// render status meters. A phase that fails is never marked Done; the
// error carries the story instead.
type Progress interface {
	Start(msg string)
	Done()
}

type nopProgress struct{}

func (nopProgress) Start(string) {}
func (nopProgress) Done()        {}

// ImplementedSince reports the cards implemented in the working tree that
// were not implemented at rev, grouped by set code. The baseline is read
// by switching the live checkout to rev and scanning the working tree
// again, so old layouts contribute whatever the current-layout scanner
// finds there. Once the checkout has moved, the restore to master runs on
// every path out, even when the surrounding context is already canceled.
// A nil prog disables phase reporting.
func ImplementedSince(ctx context.Context, repo Checkouter, ex Iterator, rev string, prog Progress) (out CardSets, err error) {
	if prog == nil {
		prog = nopProgress{}
	}

	prog.Start("determining current implemented cards")
	current, err := ex.Iter(ctx, gitrepo.WorkingTree)
	if err != nil {
		return nil, err
	}
	prog.Done()

	prog.Start("determining implemented cards as of given revision")
	if err := repo.Checkout(ctx, rev); err != nil {
		return nil, fmt.Errorf("checkout baseline: %w", err)
	}
	defer func() {
		if rerr := repo.Checkout(context.WithoutCancel(ctx), restoreBranch); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore checkout: %w", rerr))
		}
	}()

	baseline, err := ex.Iter(ctx, gitrepo.WorkingTree)
	if err != nil {
		return nil, err
	}
	prog.Done()
	return Added(Collect(baseline), Collect(current)), nil
}
