package extract

import (
	"context"
	"path"
	"regexp"

	"xmage-maintenance/internal/gitrepo"
	"xmage-maintenance/internal/textutil"
)

// Examples matched by these regexes:
//
//	super("Aether Revolt", "AER", ExpansionSet.buildDate(2017, 1, 20), SetType.EXPANSION);
//	cards.add(new SetCardInfo("Aid from the Cowl", 82, Rarity.RARE, mage.cards.a.AidFromTheCowl.class));
var (
	// Constructor line of a set class; the second argument is the set
	// code. Anchored to the exact indentation the set classes use, which
	// keeps subclass constructors and comments from matching.
	reSetSuper = regexp.MustCompile(`^        super\("[^"]+", "([A-Z0-9]+)"`)

	// One card registration inside the constructor body.
	reSetCardInfo = regexp.MustCompile(`cards\.add\(new SetCardInfo\("([^"]+)",`)
)

// scanSetFile extracts the records of one flat set class. Registrations
// before the constructor line are unreachable in real files and ignored;
// a file without a recognizable constructor contributes nothing.
func scanSetFile(lines []string) []CardRecord {
	setCode := ""
	var recs []CardRecord
	for _, line := range lines {
		if setCode == "" {
			if m := reSetSuper.FindStringSubmatch(line); m != nil {
				setCode = m[1]
			}
			continue
		}
		if m := reSetCardInfo.FindStringSubmatch(line); m != nil {
			recs = append(recs, CardRecord{SetCode: setCode, CardName: m[1]})
		}
	}
	return recs
}

// iterCurrent scans the flat layout: every non-directory entry directly
// under the sets root is a set class.
func (e *Extractor) iterCurrent(ctx context.Context, rev string) ([]CardRecord, error) {
	entries, err := e.src.ListDir(ctx, rev, SetsRoot)
	if err != nil {
		if e.missingSetsTree(rev, err) {
			return nil, nil
		}
		return nil, err
	}
	var out []CardRecord
	for _, ent := range entries {
		if ent.IsDir {
			continue
		}
		data, err := e.src.ReadFile(ctx, rev, path.Join(SetsRoot, ent.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, scanSetFile(textutil.Lines(data))...)
	}
	return out, nil
}

// Implemented reports whether the named card is registered by any set
// class in the working tree. A non-empty expansion code restricts the
// search to that set: files whose constructor declares a different code
// are abandoned at the constructor line.
func (e *Extractor) Implemented(ctx context.Context, name, expansion string) (bool, error) {
	entries, err := e.src.ListDir(ctx, gitrepo.WorkingTree, SetsRoot)
	if err != nil {
		return false, err
	}
	needle := regexp.MustCompile(`cards\.add\(new SetCardInfo\("` + regexp.QuoteMeta(name) + `",`)
	for _, ent := range entries {
		if ent.IsDir {
			continue
		}
		data, err := e.src.ReadFile(ctx, gitrepo.WorkingTree, path.Join(SetsRoot, ent.Name))
		if err != nil {
			return false, err
		}
		for _, line := range textutil.Lines(data) {
			if expansion != "" {
				if m := reSetSuper.FindStringSubmatch(line); m != nil && m[1] != expansion {
					break
				}
			}
			if needle.MatchString(line) {
				return true, nil
			}
		}
	}
	return false, nil
}
