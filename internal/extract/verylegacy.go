package extract

import (
	"context"
	"path"
	"regexp"

	"go.uber.org/zap"

	"xmage-maintenance/internal/gitrepo"
	"xmage-maintenance/internal/textutil"
)

// setsAggregatorStem is the registry class listing the sets themselves;
// it registers no cards.
const setsAggregatorStem = "Sets"

// aggregatorSetCodes maps the per-set aggregator classes of the oldest
// layout to their expansion set codes. The classes never declare a code
// in source, and the layout was abandoned before any other set was added.
var aggregatorSetCodes = map[string]string{
	"AlaraReborn":      "ARB",
	"Conflux":          "CON",
	"Magic2010":        "M10",
	"Magic2011":        "M11",
	"Planechase":       "HOP",
	"RiseOfTheEldrazi": "ROE",
	"ShardsOfAlara":    "ALA",
	"Tenth":            "10E",
	"Worldwake":        "WWK",
	"Zendikar":         "ZEN",
}

// Examples matched by these regexes:
//
//	import mage.sets.tenth.*;
//	        this.cards.add(AjaniGoldmane.class);
var (
	// Wildcard import selecting the set directory the registrations
	// below refer to. The last one seen stays in effect.
	reWildcardImport = regexp.MustCompile(`^import mage\.sets\.([0-9a-z]+)\.\*;`)

	// One card class registration inside an aggregator constructor.
	reCardsAddClass = regexp.MustCompile(`^\s*this\.cards\.add\(([0-9A-Za-z]+)\.class\);`)
)

// crossSetIndex digests the top-level aggregator classes into a map from
// card class to the codes of every set registering it. entries is the
// listing of the sets root; only its non-directory members are read.
func (e *Extractor) crossSetIndex(ctx context.Context, rev string, entries []gitrepo.TreeEntry) (map[classKey]map[string]struct{}, error) {
	index := make(map[classKey]map[string]struct{})
	for _, ent := range entries {
		if ent.IsDir {
			continue
		}
		stem := textutil.Stem(ent.Name)
		if stem == setsAggregatorStem {
			continue
		}
		setCode, ok := aggregatorSetCodes[stem]
		if !ok {
			e.log.Debug("unknown aggregator class",
				zap.String("rev", revLabel(rev)),
				zap.String("name", ent.Name))
			continue
		}
		data, err := e.src.ReadFile(ctx, rev, path.Join(SetsRoot, ent.Name))
		if err != nil {
			return nil, err
		}
		dir := ""
		for _, line := range textutil.Lines(data) {
			if m := reWildcardImport.FindStringSubmatch(line); m != nil {
				dir = m[1]
			}
			if m := reCardsAddClass.FindStringSubmatch(line); m != nil {
				key := classKey{dir: dir, name: m[1]}
				if index[key] == nil {
					index[key] = make(map[string]struct{})
				}
				index[key][setCode] = struct{}{}
			}
		}
	}
	return index, nil
}
