package extract

import (
	"context"
	"path"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"xmage-maintenance/internal/sortutil"
	"xmage-maintenance/internal/textutil"
)

// tokensDir holds token sources, not card sources, and is skipped.
const tokensDir = "tokens"

// Examples matched by these regexes:
//
//	import mage.sets.tenth.AjaniGoldmane;
//	public class Plains1 extends Plains<Plains1> {
//	public class AjaniGoldmane extends mage.sets.magic2010.AjaniGoldmane {
//	public class BirdsOfParadise extends CardImpl<BirdsOfParadise> {
//	        super(ownerId, 1, "Ajani Goldmane", new CardType[]{CardType.PLANESWALKER}, "{2}{W}{W}");
//	        this.expansionSetCode = "M11";
var (
	// Single-class import from another set's package. Imports feed the
	// bare extends form below.
	reCardImport = regexp.MustCompile(`^import mage\.sets\.([0-9a-z]+)\.([0-9A-Za-z]+);`)

	// Basic land classes extend the land type itself; the type name is
	// both the superclass and the card name.
	reBasicLand = regexp.MustCompile(`^public class [0-9A-Za-z]+ extends (?:mage\.cards\.basiclands\.)?(Plains|Island|Swamp|Mountain|Forest)(?:<[0-9A-Za-z]+>)?\s*\{`)

	// Reprint extending another set's card by qualified name.
	reQualifiedSuper = regexp.MustCompile(`^public class [0-9A-Za-z]+ extends mage\.sets\.([0-9a-z]+)\.([0-9A-Za-z]+)\s*\{`)

	// Reprint extending an imported card by bare name. Only names found
	// in the import table count; everything else extends a framework
	// base class.
	reBareSuper = regexp.MustCompile(`^public class [0-9A-Za-z]+ extends ([0-9A-Za-z]+)\s*\{`)

	// Constructor call carrying the card name. The optional numeric
	// argument is the collector number.
	reSuperCall = regexp.MustCompile(`^\s*super\([A-Za-z]+,\s*(?:[0-9]+,)?\s*"(.+?)",`)

	// Explicit set code assignment. Scanning stops here: nothing after
	// it changes the classification.
	reExpansionCode = regexp.MustCompile(`^\s*this\.expansionSetCode = "([0-9A-Z]+)";`)
)

// classKey identifies a card class by its set directory token and class
// name. The class name always equals the file stem, so a qualified
// reference like mage.sets.tenth.AjaniGoldmane resolves to the same key
// as the file tenth/AjaniGoldmane.java.
type classKey struct {
	dir  string
	name string
}

// reprintRef is a deferred reference to another set's card class, with
// the referencing file's own set code when it declared one.
type reprintRef struct {
	target  classKey
	setCode string
}

// cardScan is the raw signal set of one card class file.
type cardScan struct {
	setCode   string
	cardName  string
	superDir  string
	superName string
}

// scanCardFile runs the signal regexes over each line, keeping the last
// match of each. The expansion set code ends the scan.
func scanCardFile(lines []string) cardScan {
	imports := make(map[string]string)
	var sc cardScan
	for _, line := range lines {
		if m := reCardImport.FindStringSubmatch(line); m != nil {
			imports[m[2]] = m[1]
		}
		if m := reBasicLand.FindStringSubmatch(line); m != nil {
			sc.superName = m[1]
			sc.cardName = m[1]
		}
		if m := reQualifiedSuper.FindStringSubmatch(line); m != nil {
			sc.superDir, sc.superName = m[1], m[2]
		}
		if m := reBareSuper.FindStringSubmatch(line); m != nil {
			if dir, ok := imports[m[1]]; ok {
				sc.superName = m[1]
				sc.superDir = dir
			}
		}
		if m := reSuperCall.FindStringSubmatch(line); m != nil {
			sc.cardName = m[1]
		}
		if m := reExpansionCode.FindStringSubmatch(line); m != nil {
			sc.setCode = m[1]
			break
		}
	}
	return sc
}

// iterLegacy scans the one-file-per-card layouts. Card classes live in
// set directories under the sets root; in the very old layout the same
// pass also digests the top-level aggregator classes into a cross-set
// index before any card file is classified.
//
// Classification per file, first rule that applies:
//
//  1. set code and card name present: direct declaration, one record
//  2. superclass reference present: deferred, resolved after the scan
//     (the oldest layout never resolves them; its aggregators already
//     register every printing)
//  3. very old layout, card name present: one record per aggregator set
//     registering the class
//  4. otherwise: skipped
func (e *Extractor) iterLegacy(ctx context.Context, rev string, veryOld bool) ([]CardRecord, error) {
	entries, err := e.src.ListDir(ctx, rev, SetsRoot)
	if err != nil {
		if e.missingSetsTree(rev, err) {
			return nil, nil
		}
		return nil, err
	}

	var index map[classKey]map[string]struct{}
	if veryOld {
		index, err = e.crossSetIndex(ctx, rev, entries)
		if err != nil {
			return nil, err
		}
	}

	directs := make(map[classKey]CardRecord)
	reprints := make(map[classKey]reprintRef)
	var out []CardRecord

	for _, setEnt := range entries {
		if !setEnt.IsDir || setEnt.Name == tokensDir {
			continue
		}
		cardEnts, err := e.src.ListDir(ctx, rev, path.Join(SetsRoot, setEnt.Name))
		if err != nil {
			return nil, err
		}
		for _, cardEnt := range cardEnts {
			if cardEnt.IsDir {
				continue
			}
			data, err := e.src.ReadFile(ctx, rev, path.Join(SetsRoot, setEnt.Name, cardEnt.Name))
			if err != nil {
				return nil, err
			}
			sc := scanCardFile(textutil.Lines(data))
			key := classKey{dir: setEnt.Name, name: textutil.Stem(cardEnt.Name)}
			switch {
			case sc.setCode != "" && sc.cardName != "":
				rec := CardRecord{SetCode: sc.setCode, CardName: sc.cardName}
				directs[key] = rec
				out = append(out, rec)
			case sc.superDir != "" && sc.superName != "":
				reprints[key] = reprintRef{
					target:  classKey{dir: sc.superDir, name: sc.superName},
					setCode: sc.setCode,
				}
			case veryOld && sc.cardName != "":
				for _, code := range sortutil.Keys(index[key]) {
					out = append(out, CardRecord{SetCode: code, CardName: sc.cardName})
				}
			default:
				e.log.Debug("neither set/name nor superclass found",
					zap.String("rev", revLabel(rev)),
					zap.String("path", path.Join(SetsRoot, setEnt.Name, cardEnt.Name)))
			}
		}
	}

	if !veryOld {
		out = append(out, e.resolveReprints(rev, directs, reprints)...)
	}
	return out, nil
}

// resolveReprints walks each deferred reference to the direct declaration
// at the end of its chain. The first explicit set code seen along the
// walk, starting with the referencing file's own, overrides the code of
// the final declaration. Chains that revisit a class or end without a
// direct declaration are dropped; the repository's history contains both
// shapes and neither may stall extraction.
func (e *Extractor) resolveReprints(rev string, directs map[classKey]CardRecord, reprints map[classKey]reprintRef) []CardRecord {
	origins := make([]classKey, 0, len(reprints))
	for k := range reprints {
		origins = append(origins, k)
	}
	sort.Slice(origins, func(i, j int) bool {
		if origins[i].dir != origins[j].dir {
			return origins[i].dir < origins[j].dir
		}
		return origins[i].name < origins[j].name
	})

	var out []CardRecord
	for _, origin := range origins {
		ref := reprints[origin]
		code := ref.setCode
		target := ref.target
		visited := map[classKey]struct{}{origin: {}}
		cyclic := false
		for {
			next, ok := reprints[target]
			if !ok {
				break
			}
			if _, seen := visited[target]; seen {
				cyclic = true
				break
			}
			visited[target] = struct{}{}
			if code == "" {
				code = next.setCode
			}
			target = next.target
		}
		if cyclic {
			e.log.Debug("reprint chain is cyclic",
				zap.String("rev", revLabel(rev)),
				zap.String("origin", origin.dir+"/"+origin.name))
			continue
		}
		direct, ok := directs[target]
		if !ok {
			e.log.Debug("reprint chain ends without a declaration",
				zap.String("rev", revLabel(rev)),
				zap.String("origin", origin.dir+"/"+origin.name),
				zap.String("target", target.dir+"/"+target.name))
			continue
		}
		if code == "" {
			out = append(out, direct)
		} else {
			out = append(out, CardRecord{SetCode: code, CardName: direct.CardName})
		}
	}
	return out
}
