package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"xmage-maintenance/internal/era"
	"xmage-maintenance/internal/gitrepo"
)

// fakeSource serves fixed file trees per revision from a map of slash
// paths to contents. Directories are implied by the paths; listing a
// path with no entries reports ErrNotFound, matching git's refusal to
// track empty trees.
type fakeSource struct {
	trees map[string]map[string]string
}

func (f fakeSource) ListDir(_ context.Context, rev, dir string) ([]gitrepo.TreeEntry, error) {
	tree, ok := f.trees[rev]
	if !ok {
		return nil, fmt.Errorf("list %s: %w", dir, gitrepo.ErrNotFound)
	}
	prefix := dir + "/"
	isDir := make(map[string]bool)
	for p := range tree {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		name, rest, _ := strings.Cut(strings.TrimPrefix(p, prefix), "/")
		isDir[name] = isDir[name] || rest != ""
	}
	if len(isDir) == 0 {
		return nil, fmt.Errorf("list %s: %w", dir, gitrepo.ErrNotFound)
	}
	names := make([]string, 0, len(isDir))
	for name := range isDir {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]gitrepo.TreeEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, gitrepo.TreeEntry{Name: name, IsDir: isDir[name]})
	}
	return entries, nil
}

func (f fakeSource) ReadFile(_ context.Context, rev, p string) ([]byte, error) {
	tree, ok := f.trees[rev]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", p, gitrepo.ErrNotFound)
	}
	content, ok := tree[p]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", p, gitrepo.ErrNotFound)
	}
	return []byte(content), nil
}

// eraStub answers merge-base queries so that every non-working-tree
// revision classifies as the configured era.
type eraStub struct {
	kind era.Era
}

func (s eraStub) MergeBase(_ context.Context, rev, boundary string) (string, error) {
	switch s.kind {
	case era.Current:
		return boundary, nil
	case era.Legacy:
		if boundary == era.Refactor1Rev {
			return boundary, nil
		}
		return rev, nil
	default:
		return rev, nil
	}
}

func TestIterDispatchesByEra(t *testing.T) {
	src := fakeSource{trees: map[string]map[string]string{
		"flat-rev": {
			SetsRoot + "/AetherRevolt.java": aetherRevoltJava,
		},
		"mid-rev": {
			SetsRoot + "/magic2011/AjaniGoldmane.java": ajaniM11Java,
		},
		"old-rev": {
			SetsRoot + "/Tenth.java":                 tenthAggregatorJava,
			SetsRoot + "/tenth/AjaniGoldmane.java":   ajaniTenthJava,
			SetsRoot + "/tenth/BirdsOfParadise.java": birdsTenthJava,
		},
	}}

	cases := []struct {
		name string
		kind era.Era
		rev  string
		want []CardRecord
	}{
		{
			name: "current layout",
			kind: era.Current,
			rev:  "flat-rev",
			want: []CardRecord{
				{SetCode: "AER", CardName: "Aegis Automaton"},
				{SetCode: "AER", CardName: "Aid from the Cowl"},
			},
		},
		{
			name: "legacy layout",
			kind: era.Legacy,
			rev:  "mid-rev",
			want: []CardRecord{
				{SetCode: "M11", CardName: "Ajani Goldmane"},
			},
		},
		{
			name: "very legacy layout",
			kind: era.VeryLegacy,
			rev:  "old-rev",
			want: []CardRecord{
				{SetCode: "10E", CardName: "Ajani Goldmane"},
				{SetCode: "10E", CardName: "Birds of Paradise"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex := New(src, eraStub{kind: tc.kind}, nil)
			got, err := ex.Iter(context.Background(), tc.rev)
			require.NoError(t, err)
			require.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestIterWorkingTreeUsesCurrentScanner(t *testing.T) {
	src := fakeSource{trees: map[string]map[string]string{
		gitrepo.WorkingTree: {
			SetsRoot + "/AetherRevolt.java": aetherRevoltJava,
		},
	}}
	// The stub would classify everything as very legacy; the working
	// tree must not consult it at all.
	ex := New(src, eraStub{kind: era.VeryLegacy}, nil)
	got, err := ex.Iter(context.Background(), gitrepo.WorkingTree)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestIterMissingSetsTreeYieldsNothing(t *testing.T) {
	src := fakeSource{trees: map[string]map[string]string{}}
	for _, kind := range []era.Era{era.Current, era.Legacy, era.VeryLegacy} {
		ex := New(src, eraStub{kind: kind}, nil)
		got, err := ex.Iter(context.Background(), "any-rev")
		require.NoError(t, err, "era %v", kind)
		require.Empty(t, got, "era %v", kind)
	}
}

func TestImplemented(t *testing.T) {
	src := fakeSource{trees: map[string]map[string]string{
		gitrepo.WorkingTree: {
			SetsRoot + "/AetherRevolt.java": aetherRevoltJava,
			SetsRoot + "/UnhingedBits.java": unhingedJava,
		},
	}}
	ex := New(src, eraStub{kind: era.Current}, nil)
	ctx := context.Background()

	impl, err := ex.Implemented(ctx, "Aid from the Cowl", "")
	require.NoError(t, err)
	require.True(t, impl)

	impl, err = ex.Implemented(ctx, "Aid from the Cowl", "AER")
	require.NoError(t, err)
	require.True(t, impl)

	impl, err = ex.Implemented(ctx, "Aid from the Cowl", "UNH")
	require.NoError(t, err)
	require.False(t, impl, "expansion filter must abandon non-matching set files")

	impl, err = ex.Implemented(ctx, "Totally Absent", "")
	require.NoError(t, err)
	require.False(t, impl)

	// Card names are matched literally even when they contain regexp
	// metacharacters.
	impl, err = ex.Implemented(ctx, "Erase (Not the Urza's Legacy One)", "UNH")
	require.NoError(t, err)
	require.True(t, impl)
}

// ---------------------------------------------------------------------------
// Java fixtures shared by the scanner tests.

const aetherRevoltJava = `package mage.sets;

import mage.cards.ExpansionSet;
import mage.constants.Rarity;
import mage.constants.SetType;

public final class AetherRevolt extends ExpansionSet {

    private static final AetherRevolt instance = new AetherRevolt();

    public static AetherRevolt getInstance() {
        return instance;
    }

    private AetherRevolt() {
        super("Aether Revolt", "AER", ExpansionSet.buildDate(2017, 1, 20), SetType.EXPANSION);
        this.blockName = "Kaladesh";
        this.hasBoosters = true;

        cards.add(new SetCardInfo("Aegis Automaton", 141, Rarity.COMMON, mage.cards.a.AegisAutomaton.class));
        cards.add(new SetCardInfo("Aid from the Cowl", 82, Rarity.RARE, mage.cards.a.AidFromTheCowl.class));
    }
}
`

const unhingedJava = `package mage.sets;

import mage.cards.ExpansionSet;
import mage.constants.Rarity;
import mage.constants.SetType;

public final class UnhingedBits extends ExpansionSet {

    private UnhingedBits() {
        super("Unhinged", "UNH", ExpansionSet.buildDate(2004, 11, 19), SetType.JOKE_SET);

        cards.add(new SetCardInfo("Erase (Not the Urza's Legacy One)", 13, Rarity.COMMON, mage.cards.e.EraseNotTheUrzasLegacyOne.class));
    }
}
`

const ajaniM11Java = `package mage.sets.magic2011;

import java.util.UUID;
import mage.Constants.CardType;
import mage.Constants.Rarity;
import mage.cards.CardImpl;

public class AjaniGoldmane extends CardImpl<AjaniGoldmane> {

    public AjaniGoldmane(UUID ownerId) {
        super(ownerId, 1, "Ajani Goldmane", new CardType[]{CardType.PLANESWALKER}, "{2}{W}{W}");
        this.expansionSetCode = "M11";
        this.loyalty = new MageInt(4);
    }
}
`

const tenthAggregatorJava = `package mage.sets;

import mage.Constants.SetType;
import mage.cards.ExpansionSet;
import mage.sets.tenth.*;

public class Tenth extends ExpansionSet {

    private static final Tenth fINSTANCE = new Tenth();

    public static Tenth getInstance() {
        return fINSTANCE;
    }

    private Tenth() {
        super("Tenth Edition", "10E", "", "mage.sets.tenth", new GregorianCalendar(2007, 6, 13).getTime(), SetType.CORE);
        this.cards.add(AjaniGoldmane.class);
        this.cards.add(BirdsOfParadise.class);
    }
}
`

const ajaniTenthJava = `package mage.sets.tenth;

import java.util.UUID;
import mage.Constants.CardType;
import mage.cards.CardImpl;

public class AjaniGoldmane extends CardImpl {

    public AjaniGoldmane(UUID ownerId) {
        super(ownerId, "Ajani Goldmane", new CardType[]{CardType.PLANESWALKER}, "{2}{W}{W}");
    }
}
`

const birdsTenthJava = `package mage.sets.tenth;

import java.util.UUID;
import mage.Constants.CardType;
import mage.cards.CardImpl;

public class BirdsOfParadise extends CardImpl {

    public BirdsOfParadise(UUID ownerId) {
        super(ownerId, "Birds of Paradise", new CardType[]{CardType.CREATURE}, "{G}");
    }
}
`
