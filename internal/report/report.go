// Package report renders the Markdown fragments the maintenance
// commands publish: card links, checklists, and the oracle-update
// document.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"xmage-maintenance/internal/carddb"
	"xmage-maintenance/internal/delta"
	"xmage-maintenance/internal/sortutil"
)

// searchLink is the fallback when no printing-specific URL can be
// built. mtg.wtf treats %21 as an exact-name query.
func searchLink(name string) string {
	return fmt.Sprintf("[%s](https://mtg.wtf/card?q=%%21%s)", name, strings.ReplaceAll(name, " ", "+"))
}

// CardLink renders a Markdown link for one printing of a card.
//
// Without a set code the link is an exact-name search. With one, the
// database supplies the card number for a direct mtg.wtf URL; a card
// or set the database does not know renders as the bare name. Planes
// and phenomena live a thousand numbers up in mtg.wtf's scheme.
func CardLink(name, setCode string, db *carddb.DB) string {
	if setCode == "" {
		return searchLink(name)
	}
	set, ok := db.Set(setCode)
	if !ok {
		return name
	}
	card, ok := set.Card(name)
	if !ok {
		return name
	}
	urlCode := set.MagicCardsInfoCode
	if urlCode == "" {
		urlCode = setCode
	}
	number := card.Number
	if number == "" {
		number = card.MciNumber
	}
	if number == "" {
		return searchLink(name)
	}
	if n, err := strconv.Atoi(number); err == nil {
		if card.HasType("Plane") || card.HasType("Phenomenon") {
			n += 1000
		}
		number = strconv.Itoa(n)
	}
	return fmt.Sprintf("[%s](https://mtg.wtf/card/%s/%s)", name, strings.ToLower(urlCode), number)
}

// ChecklistItem renders one task-list line, checked when done.
func ChecklistItem(done bool, text string) string {
	mark := " "
	if done {
		mark = "x"
	}
	return fmt.Sprintf("- [%s] %s", mark, text)
}

// SinceList renders one bullet per set of newly implemented cards,
// sets and names in sorted order. Sets with nothing new are omitted.
func SinceList(added delta.CardSets, db *carddb.DB) []string {
	var out []string
	for _, code := range sortutil.Keys(added) {
		names := added[code]
		if len(names) == 0 {
			continue
		}
		sorted := sortutil.Keys(names)
		links := make([]string, len(sorted))
		for i, name := range sorted {
			links[i] = CardLink(name, code, db)
		}
		out = append(out, fmt.Sprintf("* %s: %s", code, strings.Join(links, "; ")))
	}
	return out
}
