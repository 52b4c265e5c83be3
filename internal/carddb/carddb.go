// Package carddb loads the mtgjson AllSets database, the external record
// of every printed card, and indexes it for the name lookups the
// maintenance commands make.
package carddb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"xmage-maintenance/internal/sortutil"
	"xmage-maintenance/internal/ziputil"
)

const (
	// AllSetsURL is the plain AllSets payload.
	AllSetsURL = "https://mtgjson.com/json/AllSets.json"
	// AllSetsXZipURL is the extended payload carrying printings, served
	// as a zip archive.
	AllSetsXZipURL = "https://mtgjson.com/json/AllSets-x.json.zip"
)

// Card is one printing of a card within a set.
type Card struct {
	Name      string   `json:"name"`
	Number    string   `json:"number,omitempty"`
	MciNumber string   `json:"mciNumber,omitempty"`
	Types     []string `json:"types,omitempty"`
	Printings []string `json:"printings,omitempty"`
}

// IsReprint reports whether the card has been printed in more than one
// set. Printings are only present in the extended payload; a card from
// the plain payload never counts as a reprint.
func (c *Card) IsReprint() bool { return len(c.Printings) > 1 }

// HasType reports whether the card's type line contains the given type.
func (c *Card) HasType(typ string) bool {
	for _, t := range c.Types {
		if t == typ {
			return true
		}
	}
	return false
}

// Set is one expansion set with its cards.
type Set struct {
	Name               string  `json:"name"`
	Code               string  `json:"code"`
	MagicCardsInfoCode string  `json:"magicCardsInfoCode,omitempty"`
	Cards              []*Card `json:"cards"`

	byName map[string]*Card
}

// Card returns this set's printing of the named card.
func (s *Set) Card(name string) (*Card, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// CardNames returns the names printed in this set, sorted.
func (s *Set) CardNames() []string {
	return sortutil.Keys(s.byName)
}

// DB is an AllSets database indexed by set code and card name.
type DB struct {
	Sets map[string]*Set

	byName map[string]*Card
}

// Set returns the set with the given code.
func (db *DB) Set(code string) (*Set, bool) {
	s, ok := db.Sets[code]
	return s, ok
}

// Card returns the named card from any set.
func (db *DB) Card(name string) (*Card, bool) {
	c, ok := db.byName[name]
	return c, ok
}

// KnownName reports whether the database knows the card. A split name
// like "Fire // Ice" counts as known when every half is, since spoiler
// galleries caption the combined card while the database stores the
// halves.
func (db *DB) KnownName(name string) bool {
	if _, ok := db.byName[name]; ok {
		return true
	}
	if !strings.Contains(name, " // ") {
		return false
	}
	for _, part := range strings.Split(name, " // ") {
		if _, ok := db.byName[part]; !ok {
			return false
		}
	}
	return true
}

// FromReader decodes an AllSets JSON payload and indexes it.
func FromReader(r io.Reader) (*DB, error) {
	var sets map[string]*Set
	if err := json.NewDecoder(r).Decode(&sets); err != nil {
		return nil, fmt.Errorf("decode all-sets payload: %w", err)
	}
	db := &DB{Sets: sets, byName: make(map[string]*Card)}
	for _, code := range sortutil.Keys(sets) {
		s := sets[code]
		s.byName = make(map[string]*Card, len(s.Cards))
		for _, c := range s.Cards {
			s.byName[c.Name] = c
			db.byName[c.Name] = c
		}
	}
	return db, nil
}

// httpClient is shared across downloads; tests close its idle
// connections during cleanup.
var httpClient = &http.Client{}

// FromURL downloads an AllSets payload and indexes it, transparently
// unwrapping a zip archive when the response is one. Cancellation comes
// from the context; there is no separate timeout.
func FromURL(ctx context.Context, url string) (*DB, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if ziputil.IsArchive(body) {
		body, err = ziputil.JSONMember(body)
		if err != nil {
			return nil, fmt.Errorf("unzip %s: %w", url, err)
		}
	}
	return FromReader(bytes.NewReader(body))
}
