package deck

import "time"

// ResultRow is one entry of a search results listing.
// DeckID correlates the row with the deck detail page it links to; it is
// kept in memory only and never written to the checkpoint tables.
type ResultRow struct {
	DeckID string `json:"deck_id"`
	Deck   string `json:"deck"`
	Player string `json:"player"`
	Format string `json:"format"`
	Event  string `json:"event"`
	Level  string `json:"level"`
	Rank   string `json:"rank"` // "1", "3-4", "Other", "Day 1 undefeated" or empty
	Date   string `json:"date"` // DD/MM/YY as shown on the site
}

// Count is a single card-category label and its value as scraped.
type Count struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Composition maps raw card-category labels to counts, in page order.
// Labels such as "LANDS_(27)" or "INSTANTS_and_SORC." are kept verbatim.
type Composition struct {
	DeckID string  `json:"deck_id"`
	Counts []Count `json:"counts"`
}

// Set assigns a value to label, replacing an existing entry in place.
func (c *Composition) Set(label string, value int) {
	for i := range c.Counts {
		if c.Counts[i].Label == label {
			c.Counts[i].Value = value
			return
		}
	}
	c.Counts = append(c.Counts, Count{Label: label, Value: value})
}

// Get returns the value recorded for label.
func (c Composition) Get(label string) (int, bool) {
	for _, cnt := range c.Counts {
		if cnt.Label == label {
			return cnt.Value, true
		}
	}
	return 0, false
}

// Labels returns the labels in the order they were first seen.
func (c Composition) Labels() []string {
	labels := make([]string, len(c.Counts))
	for i, cnt := range c.Counts {
		labels[i] = cnt.Label
	}
	return labels
}

// Record is one canonical, analysis-ready deck.
type Record struct {
	Player            string    `json:"player"`
	Event             string    `json:"event"`
	Rank              Rank      `json:"rank"`
	Date              time.Time `json:"date"`
	Lands             int       `json:"lands"`
	Creatures         int       `json:"creatures"`
	InstantsSorceries int       `json:"instants_sorceries"`
	OtherSpells       int       `json:"other_spells"`
}

// Total returns the number of main-deck cards.
func (r Record) Total() int {
	return r.Lands + r.Creatures + r.InstantsSorceries + r.OtherSpells
}
