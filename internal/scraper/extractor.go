package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

// infoSelector marks the card-category header blocks of a deck page,
// e.g. "24 LANDS (27)" or "20 INSTANTS and SORC.".
const infoSelector = "div.O14"

// AnomalyKind classifies blocks that do not hold exactly one label and one count.
type AnomalyKind string

const (
	// AnomalyExtraValue: more than one count in a block. The last count is kept.
	AnomalyExtraValue AnomalyKind = "extra_value"
	// AnomalyMissingValue: a label with no count. The block is discarded.
	AnomalyMissingValue AnomalyKind = "missing_value"
	// AnomalyMissingLabel: a count with no label. The block is discarded.
	AnomalyMissingLabel AnomalyKind = "missing_label"
)

// Anomaly records one irregular info block.
type Anomaly struct {
	Block int
	Kind  AnomalyKind
	Text  string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("block %d: %s: %q", a.Block, a.Kind, a.Text)
}

// ExtractComposition parses every info block of a deck detail page.
func ExtractComposition(doc *goquery.Document, deckID string) (deck.Composition, []Anomaly) {
	comp := deck.Composition{DeckID: deckID, Counts: make([]deck.Count, 0)}
	var anomalies []Anomaly

	doc.Find(infoSelector).Each(func(i int, sel *goquery.Selection) {
		label, value, blockAnomalies, ok := parseBlock(i, sel.Text())
		anomalies = append(anomalies, blockAnomalies...)
		if ok {
			comp.Set(label, value)
		}
	})

	return comp, anomalies
}

type blockState int

const (
	// accumulatingName: tokens are being read; label and count are pending.
	accumulatingName blockState = iota
	// committed: the block ended with a label and a count.
	committed
	// discarded: the block ended without a usable label/count pair.
	discarded
)

// blockParser walks the whitespace-separated tokens of one info block.
// Non-numeric tokens are joined with "_" into the label; numeric tokens set
// the count. The block is one name group: the pair is committed at block end.
type blockParser struct {
	index     int
	text      string
	state     blockState
	name      []string
	value     int
	hasValue  bool
	anomalies []Anomaly
}

func (p *blockParser) token(tok string) {
	if p.state != accumulatingName {
		return
	}
	if n, ok := parseCount(tok); ok {
		if p.hasValue {
			p.anomalies = append(p.anomalies, Anomaly{Block: p.index, Kind: AnomalyExtraValue, Text: p.text})
		}
		p.value = n
		p.hasValue = true
		return
	}
	p.name = append(p.name, tok)
}

// end closes the block and returns the committed label.
func (p *blockParser) end() string {
	label := strings.Trim(strings.Join(p.name, "_"), "_")
	switch {
	case !p.hasValue && label == "":
		// Empty block, nothing to report.
		p.state = discarded
	case !p.hasValue:
		p.anomalies = append(p.anomalies, Anomaly{Block: p.index, Kind: AnomalyMissingValue, Text: p.text})
		p.state = discarded
	case label == "":
		p.anomalies = append(p.anomalies, Anomaly{Block: p.index, Kind: AnomalyMissingLabel, Text: p.text})
		p.state = discarded
	default:
		p.state = committed
	}
	return label
}

func parseBlock(index int, text string) (string, int, []Anomaly, bool) {
	p := &blockParser{index: index, text: cleanText(text)}
	for _, tok := range strings.Fields(text) {
		p.token(tok)
	}
	label := p.end()
	return label, p.value, p.anomalies, p.state == committed
}

// parseCount accepts tokens made only of ASCII digits.
func parseCount(tok string) (int, bool) {
	if tok == "" {
		return 0, false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}
