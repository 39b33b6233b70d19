package normalize

import (
	"github.com/antzucaro/matchr"

	"github.com/pfrederiksen/mtg-worlds/internal/dataset"
	"github.com/pfrederiksen/mtg-worlds/internal/logger"
)

// AuditEntry describes an override that matched no row.
type AuditEntry struct {
	Kind       string  `json:"kind"` // "rank" or "name"
	Year       int     `json:"year"`
	Player     string  `json:"player"`
	Suggestion string  `json:"suggestion,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// applyOverrides resets the configured years, applies rank overrides and then
// name corrections. Overrides that match nothing are added to the audit.
func (n *Normalizer) applyOverrides(t *dataset.Table, report *Report) {
	years := make([]int, t.Len())
	for i := range years {
		years[i] = yearOf(t, i)
	}

	reset := make(map[int]bool, len(n.Overrides.ResetYears))
	for _, y := range n.Overrides.ResetYears {
		reset[y] = true
	}
	for i, y := range years {
		if reset[y] {
			t.Set(i, ColRank, dataset.Missing)
			report.RanksReset++
		}
	}

	for _, o := range n.Overrides.Ranks {
		matched := 0
		for i, y := range years {
			if y == o.Year && t.Get(i, ColPlayer) == o.Player {
				t.Set(i, ColRank, o.Rank)
				matched++
			}
		}
		report.RanksOverridden += matched
		if matched == 0 {
			report.Audit = append(report.Audit, audit(t, years, "rank", o.Year, o.Player))
		}
	}

	for _, c := range n.Overrides.Names {
		matched := 0
		for i, y := range years {
			if y == c.Year && t.Get(i, ColPlayer) == c.From {
				t.Set(i, ColPlayer, c.To)
				matched++
			}
		}
		report.NamesCorrected += matched
		if matched == 0 {
			report.Audit = append(report.Audit, audit(t, years, "name", c.Year, c.From))
		}
	}
}

// audit builds the entry for an unmatched override, suggesting the player of
// that year whose name is closest by Jaro-Winkler similarity.
func audit(t *dataset.Table, years []int, kind string, year int, player string) AuditEntry {
	entry := AuditEntry{Kind: kind, Year: year, Player: player}
	for i, y := range years {
		if y != year {
			continue
		}
		candidate := t.Get(i, ColPlayer)
		if sim := matchr.JaroWinkler(player, candidate, false); sim > entry.Similarity {
			entry.Suggestion = candidate
			entry.Similarity = sim
		}
	}

	logger.Warn("override matched no row", logger.Fields{
		"kind":       kind,
		"year":       year,
		"player":     player,
		"suggestion": entry.Suggestion,
	})
	return entry
}
