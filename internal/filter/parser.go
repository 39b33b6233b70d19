package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/mtg-worlds/internal/deck"
)

var yearRangePattern = regexp.MustCompile(`^(\d{4})?\s*(-)?\s*(\d{4})?$`)

// ParseYearRange parses a year range into inclusive bounds.
//
// Supported formats:
//   - "1997" - A single year
//   - "1994-2002" - Both bounds
//   - "2010-" - From 2010 on
//   - "-1999" - Up to 1999
//
// A zero bound means unbounded.
func ParseYearRange(input string) (from, to int, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, 0, fmt.Errorf("year range cannot be empty")
	}

	m := yearRangePattern.FindStringSubmatch(input)
	if m == nil || (m[1] == "" && m[3] == "") {
		return 0, 0, fmt.Errorf("invalid year range %q (use e.g. 1997, 1994-2002, 2010-)", input)
	}

	if m[1] != "" {
		from, _ = strconv.Atoi(m[1])
	}
	if m[3] != "" {
		to, _ = strconv.Atoi(m[3])
	}

	// Without a dash the single year is both bounds
	if m[2] == "" {
		if m[1] != "" && m[3] != "" {
			return 0, 0, fmt.Errorf("invalid year range %q", input)
		}
		if from == 0 {
			from = to
		}
		to = from
	}

	if from != 0 && to != 0 && from > to {
		return 0, 0, fmt.Errorf("year range %q ends before it starts", input)
	}
	return from, to, nil
}

// ParseRanks parses a comma-separated list of ranks such as "1,2".
func ParseRanks(input string) ([]deck.Rank, error) {
	var ranks []deck.Rank
	seen := make(map[deck.Rank]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := deck.ParseRank(part)
		if err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			ranks = append(ranks, r)
		}
	}
	if len(ranks) == 0 {
		return nil, fmt.Errorf("no ranks in %q", input)
	}
	return ranks, nil
}

// ParseList splits a comma-separated list, dropping empty entries.
func ParseList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
