package deck

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rank is a top-four finishing position. The zero value is not a valid rank.
type Rank int

const (
	RankFirst Rank = iota + 1
	RankSecond
	RankThird
	RankFourth
)

// Ranks is the full categorical domain, in order.
var Ranks = []Rank{RankFirst, RankSecond, RankThird, RankFourth}

// ParseRank parses "1" through "4". Ties such as "3-4" and free-text
// categories are rejected.
func ParseRank(s string) (Rank, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return RankFirst, nil
	case "2":
		return RankSecond, nil
	case "3":
		return RankThird, nil
	case "4":
		return RankFourth, nil
	}
	return 0, fmt.Errorf("invalid rank %q: must be one of 1, 2, 3, 4", s)
}

// Valid reports whether r is one of the four levels.
func (r Rank) Valid() bool {
	return r >= RankFirst && r <= RankFourth
}

func (r Rank) String() string {
	return strconv.Itoa(int(r))
}

// MarshalJSON encodes the rank as its level label.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts both "2" and 2.
func (r *Rank) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseRank(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
