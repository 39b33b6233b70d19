package deck

import (
	"encoding/json"
	"testing"
)

func TestComposition_SetAndGet(t *testing.T) {
	var c Composition
	c.Set("LANDS", 24)
	c.Set("CREATURES", 16)
	c.Set("LANDS", 23)

	if got, ok := c.Get("LANDS"); !ok || got != 23 {
		t.Errorf("Get(LANDS) = %d, %v; want 23, true", got, ok)
	}
	if _, ok := c.Get("OTHER_SPELLS"); ok {
		t.Error("Get(OTHER_SPELLS) found a value that was never set")
	}

	labels := c.Labels()
	if len(labels) != 2 || labels[0] != "LANDS" || labels[1] != "CREATURES" {
		t.Errorf("Labels() = %v, want [LANDS CREATURES]", labels)
	}
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in      string
		want    Rank
		wantErr bool
	}{
		{"1", RankFirst, false},
		{"2", RankSecond, false},
		{" 3 ", RankThird, false},
		{"4", RankFourth, false},
		{"3-4", 0, true},
		{"5", 0, true},
		{"0", 0, true},
		{"+1", 0, true},
		{"03", 0, true},
		{"-2", 0, true},
		{"Other", 0, true},
		{"Day 1 undefeated", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRank(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRank(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRank(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRank_JSON(t *testing.T) {
	data, err := json.Marshal(RankThird)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"3"` {
		t.Errorf("Marshal(RankThird) = %s, want \"3\"", data)
	}

	var r Rank
	if err := json.Unmarshal([]byte(`4`), &r); err != nil {
		t.Fatalf("Unmarshal(4) error = %v", err)
	}
	if r != RankFourth {
		t.Errorf("Unmarshal(4) = %v, want 4", r)
	}
	if err := json.Unmarshal([]byte(`"7"`), &r); err == nil {
		t.Error("Unmarshal(\"7\") expected error")
	}
}

func TestRecord_Total(t *testing.T) {
	r := Record{Lands: 24, Creatures: 20, InstantsSorceries: 10, OtherSpells: 6}
	if r.Total() != 60 {
		t.Errorf("Total() = %d, want 60", r.Total())
	}
}
