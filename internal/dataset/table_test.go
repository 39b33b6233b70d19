package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("Player", "Rank", "LANDS")
	rows := [][]string{
		{"Jon Finkel", "3-4", "22"},
		{"Kai Budde", "1", ""},
		{"Zvi Mowshowitz", "Other", "24"},
	}
	for _, r := range rows {
		if err := tbl.AppendValues(r...); err != nil {
			t.Fatalf("AppendValues() error = %v", err)
		}
	}
	return tbl
}

func TestTable_AppendNamedAddsColumns(t *testing.T) {
	tbl := New("Deck")
	if err := tbl.AppendNamed([]string{"Deck", "LANDS"}, []string{"Tinker", "20"}); err != nil {
		t.Fatalf("AppendNamed() error = %v", err)
	}
	if err := tbl.AppendNamed([]string{"LANDS_(27)"}, []string{"24"}); err != nil {
		t.Fatalf("AppendNamed() error = %v", err)
	}

	if diff := cmp.Diff([]string{"Deck", "LANDS", "LANDS_(27)"}, tbl.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Tinker", "20", Missing}, tbl.Row(0)); diff != "" {
		t.Errorf("Row(0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{Missing, Missing, "24"}, tbl.Row(1)); diff != "" {
		t.Errorf("Row(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_AppendValuesLengthCheck(t *testing.T) {
	tbl := New("A", "B")
	err := tbl.AppendValues("only one")
	if !errors.Is(err, ErrRowCountMismatch) {
		t.Errorf("AppendValues() error = %v, want ErrRowCountMismatch", err)
	}
}

func TestTable_Filter(t *testing.T) {
	tbl := sampleTable(t)

	removed := tbl.Filter(func(i int) bool {
		return tbl.Get(i, "Rank") != "Other"
	})

	if removed != 1 {
		t.Errorf("Filter() removed %d, want 1", removed)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if tbl.Get(1, "Player") != "Kai Budde" {
		t.Errorf("row 1 player = %q, want Kai Budde", tbl.Get(1, "Player"))
	}
}

func TestTable_DropAndRename(t *testing.T) {
	tbl := sampleTable(t)

	tbl.Drop("Rank", "NotAColumn")
	if err := tbl.Rename(map[string]string{"LANDS": "Lands"}); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	if diff := cmp.Diff([]string{"Player", "Lands"}, tbl.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
	if tbl.Get(2, "Lands") != "24" {
		t.Errorf("Get(2, Lands) = %q, want 24", tbl.Get(2, "Lands"))
	}

	err := tbl.Rename(map[string]string{"Lands": "Player"})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("Rename() onto existing column error = %v, want ErrDuplicateColumn", err)
	}
}

func TestTable_Select(t *testing.T) {
	tbl := sampleTable(t)

	sel, err := tbl.Select("LANDS", "Player")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if diff := cmp.Diff([]string{"22", "Jon Finkel"}, sel.Row(0)); diff != "" {
		t.Errorf("Row(0) mismatch (-want +got):\n%s", diff)
	}

	if _, err := tbl.Select("Creatures"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Select(unknown) error = %v, want ErrUnknownColumn", err)
	}
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl := sampleTable(t)
	clone := tbl.Clone()

	clone.Set(0, "Rank", "3")

	if tbl.Get(0, "Rank") != "3-4" {
		t.Errorf("original changed through clone: %q", tbl.Get(0, "Rank"))
	}
}

func TestHConcat(t *testing.T) {
	left := New("Player")
	right := New("LANDS")
	_ = left.AppendValues("Kai Budde")
	_ = right.AppendValues("17")

	out, err := HConcat(left, right)
	if err != nil {
		t.Fatalf("HConcat() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Kai Budde", "17"}, out.Row(0)); diff != "" {
		t.Errorf("Row(0) mismatch (-want +got):\n%s", diff)
	}

	_ = left.AppendValues("Jon Finkel")
	if _, err := HConcat(left, right); !errors.Is(err, ErrRowCountMismatch) {
		t.Errorf("HConcat() uneven error = %v, want ErrRowCountMismatch", err)
	}

	if _, err := HConcat(left, left); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("HConcat() duplicate error = %v, want ErrDuplicateColumn", err)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	tbl := sampleTable(t)
	tbl.Set(1, "Player", `Kai "The Juggernaut" Budde, Jr.`)

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if diff := cmp.Diff(tbl.Columns(), back.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i < tbl.Len(); i++ {
		if diff := cmp.Diff(tbl.Row(i), back.Row(i)); diff != "" {
			t.Errorf("Row(%d) mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"duplicate header", "A,A\n1,2\n"},
		{"ragged record", "A,B\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadCSV() expected error, got nil")
			}
		})
	}
}
