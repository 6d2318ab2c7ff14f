package google

import (
	"testing"

	"finanse/internal/core"
)

func TestParseIDs(t *testing.T) {
	values := [][]any{
		{"1"},
		{float64(2)},
		{},
		{"  "},
		{"3.0"},
		{"3.5"},
		{"abc"},
		{"1"},
	}

	ids := parseIDs(values)
	for _, want := range []int64{1, 2, 3} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing id %d", want)
		}
	}
	if len(ids) != 3 {
		t.Errorf("got %d ids, want 3: %v", len(ids), ids)
	}
}

func TestToRow(t *testing.T) {
	row := toRow(core.Transaction{ID: 4, Type: core.Income, Category: "Salary", Amount: 4500, Date: "2025-05-01"})
	if len(row) != len(Header) {
		t.Fatalf("row has %d cells, header %d", len(row), len(Header))
	}
	if row[0] != int64(4) || row[1] != "2025-05-01" || row[2] != "Income" || row[3] != "Salary" || row[4] != 4500.0 {
		t.Errorf("row = %v", row)
	}
}
