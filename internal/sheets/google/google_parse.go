package google

import (
	"fmt"
	"strconv"
	"strings"

	"finanse/internal/core"
)

func toRow(t core.Transaction) []any {
	return []any{t.ID, t.Date, t.Type.String(), t.Category, t.Amount}
}

// parseIDs collects the numeric ids of a single-column value matrix.
// Blank cells and anything that is not an integer are skipped.
func parseIDs(values [][]any) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(row[0]))
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Sheets may render large integers as floats ("12.0").
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int64(f)) {
				continue
			}
			id = int64(f)
		}
		ids[id] = struct{}{}
	}
	return ids
}
