package domain

import "sort"

// Assemble flattens per-file parts into rows sorted ascending by timestamp.
// The sort is stable: rows sharing a timestamp keep the order in which their
// parts were supplied. No parts, or only empty parts, yields an empty slice.
func Assemble(parts []Part) []Row {
	n := 0
	for _, p := range parts {
		n += len(p.Values)
	}
	rows := make([]Row, 0, n)
	for _, p := range parts {
		for i, v := range p.Values {
			if i >= len(p.Times) {
				break
			}
			rows = append(rows, Row{Timestamp: p.Times[i], Value: v, Selection: p.Selection})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows
}

// FilterMonth keeps rows whose calendar month equals month. Month 0 keeps all rows.
func FilterMonth(rows []Row, month int) []Row {
	if month == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Month() == month {
			out = append(out, r)
		}
	}
	return out
}
