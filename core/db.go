package core

import "strings"

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// CleanOrderings drops orderings on fields missing from allowed and maps the remaining ones
// to their column names. allowed maps public field names to columns.
func CleanOrderings(orderings []DBOrdering, allowed map[string]string) []DBOrdering {
	cleaned := make([]DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		col, ok := allowed[strings.ToLower(ord.Field)]
		if !ok {
			continue
		}
		cleaned = append(cleaned, DBOrdering{Field: col, Ascending: ord.Ascending})
	}
	return cleaned
}
