package toon

// ArrayStats describes one top-level array.
type ArrayStats struct {
	Count  int      `json:"count"`
	Fields []string `json:"fields"`
}

// Stats summarizes the top-level arrays of a document.
type Stats struct {
	Arrays      map[string]ArrayStats `json:"arrays"`
	TotalArrays int                   `json:"total_arrays"`
	TotalItems  int                   `json:"total_items"`
}

// Inspect collects statistics over the arrays stored directly under the
// root object of v. Fields lists the keys of the first element when it is
// an object.
func Inspect(v Value) Stats {
	st := Stats{Arrays: make(map[string]ArrayStats)}
	for _, m := range v.members {
		if m.Value.kind != KindArray {
			continue
		}
		as := ArrayStats{Count: len(m.Value.items), Fields: []string{}}
		if as.Count > 0 && m.Value.items[0].kind == KindObject {
			as.Fields = m.Value.items[0].Keys()
		}
		st.Arrays[m.Key] = as
		st.TotalArrays++
		st.TotalItems += as.Count
	}
	return st
}
