package types

// History maps a field key to the values previously committed in fields
// sharing that key. Order is insertion order.
type History map[string][]string

// Clone returns a deep copy of the history.
func (h History) Clone() History {
	out := make(History, len(h))
	for key, values := range h {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// Count returns the total number of stored values across all keys.
func (h History) Count() int {
	total := 0
	for _, values := range h {
		total += len(values)
	}
	return total
}

// ConfigEntry represents a config key/value pair.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HistoryEntry is the JSON shape used by `recall history list --json`.
type HistoryEntry struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// SearchResult is the JSON shape used by `recall history search --json`.
type SearchResult struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// FieldValue is a submitted form field, as printed by `recall form`.
type FieldValue struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}
