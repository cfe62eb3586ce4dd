package element

import "strings"

// PrefixRule maps a satellite-name prefix to a constellation tag.
type PrefixRule struct {
	Prefix string
	Tag    string
}

// ConstellationMap resolves a satellite's constellation tag at the loading
// boundary. The explicit per-ID mapping from the run configuration always
// wins; name-prefix rules are a documented fallback for catalogs that ship
// without one. Unresolvable satellites get an empty tag and fail loudly
// later, in the feasibility stage — never a silent default threshold.
type ConstellationMap struct {
	ByID     map[int]string
	ByPrefix []PrefixRule
}

// Resolve returns the constellation tag for a satellite, or "" when neither
// the explicit mapping nor a prefix rule covers it.
func (m *ConstellationMap) Resolve(noradID int, name string) string {
	if m == nil {
		return ""
	}
	if tag, ok := m.ByID[noradID]; ok {
		return strings.ToLower(tag)
	}
	upper := strings.ToUpper(name)
	for _, rule := range m.ByPrefix {
		if strings.HasPrefix(upper, strings.ToUpper(rule.Prefix)) {
			return strings.ToLower(rule.Tag)
		}
	}
	return ""
}
