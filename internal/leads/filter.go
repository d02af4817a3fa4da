package leads

import (
	"strings"

	"github.com/sells-group/leadtrack/internal/model"
)

// Filter selects leads for the leads table. Empty fields match everything.
type Filter struct {
	// Query is a case-insensitive substring over name, email, company and
	// client tag.
	Query    string `json:"q,omitempty"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Client   string `json:"client,omitempty"`
	State    string `json:"state,omitempty"`
}

// IsZero reports whether the filter matches every lead.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match reports whether a lead satisfies every set criterion. Facets compare
// exactly against the raw cell value.
func (f Filter) Match(l model.Lead) bool {
	if f.Status != "" && string(l.Status) != f.Status {
		return false
	}
	if f.Category != "" && l.CurrentCategory != f.Category {
		return false
	}
	if f.Client != "" && l.ClientTag != f.Client {
		return false
	}
	if f.State != "" && l.State != f.State {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	for _, v := range []string{l.Name, l.Email, l.Company, l.ClientTag} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Apply returns the matching leads in input order. The input is not
// modified.
func (f Filter) Apply(in []model.Lead) []model.Lead {
	out := make([]model.Lead, 0, len(in))
	for _, l := range in {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// FacetValues lists the distinct non-empty values of each filterable column
// in encounter order.
type FacetValues struct {
	Statuses   []string `json:"statuses"`
	Categories []string `json:"categories"`
	Clients    []string `json:"clients"`
	States     []string `json:"states"`
}

// Facets collects the filter options present in a lead set.
func Facets(in []model.Lead) FacetValues {
	type set struct {
		seen map[string]struct{}
		out  []string
	}
	add := func(s *set, v string) {
		if v == "" {
			return
		}
		if _, ok := s.seen[v]; ok {
			return
		}
		s.seen[v] = struct{}{}
		s.out = append(s.out, v)
	}
	newSet := func() *set { return &set{seen: map[string]struct{}{}, out: []string{}} }

	statuses, categories, clients, states := newSet(), newSet(), newSet(), newSet()
	for _, l := range in {
		add(statuses, string(l.Status))
		add(categories, l.CurrentCategory)
		add(clients, l.ClientTag)
		add(states, l.State)
	}
	return FacetValues{
		Statuses:   statuses.out,
		Categories: categories.out,
		Clients:    clients.out,
		States:     states.out,
	}
}
