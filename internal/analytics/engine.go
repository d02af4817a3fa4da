// Package analytics computes dashboard snapshots from canonical leads. Every
// function here is pure: no I/O, no shared state, inputs are never mutated.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/leadtrack/internal/leads"
	"github.com/sells-group/leadtrack/internal/model"
)

// TopClientLimit caps the topClients rollup.
const TopClientLimit = 10

// counter tallies keys while remembering first-encounter order, so ties in
// the sorted output fall back to input order.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

type keyCount struct {
	key   string
	count int
}

// sorted returns the tallies by count descending, ties in encounter order,
// skipping keys rejected by keep.
func (c *counter) sorted(keep func(string) bool) []keyCount {
	out := make([]keyCount, 0, len(c.keys))
	for _, k := range c.keys {
		if keep(k) {
			out = append(out, keyCount{key: k, count: c.counts[k]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	return out
}

// groupable drops the blank and "Unknown" buckets from grouped output.
func groupable(k string) bool {
	return k != "" && k != "Unknown"
}

// Percent returns round(part/total*100), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// FilterClient returns the leads whose client tag equals tag exactly. An
// empty tag returns the input unchanged.
func FilterClient(in []model.Lead, tag string) []model.Lead {
	if tag == "" {
		return in
	}
	out := make([]model.Lead, 0, len(in))
	for _, l := range in {
		if l.ClientTag == tag {
			out = append(out, l)
		}
	}
	return out
}

// Compute builds the clock-independent part of a snapshot. When clientTag is
// set, only leads with exactly that tag are considered. Window metrics are
// left zeroed; see ComputeWindow and Engine.
func Compute(in []model.Lead, clientTag string) model.DashboardAnalytics {
	filtered := FilterClient(in, clientTag)

	snap := model.DashboardAnalytics{
		TotalLeads: len(filtered),
		WindowMetrics: model.WindowMetrics{
			ClientsWithoutRecentMeetingReady: []string{},
		},
	}

	byStatus := newCounter()
	byCategory := newCounter()
	byClient := newCounter()
	rawQuality := make(map[string]int)

	for _, l := range filtered {
		status := leads.NormalizeStatus(string(l.Status))
		switch status {
		case model.StatusQualityLead:
			snap.QualityLeads++
		case model.StatusNotQualityLead:
			snap.NotQualityLeads++
		case model.StatusUndetermined:
			snap.UndeterminedLeads++
		case model.StatusLeadNotReceived:
			snap.LeadNotReceived++
		case model.StatusDuplicated:
			snap.Duplicated++
		}
		byStatus.add(status)

		if leads.IsMeetingReady(l.CurrentCategory) {
			snap.MeetingReadyLeads++
		}
		if leads.IsInterested(l.CurrentCategory) {
			snap.InterestedLeads++
		}
		byCategory.add(l.CurrentCategory)

		// Grouped on the tag as written. Clients trims, so " Acme" and
		// "Acme" are two rows here and one in the directory.
		byClient.add(l.ClientTag)
		if leads.IsRawQualityLead(l.Status) {
			rawQuality[l.ClientTag]++
		}
	}

	snap.QualityLeadPercentage = Percent(snap.QualityLeads, snap.TotalLeads)

	snap.LeadsByStatus = make([]model.StatusCount, 0, len(byStatus.keys))
	for _, kc := range byStatus.sorted(groupable) {
		snap.LeadsByStatus = append(snap.LeadsByStatus, model.StatusCount{Status: kc.key, Count: kc.count})
	}

	snap.LeadsByCategory = make([]model.CategoryCount, 0, len(byCategory.keys))
	for _, kc := range byCategory.sorted(groupable) {
		snap.LeadsByCategory = append(snap.LeadsByCategory, model.CategoryCount{Category: kc.key, Count: kc.count})
	}

	clients := byClient.sorted(func(k string) bool { return groupable(k) && leads.IsValidClientTag(k) })
	snap.LeadsByClient = make([]model.ClientCount, 0, len(clients))
	for _, kc := range clients {
		snap.LeadsByClient = append(snap.LeadsByClient, model.ClientCount{Client: kc.key, Count: kc.count})
	}
	snap.TopClients = topClients(clients, rawQuality)

	snap.LeadsOverTime = TimeSeries(filtered)
	return snap
}

// topClients ranks clients by total leads. Quality here is the raw
// single-value "quality lead" tag, not the normalized label used for the
// global count; dashboards rely on the difference.
func topClients(clients []keyCount, rawQuality map[string]int) []model.TopClient {
	out := make([]model.TopClient, 0, min(len(clients), TopClientLimit))
	for _, kc := range clients {
		q := rawQuality[kc.key]
		out = append(out, model.TopClient{
			Client:       kc.key,
			QualityLeads: q,
			TotalLeads:   kc.count,
			Percentage:   Percent(q, kc.count),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalLeads > out[j].TotalLeads })
	if len(out) > TopClientLimit {
		out = out[:TopClientLimit]
	}
	return out
}

// TimeSeries counts leads per reply month, ascending. Leads without a
// parseable reply date are left out.
func TimeSeries(in []model.Lead) []model.TimePoint {
	byMonth := make(map[string]int)
	for _, l := range in {
		t, ok := ReplyDate(l)
		if !ok {
			continue
		}
		byMonth[monthKey(t)]++
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.TimePoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.TimePoint{Date: k, Count: byMonth[k]})
	}
	return out
}

// Engine combines Compute with the clock-dependent window metrics.
type Engine struct {
	now         func() time.Time
	staleWindow time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithStaleWindow overrides the trailing window used for stale clients.
func WithStaleWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.staleWindow = d
		}
	}
}

// NewEngine creates an Engine using the wall clock and DefaultStaleWindow.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, staleWindow: DefaultStaleWindow}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Snapshot computes the full dashboard snapshot for the leads, optionally
// scoped to one client tag.
func (e *Engine) Snapshot(in []model.Lead, clientTag string) model.DashboardAnalytics {
	snap := Compute(in, clientTag)
	snap.WindowMetrics = ComputeWindow(FilterClient(in, clientTag), e.now(), e.staleWindow)
	return snap
}
