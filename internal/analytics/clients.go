package analytics

import (
	"sort"
	"strings"

	"github.com/sells-group/leadtrack/internal/leads"
	"github.com/sells-group/leadtrack/internal/model"
)

// Clients builds the client directory. Tracked sheets seed an entry for
// each valid tag so clients with no leads still appear; leads are then
// tallied under their trimmed tag. Quality uses the raw single-value tag,
// matching topClients. Sorted by total leads descending, ties in encounter
// order.
func Clients(in []model.Lead, sheets []model.TrackedSheet) []model.ClientSummary {
	var order []string
	byTag := make(map[string]*model.ClientSummary)

	entry := func(tag string) *model.ClientSummary {
		if e, ok := byTag[tag]; ok {
			return e
		}
		e := &model.ClientSummary{ClientTag: tag}
		byTag[tag] = e
		order = append(order, tag)
		return e
	}

	for _, s := range sheets {
		tag := strings.TrimSpace(s.ClientTag)
		if !leads.IsValidClientTag(tag) {
			continue
		}
		entry(tag).Sheets++
	}

	for _, l := range in {
		tag := strings.TrimSpace(l.ClientTag)
		if !leads.IsValidClientTag(tag) {
			continue
		}
		e := entry(tag)
		e.TotalLeads++
		if leads.IsRawQualityLead(l.Status) {
			e.QualityLeads++
		}
	}

	out := make([]model.ClientSummary, 0, len(order))
	for _, tag := range order {
		e := byTag[tag]
		e.QualityPercentage = Percent(e.QualityLeads, e.TotalLeads)
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalLeads > out[j].TotalLeads })
	return out
}
