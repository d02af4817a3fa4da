package leads

import (
	"strings"

	"github.com/sells-group/leadtrack/internal/model"
)

type statusPattern struct {
	pattern string
	label   string
}

// knownStatuses is matched in order against trimmed, lowercased text.
var knownStatuses = []statusPattern{
	{"quality lead", model.StatusQualityLead},
	{"not a quality lead", model.StatusNotQualityLead},
	{"lead not received", model.StatusLeadNotReceived},
	{"duplicated", model.StatusDuplicated},
	{"duplicate", model.StatusDuplicated},
	{"duplicate.", model.StatusDuplicated},
	{"undetermined", model.StatusUndetermined},
}

func resolveStatus(lower string) (string, bool) {
	for _, p := range knownStatuses {
		if lower == p.pattern {
			return p.label, true
		}
	}
	return "", false
}

// NormalizeStatus resolves raw status text to a canonical label.
//
// A single known value maps directly. A comma-joined multi-select value maps
// to its one recognized label, or, when several are recognized, to the
// first label that is not "Quality Lead": a lead tagged both quality and
// anything else is not a clean quality lead. Text with no recognized part
// is returned trimmed but otherwise unchanged. Blank input returns "".
func NormalizeStatus(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if label, ok := resolveStatus(strings.ToLower(s)); ok {
		return label
	}

	var recognized []string
	for _, part := range strings.Split(s, ",") {
		if label, ok := resolveStatus(strings.ToLower(strings.TrimSpace(part))); ok {
			recognized = append(recognized, label)
		}
	}

	switch len(recognized) {
	case 0:
		return s
	case 1:
		return recognized[0]
	}
	for _, label := range recognized {
		if label != model.StatusQualityLead {
			return label
		}
	}
	return recognized[0]
}

// IsRawQualityLead reports whether the unnormalized status is exactly
// "quality lead" (trimmed, case-insensitive). Multi-select values never
// match. Per-client rollups count quality this way; global counts use
// NormalizeStatus instead.
func IsRawQualityLead(status model.LeadStatus) bool {
	return strings.ToLower(strings.TrimSpace(string(status))) == "quality lead"
}
