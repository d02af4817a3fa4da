package analytics

import (
	"strings"
	"time"

	"github.com/sells-group/leadtrack/internal/leads"
	"github.com/sells-group/leadtrack/internal/model"
)

// PST is the fixed UTC-8 wall clock the delivery metrics are reported in.
// It never observes daylight saving.
var PST = time.FixedZone("PST", -8*60*60)

// DefaultStaleWindow is how long a client may go without a meeting-ready
// arrival before it is flagged.
const DefaultStaleWindow = 4 * 24 * time.Hour

const dayWindow = 24 * time.Hour

// within reports whether t falls in (now-d, now].
func within(t, now time.Time, d time.Duration) bool {
	return t.After(now.Add(-d)) && !t.After(now)
}

// ComputeWindow derives the meeting-ready delivery metrics relative to now.
// Now and each reply date are taken on the PST clock. Reply text without an
// offset resolves the same way ReplyDate resolves it for TimeSeries, as UTC,
// so a lead lands on one instant across the whole snapshot.
//
//   - MeetingReadyLast24h: meeting-ready leads whose reply date is in the
//     24 hours up to now.
//   - MeetingReadyWithoutStatus: those same leads with a blank raw status.
//   - MeetingReadyWithoutStatusTotal: every meeting-ready lead with a blank
//     raw status, regardless of date.
//   - ClientsWithoutRecentMeetingReady: valid client tags, in encounter
//     order, with no meeting-ready arrival inside staleWindow.
func ComputeWindow(in []model.Lead, now time.Time, staleWindow time.Duration) model.WindowMetrics {
	if staleWindow <= 0 {
		staleWindow = DefaultStaleWindow
	}
	now = now.In(PST)

	m := model.WindowMetrics{ClientsWithoutRecentMeetingReady: []string{}}

	var clients []string
	seen := make(map[string]bool)

	for _, l := range in {
		if leads.IsValidClientTag(l.ClientTag) {
			if _, ok := seen[l.ClientTag]; !ok {
				seen[l.ClientTag] = false
				clients = append(clients, l.ClientTag)
			}
		}

		if !leads.IsMeetingReady(l.CurrentCategory) {
			continue
		}
		blank := strings.TrimSpace(string(l.Status)) == ""
		if blank {
			m.MeetingReadyWithoutStatusTotal++
		}

		replied, ok := ReplyDate(l)
		if !ok {
			continue
		}
		replied = replied.In(PST)

		if within(replied, now, dayWindow) {
			m.MeetingReadyLast24h++
			if blank {
				m.MeetingReadyWithoutStatus++
			}
		}
		if within(replied, now, staleWindow) && leads.IsValidClientTag(l.ClientTag) {
			seen[l.ClientTag] = true
		}
	}

	for _, c := range clients {
		if !seen[c] {
			m.ClientsWithoutRecentMeetingReady = append(m.ClientsWithoutRecentMeetingReady, c)
		}
	}
	return m
}
