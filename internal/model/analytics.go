package model

// ClientCount is one entry of the per-client grouping.
type ClientCount struct {
	Client string `json:"client" yaml:"client"`
	Count  int    `json:"count" yaml:"count"`
}

// StatusCount is one entry of the per-status grouping.
type StatusCount struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count"`
}

// CategoryCount is one entry of the per-category grouping.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// TimePoint is a monthly bucket keyed "YYYY-MM".
type TimePoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// TopClient is a per-client quality rollup.
type TopClient struct {
	Client       string `json:"client" yaml:"client"`
	QualityLeads int    `json:"qualityLeads" yaml:"quality_leads"`
	TotalLeads   int    `json:"totalLeads" yaml:"total_leads"`
	Percentage   int    `json:"percentage" yaml:"percentage"`
}

// WindowMetrics are the time-window figures computed against a clock.
type WindowMetrics struct {
	MeetingReadyLast24h              int      `json:"meetingReadyLast24h" yaml:"meeting_ready_last_24h"`
	MeetingReadyWithoutStatus        int      `json:"meetingReadyWithoutStatus" yaml:"meeting_ready_without_status"`
	MeetingReadyWithoutStatusTotal   int      `json:"meetingReadyWithoutStatusTotal" yaml:"meeting_ready_without_status_total"`
	ClientsWithoutRecentMeetingReady []string `json:"clientsWithoutRecentMeetingReady" yaml:"clients_without_recent_meeting_ready"`
}

// DashboardAnalytics is the snapshot rendered by the dashboard.
type DashboardAnalytics struct {
	TotalLeads            int `json:"totalLeads" yaml:"total_leads"`
	QualityLeads          int `json:"qualityLeads" yaml:"quality_leads"`
	NotQualityLeads       int `json:"notQualityLeads" yaml:"not_quality_leads"`
	UndeterminedLeads     int `json:"undeterminedLeads" yaml:"undetermined_leads"`
	LeadNotReceived       int `json:"leadNotReceived" yaml:"lead_not_received"`
	Duplicated            int `json:"duplicated" yaml:"duplicated"`
	QualityLeadPercentage int `json:"qualityLeadPercentage" yaml:"quality_lead_percentage"`
	MeetingReadyLeads     int `json:"meetingReadyLeads" yaml:"meeting_ready_leads"`
	InterestedLeads       int `json:"interestedLeads" yaml:"interested_leads"`

	WindowMetrics `yaml:",inline"`

	LeadsByClient   []ClientCount   `json:"leadsByClient" yaml:"leads_by_client"`
	LeadsByStatus   []StatusCount   `json:"leadsByStatus" yaml:"leads_by_status"`
	LeadsByCategory []CategoryCount `json:"leadsByCategory" yaml:"leads_by_category"`
	LeadsOverTime   []TimePoint     `json:"leadsOverTime" yaml:"leads_over_time"`
	TopClients      []TopClient     `json:"topClients" yaml:"top_clients"`
}

// ClientSummary is one row of the client directory.
type ClientSummary struct {
	ClientTag         string `json:"clientTag" yaml:"client_tag"`
	Sheets            int    `json:"sheets" yaml:"sheets"`
	TotalLeads        int    `json:"totalLeads" yaml:"total_leads"`
	QualityLeads      int    `json:"qualityLeads" yaml:"quality_leads"`
	QualityPercentage int    `json:"qualityPercentage" yaml:"quality_percentage"`
}
