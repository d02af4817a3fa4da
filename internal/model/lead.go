package model

// LeadStatus is the raw status cell of a lead. Multi-select cells hold
// several comma-joined labels.
type LeadStatus string

// Canonical status labels.
const (
	StatusQualityLead     = "Quality Lead"
	StatusNotQualityLead  = "Not a Quality Lead"
	StatusLeadNotReceived = "Lead not Received"
	StatusDuplicated      = "Duplicated"
	StatusUndetermined    = "Undetermined"
)

// DefaultSheetTab is the tab read when a tracked sheet does not name one.
const DefaultSheetTab = "Leads"

// Lead is the canonical record built from one spreadsheet row.
type Lead struct {
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Company             string     `json:"company"`
	TimeWeGotReply      string     `json:"timeWeGotReply"`
	ReplyTime           string     `json:"replyTime"`
	City                string     `json:"city"`
	Address             string     `json:"address"`
	GoogleMapsURL       string     `json:"googleMapsUrl"`
	State               string     `json:"state"`
	Phone               string     `json:"phone"`
	CurrentCategory     string     `json:"currentCategory"`
	ClientTag           string     `json:"clientTag"`
	SenderEmail         string     `json:"senderEmail"`
	ReplyContent        string     `json:"replyContent"`
	ProspectCCEmail     string     `json:"prospectCcEmail"`
	OurLastReply        string     `json:"ourLastReply"`
	CCEmail1            string     `json:"ccEmail1"`
	CCEmail2            string     `json:"ccEmail2"`
	DuplicateCheck      string     `json:"duplicateCheck"`
	Status              LeadStatus `json:"status"`
	Notes               string     `json:"notes"`
	AttemptCount        string     `json:"attemptCount"`
	QualityLeadCriteria string     `json:"qualityLeadCriteria"`
	SheetID             string     `json:"sheetId"`
	SheetName           string     `json:"sheetName"`
}
