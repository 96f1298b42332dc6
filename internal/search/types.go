// Package search answers "does a similar mark already exist" queries against
// the published index: bounded two-tier retrieval, fuzzy similarity scoring,
// activity derivation, and aggregate risk classification.
package search

// Retrieval and display bounds. The caps plus the prefix minimum are the
// system's backpressure mechanism: they bound worst-case scan cost instead of
// imposing a deadline.
const (
	RetrievalCap    = 25 // per retrieval tier
	DisplayCap      = 50 // after scoring and ranking
	PrefixMinLength = 4  // shorter normalized queries skip the prefix tier
	QueryMinLength  = 3  // shorter raw queries are rejected outright

	strongThreshold = 0.92
	mediumThreshold = 0.85
)

// Risk tiers, most severe first.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// CheckRequest is a screening query as received from the shell.
type CheckRequest struct {
	Trademark      string
	Country        string
	Classes        string
	IncludePatents bool
}

// MarkSummary is one scored mark in a response.
type MarkSummary struct {
	RegNo         string   `json:"reg_no"`
	MarkText      string   `json:"mark_text"`
	OwnerName     string   `json:"owner_name"`
	OwnerType     string   `json:"owner_type"`
	Country       string   `json:"country"`
	Status        string   `json:"status"`
	Category      string   `json:"category"`
	MarkType      string   `json:"mark_type"`
	Filed         string   `json:"filed"`
	Registered    string   `json:"registered"`
	Expired       string   `json:"expired"`
	RenewalDue    string   `json:"renewal_due"`
	AgeYears      *int     `json:"age_years"`
	Active        bool     `json:"active"`
	ClassCodes    []string `json:"class_codes"`
	GoodsServices string   `json:"goods_services"`
	Similarity    float64  `json:"similarity"`
}

// PatentSummary is one scored patent in a response.
type PatentSummary struct {
	ApplicationNumber string  `json:"application_number"`
	PublicationNumber string  `json:"publication_number"`
	ApplicantName     string  `json:"applicant_name"`
	ApplicantCountry  string  `json:"applicant_country"`
	IPC7              string  `json:"ipc7"`
	IPC8              string  `json:"ipc8"`
	Status            string  `json:"status"`
	FilingDate        string  `json:"filing_date"`
	EarliestFiling    string  `json:"earliest_filing_date"`
	PublicationADate  string  `json:"publication_a_date"`
	PublicationBDate  string  `json:"publication_b_date"`
	LastRenewalDate   string  `json:"last_renewal_date"`
	DateNotInForce    string  `json:"date_not_in_force"`
	ReasonNotInForce  string  `json:"reason_not_in_force"`
	Active            bool    `json:"active"`
	AgeYears          *int    `json:"age_years"`
	Similarity        float64 `json:"similarity"`
}

// CheckResponse echoes the query and carries the classified result set.
type CheckResponse struct {
	Trademark    string          `json:"trademark"`
	Country      string          `json:"country"`
	Classes      []string        `json:"classes"`
	RiskLevel    string          `json:"risk_level"`
	MatchCount   int             `json:"match_count"`
	PatentCount  int             `json:"patent_count"`
	Notes        []string        `json:"notes"`
	SimilarMarks []MarkSummary   `json:"similar_marks"`
	Patents      []PatentSummary `json:"patents"`
}

// ResponseNotes are the fixed disclaimers attached to every response.
var ResponseNotes = []string{
	"Usage is inferred from status/expiry fields in the dataset; it is not verified market use.",
	"Owner business type is not provided by the dataset; owner_type is inferred from the owner name.",
	"Patent dates/status reflect the dataset and do not confirm current legal enforceability.",
}
