// Package model defines the two canonical record shapes every source format
// is normalized into before it reaches the index.
package model

// OwnerType classifies a mark owner inferred from the owner name.
type OwnerType string

const (
	OwnerCompany           OwnerType = "company"
	OwnerIndividualOrOther OwnerType = "individual_or_other"
	OwnerUnknown           OwnerType = "unknown"
)

// Country is the closed region taxonomy used by the index and the query
// engine. Source files carry office codes and free-text country names; both
// are folded into one of these four values during ingestion.
const (
	CountryUK  = "United Kingdom"
	CountryEU  = "European Union"
	CountryUS  = "United States"
	CountryRoW = "Rest of World"
)

// Mark is a trademark registration. RegNo is the natural key: ingestion is
// idempotent per RegNo, with the earliest-ingested record winning.
//
// Date fields hold either a strict YYYY-MM-DD string or the source's original
// unparsed value; dates are never invented.
type Mark struct {
	RegNo         string    `db:"reg_no"`
	MarkText      string    `db:"mark_text"`
	MarkTextNorm  string    `db:"mark_text_norm"`
	OwnerName     string    `db:"owner_name"`
	OwnerType     OwnerType `db:"owner_type"`
	Country       string    `db:"country"`
	Status        string    `db:"status"`
	Category      string    `db:"category"`
	MarkType      string    `db:"mark_type"`
	Filed         string    `db:"filed"`
	Published     string    `db:"published"`
	Registered    string    `db:"registered"`
	Expired       string    `db:"expired"`
	RenewalDue    string    `db:"renewal_due"`
	ClassCodes    string    `db:"class_codes"` // comma-joined numeric Nice classes
	GoodsServices string    `db:"goods_services"`
	SourceFile    string    `db:"source_file"`
}

// Patent is a patent application/grant record. Application and publication
// numbers are not guaranteed unique across offices, so patents carry no
// dedup constraint.
type Patent struct {
	ApplicationNumber   string `db:"application_number"`
	PublicationNumber   string `db:"publication_number"`
	Ipsum               string `db:"ipsum"` // free-form cross-reference from the source export
	EarliestFilingDate  string `db:"earliest_filing_date"`
	FilingDate          string `db:"filing_date"`
	LodgedDate          string `db:"lodged_date"`
	PublicationADate    string `db:"publication_a_date"`
	PublicationBDate    string `db:"publication_b_date"`
	ApplicantName       string `db:"applicant_name"`
	ApplicantCountryCode string `db:"applicant_country_code"`
	ApplicantPostcode   string `db:"applicant_postcode"`
	ApplicantCounty     string `db:"applicant_county"`
	ApplicantRegion     string `db:"applicant_region"`
	ApplicantCountry    string `db:"applicant_country"`
	IPC7                string `db:"ipc7"`
	IPC8                string `db:"ipc8"`
	PCTFilingDate       string `db:"pct_filing_date"`
	PCTPublicationDate  string `db:"pct_publication_date"`
	LastRenewalDate     string `db:"last_renewal_date"`
	LastAnnuityYear     string `db:"last_annuity_year"`
	DateNotInForce      string `db:"date_not_in_force"`
	ReasonNotInForce    string `db:"reason_not_in_force"`
	Status              string `db:"status"`
	SourceFile          string `db:"source_file"`
}
