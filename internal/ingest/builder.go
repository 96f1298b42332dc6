package ingest

import (
	"github.com/joelkehle/markcheck/internal/model"
	"github.com/joelkehle/markcheck/internal/normalize"
)

// Record builders map each format's raw rows, keyed by that source's own
// header vocabulary, onto the canonical record types.

// BuildMarkFromExport maps one pipe-delimited export row to a Mark.
func BuildMarkFromExport(row RawRow, sourceFile string) model.Mark {
	markText := row.Get("Mark Text")
	ownerName := row.Get("Name")
	return model.Mark{
		RegNo:        row.Get(colRegNo),
		MarkText:     markText,
		MarkTextNorm: normalize.Text(markText),
		OwnerName:    ownerName,
		OwnerType:    normalize.InferOwnerType(ownerName),
		Country:      row.Get("Country"),
		Status:       row.Get("Status"),
		Category:     row.Get("Category of Mark"),
		MarkType:     row.Get("Mark Type"),
		Filed:        normalize.ParseDate(row.Get("Filed")),
		Published:    normalize.ParseDate(row.Get("Published")),
		Registered:   normalize.ParseDate(row.Get("Registered")),
		Expired:      normalize.ParseDate(row.Get("Expired")),
		RenewalDue:   normalize.ParseDate(row.Get("Renewal Due Date")),
		ClassCodes:   normalize.ClassCodesFromColumns(row.Header().Names, row.Fields()),
		SourceFile:   sourceFile,
	}
}

// BuildPatentFromSpreadsheet maps one spreadsheet row to a Patent. Date
// columns arrive as spreadsheet numeric serials and are converted to ISO.
func BuildPatentFromSpreadsheet(row RawRow, sourceFile string) model.Patent {
	get := func(key string) string {
		return normalize.CleanCell(row.Get(key))
	}
	return model.Patent{
		ApplicationNumber:    get("Application number"),
		PublicationNumber:    get("Publication number"),
		Ipsum:                get("IPSUM"),
		EarliestFilingDate:   normalize.ExcelSerial(get("Earliest filing date")),
		FilingDate:           normalize.ExcelSerial(get("Filing date")),
		LodgedDate:           normalize.ExcelSerial(get("Lodged date")),
		PublicationADate:     normalize.ExcelSerial(get("A publication date")),
		PublicationBDate:     normalize.ExcelSerial(get("B publication date")),
		ApplicantName:        get("Applicant name"),
		ApplicantCountryCode: get("Applicant Country code"),
		ApplicantPostcode:    get("Applicant postcode"),
		ApplicantCounty:      get("Applicant county"),
		ApplicantRegion:      get("Applicant region"),
		ApplicantCountry:     get("Applicant country"),
		IPC7:                 get("IPC7"),
		IPC8:                 get("IPC8"),
		PCTFilingDate:        normalize.ExcelSerial(get("PCT filing date")),
		PCTPublicationDate:   normalize.ExcelSerial(get("PCT publication date")),
		LastRenewalDate:      normalize.ExcelSerial(get("Last renewal date")),
		LastAnnuityYear:      get("Last annuity year"),
		DateNotInForce:       normalize.ExcelSerial(get("Date not in force")),
		ReasonNotInForce:     get("Reason not in force"),
		Status:               get("Status"),
		SourceFile:           sourceFile,
	}
}
