package search

import (
	"sort"
	"strings"
	"time"

	"github.com/joelkehle/markcheck/internal/model"
	"github.com/joelkehle/markcheck/internal/normalize"
)

// inactiveMarkStatuses end a mark's life outright regardless of dates.
var inactiveMarkStatuses = map[string]struct{}{
	"dead": {}, "expired": {}, "withdrawn": {}, "revoked": {}, "cancelled": {}, "removed": {},
}

// inactivePatentMarkers are matched as substrings of a patent status.
var inactivePatentMarkers = []string{"lapsed", "ceased", "withdrawn", "revoked"}

// MarkActive derives activity from status and expiry. A terminal status wins;
// otherwise an expiry date that parses and lies strictly before today (UTC)
// makes the mark inactive. Unparseable expiry dates are ignored rather than
// guessed at.
func MarkActive(status, expired string, now time.Time) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if _, dead := inactiveMarkStatuses[s]; dead {
		return false
	}
	if expired != "" {
		if exp, ok := normalize.ParseStrictDate(expired); ok {
			today := now.UTC().Truncate(24 * time.Hour)
			if exp.Before(today) {
				return false
			}
		}
	}
	return true
}

// PatentActive derives activity from the not-in-force triple: any recorded
// not-in-force date ends it, then terminal status substrings.
func PatentActive(status, dateNotInForce string) bool {
	if dateNotInForce != "" {
		return false
	}
	s := strings.ToLower(status)
	for _, marker := range inactivePatentMarkers {
		if strings.Contains(s, marker) {
			return false
		}
	}
	return true
}

// ClassifyRisk scores a ranked mark set. When classFilter is non-empty, only
// marks sharing at least one class code participate. Strong matches (active,
// similarity >= 0.92) are counted before medium matches (active, similarity
// in [0.85, 0.92)); a record contributes to at most one band and any strong
// match makes the tier high regardless of the medium count.
func ClassifyRisk(matches []MarkSummary, classFilter []string) string {
	filter := make(map[string]struct{}, len(classFilter))
	for _, c := range classFilter {
		filter[c] = struct{}{}
	}

	strong := 0
	medium := 0
	for _, m := range matches {
		if len(filter) > 0 && !overlapsClasses(m.ClassCodes, filter) {
			continue
		}
		switch {
		case m.Active && m.Similarity >= strongThreshold:
			strong++
		case m.Active && m.Similarity >= mediumThreshold:
			medium++
		}
	}

	if strong > 0 {
		return RiskHigh
	}
	if medium > 0 {
		return RiskMedium
	}
	return RiskLow
}

func overlapsClasses(codes []string, filter map[string]struct{}) bool {
	for _, c := range codes {
		if _, ok := filter[c]; ok {
			return true
		}
	}
	return false
}

// rankMarks orders summaries by (active, similarity) descending, active
// records before inactive regardless of similarity, and truncates to the
// display cap.
func rankMarks(matches []MarkSummary) []MarkSummary {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Active != matches[j].Active {
			return matches[i].Active
		}
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > DisplayCap {
		matches = matches[:DisplayCap]
	}
	return matches
}

func rankPatents(patents []PatentSummary) []PatentSummary {
	sort.SliceStable(patents, func(i, j int) bool {
		if patents[i].Active != patents[j].Active {
			return patents[i].Active
		}
		return patents[i].Similarity > patents[j].Similarity
	})
	if len(patents) > DisplayCap {
		patents = patents[:DisplayCap]
	}
	return patents
}

// summarizeMark scores one retrieved mark against the normalized query.
func summarizeMark(m model.Mark, termNorm string, now time.Time) MarkSummary {
	var classCodes []string
	if m.ClassCodes != "" {
		classCodes = strings.Split(m.ClassCodes, ",")
	}
	summary := MarkSummary{
		RegNo:         m.RegNo,
		MarkText:      m.MarkText,
		OwnerName:     m.OwnerName,
		OwnerType:     string(m.OwnerType),
		Country:       m.Country,
		Status:        m.Status,
		Category:      m.Category,
		MarkType:      m.MarkType,
		Filed:         m.Filed,
		Registered:    m.Registered,
		Expired:       m.Expired,
		RenewalDue:    m.RenewalDue,
		Active:        MarkActive(m.Status, m.Expired, now),
		ClassCodes:    classCodes,
		GoodsServices: m.GoodsServices,
		Similarity:    round4(Similarity(termNorm, normalize.Text(m.MarkText))),
	}
	if years, ok := normalize.YearsSince(m.Filed, now); ok {
		summary.AgeYears = &years
	}
	return summary
}

// legalFormTokens are trailing applicant-name tokens that carry no
// distinctiveness and are dropped before scoring.
var legalFormTokens = map[string]struct{}{
	"ltd": {}, "limited": {}, "llc": {}, "inc": {}, "corp": {},
	"gmbh": {}, "plc": {}, "llp": {}, "co": {},
}

// applicantComparable normalizes an applicant name and strips trailing
// legal-form tokens, so "Acme Robotics Ltd" scores as "acme robotics".
func applicantComparable(name string) string {
	tokens := strings.Fields(normalize.Text(name))
	for len(tokens) > 1 {
		if _, ok := legalFormTokens[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// summarizePatent scores one retrieved patent; similarity is computed against
// the applicant name minus its legal-form suffix.
func summarizePatent(p model.Patent, termNorm string, now time.Time) PatentSummary {
	sim := 0.0
	if p.ApplicantName != "" {
		sim = Similarity(termNorm, applicantComparable(p.ApplicantName))
	}
	applicantCountry := p.ApplicantCountry
	if applicantCountry == "" {
		applicantCountry = p.ApplicantCountryCode
	}
	summary := PatentSummary{
		ApplicationNumber: p.ApplicationNumber,
		PublicationNumber: p.PublicationNumber,
		ApplicantName:     p.ApplicantName,
		ApplicantCountry:  applicantCountry,
		IPC7:              p.IPC7,
		IPC8:              p.IPC8,
		Status:            p.Status,
		FilingDate:        p.FilingDate,
		EarliestFiling:    p.EarliestFilingDate,
		PublicationADate:  p.PublicationADate,
		PublicationBDate:  p.PublicationBDate,
		LastRenewalDate:   p.LastRenewalDate,
		DateNotInForce:    p.DateNotInForce,
		ReasonNotInForce:  p.ReasonNotInForce,
		Active:            PatentActive(p.Status, p.DateNotInForce),
		Similarity:        round4(sim),
	}
	if years, ok := normalize.YearsSince(p.FilingDate, now); ok {
		summary.AgeYears = &years
	}
	return summary
}

func round4(f float64) float64 {
	return float64(int(f*10000+0.5)) / 10000
}
