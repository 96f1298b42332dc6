package search

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/joelkehle/markcheck/internal/index"
	"github.com/joelkehle/markcheck/internal/model"
	"github.com/joelkehle/markcheck/internal/normalize"
)

const markColumns = `reg_no, mark_text, mark_text_norm, owner_name, owner_type,
	country, status, category, mark_type,
	filed, published, registered, expired, renewal_due,
	class_codes, goods_services, source_file`

const patentColumns = `application_number, publication_number, ipsum,
	earliest_filing_date, filing_date, lodged_date,
	publication_a_date, publication_b_date,
	applicant_name, applicant_country_code, applicant_postcode,
	applicant_county, applicant_region, applicant_country,
	ipc7, ipc8, pct_filing_date, pct_publication_date,
	last_renewal_date, last_annuity_year, date_not_in_force,
	reason_not_in_force, status, source_file`

// Engine runs screening queries against the published index. Each query
// opens a fresh short-lived connection and releases it on every exit path.
type Engine struct {
	store *index.Store
	now   func() time.Time
}

// NewEngine returns an Engine over store. The now function defaults to
// time.Now and exists so tests can pin the clock.
func NewEngine(store *index.Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, now: now}
}

// Check validates the request, retrieves bounded candidate sets, scores
// them, and classifies aggregate risk.
func (e *Engine) Check(req CheckRequest) (*CheckResponse, error) {
	term := strings.TrimSpace(req.Trademark)
	country := strings.TrimSpace(req.Country)
	if term == "" {
		return nil, NewValidationError("Missing trademark")
	}
	if country == "" {
		return nil, NewValidationError("Missing country")
	}
	if utf8.RuneCountInString(term) < QueryMinLength {
		return nil, NewValidationError("Please enter at least 3 characters.")
	}

	classFilter := normalize.ParseClassList(req.Classes)
	termNorm := normalize.Text(term)
	countries := normalize.ResolveCountries(country)

	db, err := e.store.Open()
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	defer db.Close()

	available, err := e.store.CountryAvailable(db, countries)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}
	if !available {
		return nil, NewNoCoverageError("No records found for this country in the current index.")
	}

	marks, err := e.queryCandidates(db, termNorm, countries)
	if err != nil {
		return nil, NewInternalError(err.Error())
	}

	var patents []model.Patent
	if req.IncludePatents {
		patents, err = e.queryPatents(db, termNorm)
		if err != nil {
			return nil, NewInternalError(err.Error())
		}
	}

	now := e.now()
	matches := make([]MarkSummary, 0, len(marks))
	for _, m := range marks {
		matches = append(matches, summarizeMark(m, termNorm, now))
	}
	matches = rankMarks(matches)

	patentSummaries := make([]PatentSummary, 0, len(patents))
	for _, p := range patents {
		patentSummaries = append(patentSummaries, summarizePatent(p, termNorm, now))
	}
	patentSummaries = rankPatents(patentSummaries)

	return &CheckResponse{
		Trademark:    term,
		Country:      country,
		Classes:      classFilter,
		RiskLevel:    ClassifyRisk(matches, classFilter),
		MatchCount:   len(matches),
		PatentCount:  len(patentSummaries),
		Notes:        ResponseNotes,
		SimilarMarks: matches,
		Patents:      patentSummaries,
	}, nil
}

// queryCandidates retrieves marks in two tiers: exact normalized-text match,
// then prefix match for queries of at least four normalized characters.
// A non-empty exact tier short-circuits the prefix tier, and when both tiers
// are empty the result is empty; no broader scan is ever attempted, trading
// recall for bounded latency.
func (e *Engine) queryCandidates(db *sqlx.DB, termNorm string, countries []string) ([]model.Mark, error) {
	exact, err := e.selectMarks(db,
		"SELECT "+markColumns+" FROM marks WHERE country IN (?) AND mark_text_norm = ? LIMIT ?",
		countries, termNorm)
	if err != nil {
		return nil, fmt.Errorf("exact tier: %w", err)
	}
	if len(exact) > 0 {
		return exact, nil
	}

	if len(termNorm) < PrefixMinLength {
		return nil, nil
	}
	prefix, err := e.selectMarks(db,
		"SELECT "+markColumns+" FROM marks WHERE country IN (?) AND mark_text_norm LIKE ? LIMIT ?",
		countries, likePrefix(termNorm))
	if err != nil {
		return nil, fmt.Errorf("prefix tier: %w", err)
	}
	return prefix, nil
}

func (e *Engine) selectMarks(db *sqlx.DB, queryTmpl string, countries []string, term string) ([]model.Mark, error) {
	query, args, err := sqlx.In(queryTmpl, countries, term, RetrievalCap)
	if err != nil {
		return nil, err
	}
	var marks []model.Mark
	if err := db.Select(&marks, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return marks, nil
}

// queryPatents is prefix-only over applicant name and both numbers, with the
// same minimum length and cap. There is no exact tier for patents. Patent
// columns hold raw source text while the term is normalized lowercase, so
// the comparison folds the column side.
func (e *Engine) queryPatents(db *sqlx.DB, termNorm string) ([]model.Patent, error) {
	if len(termNorm) < PrefixMinLength {
		return nil, nil
	}
	like := likePrefix(termNorm)
	var patents []model.Patent
	err := db.Select(&patents,
		`SELECT `+patentColumns+` FROM patents
		 WHERE lower(applicant_name) LIKE ? OR lower(application_number) LIKE ? OR lower(publication_number) LIKE ?
		 LIMIT ?`,
		like, like, like, RetrievalCap)
	if err != nil {
		return nil, fmt.Errorf("patent tier: %w", err)
	}
	return patents, nil
}

// likePrefix builds the prefix pattern. The term is already normalized to
// [a-z0-9 ] so no LIKE metacharacters can appear in it.
func likePrefix(term string) string {
	return term + "%"
}
