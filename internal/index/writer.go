package index

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/markcheck/internal/model"
)

// BatchSize is the number of records buffered before a batch insert.
const BatchSize = 5000

const stagingSuffix = ".building"

// Builder writes a fresh index to a staging file next to the final path.
// Records are appended in batches with insert-ignore-duplicate semantics on
// the mark natural key, so the earliest-ingested record per reg_no wins and
// later sources never override earlier ones. Publish atomically replaces the
// live index; until then the previous index stays authoritative.
type Builder struct {
	db          *sqlx.DB
	finalPath   string
	stagingPath string

	markBuf   []model.Mark
	patentBuf []model.Patent
	marks     int
	patents   int
}

// NewBuilder opens the staging database and creates the schema. Any stale
// staging file from an aborted build is overwritten.
func NewBuilder(path string) (*Builder, error) {
	staging := path + stagingSuffix
	if err := os.Remove(staging); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale staging index: %w", err)
	}
	db, err := sqlx.Open("sqlite", staging+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("open staging index: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		os.Remove(staging)
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Builder{db: db, finalPath: path, stagingPath: staging}, nil
}

// AddMark buffers one mark, flushing when the batch fills.
func (b *Builder) AddMark(m model.Mark) error {
	b.markBuf = append(b.markBuf, m)
	if len(b.markBuf) >= BatchSize {
		return b.flushMarks()
	}
	return nil
}

// AddPatent buffers one patent, flushing when the batch fills.
func (b *Builder) AddPatent(p model.Patent) error {
	b.patentBuf = append(b.patentBuf, p)
	if len(b.patentBuf) >= BatchSize {
		return b.flushPatents()
	}
	return nil
}

const insertMark = `
INSERT OR IGNORE INTO marks (
	reg_no, mark_text, mark_text_norm, owner_name, owner_type,
	country, status, category, mark_type,
	filed, published, registered, expired, renewal_due,
	class_codes, goods_services, source_file
) VALUES (
	:reg_no, :mark_text, :mark_text_norm, :owner_name, :owner_type,
	:country, :status, :category, :mark_type,
	:filed, :published, :registered, :expired, :renewal_due,
	:class_codes, :goods_services, :source_file
)`

const insertPatent = `
INSERT INTO patents (
	application_number, publication_number, ipsum,
	earliest_filing_date, filing_date, lodged_date,
	publication_a_date, publication_b_date,
	applicant_name, applicant_country_code, applicant_postcode,
	applicant_county, applicant_region, applicant_country,
	ipc7, ipc8, pct_filing_date, pct_publication_date,
	last_renewal_date, last_annuity_year, date_not_in_force,
	reason_not_in_force, status, source_file
) VALUES (
	:application_number, :publication_number, :ipsum,
	:earliest_filing_date, :filing_date, :lodged_date,
	:publication_a_date, :publication_b_date,
	:applicant_name, :applicant_country_code, :applicant_postcode,
	:applicant_county, :applicant_region, :applicant_country,
	:ipc7, :ipc8, :pct_filing_date, :pct_publication_date,
	:last_renewal_date, :last_annuity_year, :date_not_in_force,
	:reason_not_in_force, :status, :source_file
)`

func (b *Builder) flushMarks() error {
	if len(b.markBuf) == 0 {
		return nil
	}
	tx, err := b.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin mark batch: %w", err)
	}
	for i := range b.markBuf {
		if _, err := tx.NamedExec(insertMark, &b.markBuf[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert mark %s: %w", b.markBuf[i].RegNo, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark batch: %w", err)
	}
	b.marks += len(b.markBuf)
	b.markBuf = b.markBuf[:0]
	return nil
}

func (b *Builder) flushPatents() error {
	if len(b.patentBuf) == 0 {
		return nil
	}
	tx, err := b.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin patent batch: %w", err)
	}
	for i := range b.patentBuf {
		if _, err := tx.NamedExec(insertPatent, &b.patentBuf[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert patent %s: %w", b.patentBuf[i].ApplicationNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit patent batch: %w", err)
	}
	b.patents += len(b.patentBuf)
	b.patentBuf = b.patentBuf[:0]
	return nil
}

// Flush drains any partially filled batches.
func (b *Builder) Flush() error {
	if err := b.flushMarks(); err != nil {
		return err
	}
	return b.flushPatents()
}

// RebuildFTS repopulates both external-content full-text tables from their
// base tables in one pass. Run after all sources are ingested.
func (b *Builder) RebuildFTS() error {
	if _, err := b.db.Exec(`INSERT INTO marks_fts(marks_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("rebuild marks fts: %w", err)
	}
	if _, err := b.db.Exec(`INSERT INTO patents_fts(patents_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("rebuild patents fts: %w", err)
	}
	return nil
}

// MarkCount returns marks written so far (flushed batches only).
func (b *Builder) MarkCount() int { return b.marks }

// PatentCount returns patents written so far (flushed batches only).
func (b *Builder) PatentCount() int { return b.patents }

// Publish flushes, closes the staging database, and renames it over the
// final path. The rename is the atomicity boundary: readers see either the
// old index or the complete new one, never a partial build.
func (b *Builder) Publish() error {
	if err := b.Flush(); err != nil {
		return err
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close staging index: %w", err)
	}
	if err := os.Rename(b.stagingPath, b.finalPath); err != nil {
		return fmt.Errorf("publish index: %w", err)
	}
	return nil
}

// Abort closes and removes the staging file, leaving any previous published
// index untouched.
func (b *Builder) Abort() {
	b.db.Close()
	os.Remove(b.stagingPath)
}
