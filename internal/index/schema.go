// Package index persists canonical records into a single-file SQLite index
// and hands out short-lived read connections to the query engine. The index
// is rebuilt wholesale: a build writes to a staging file and publishes it
// atomically, so a query never observes a partially populated index.
package index

const schema = `
CREATE TABLE IF NOT EXISTS marks (
	id             INTEGER PRIMARY KEY,
	reg_no         TEXT UNIQUE,
	mark_text      TEXT,
	mark_text_norm TEXT,
	owner_name     TEXT,
	owner_type     TEXT,
	country        TEXT,
	status         TEXT,
	category       TEXT,
	mark_type      TEXT,
	filed          TEXT,
	published      TEXT,
	registered     TEXT,
	expired        TEXT,
	renewal_due    TEXT,
	class_codes    TEXT,
	goods_services TEXT,
	source_file    TEXT
);

CREATE INDEX IF NOT EXISTS idx_marks_country ON marks(country);
CREATE INDEX IF NOT EXISTS idx_marks_status ON marks(status);
CREATE INDEX IF NOT EXISTS idx_marks_mark_norm ON marks(mark_text_norm);

CREATE VIRTUAL TABLE IF NOT EXISTS marks_fts
USING fts5(mark_text, owner_name, content='marks', content_rowid='id');

CREATE TABLE IF NOT EXISTS patents (
	id                     INTEGER PRIMARY KEY,
	application_number     TEXT,
	publication_number     TEXT,
	ipsum                  TEXT,
	earliest_filing_date   TEXT,
	filing_date            TEXT,
	lodged_date            TEXT,
	publication_a_date     TEXT,
	publication_b_date     TEXT,
	applicant_name         TEXT,
	applicant_country_code TEXT,
	applicant_postcode     TEXT,
	applicant_county       TEXT,
	applicant_region       TEXT,
	applicant_country      TEXT,
	ipc7                   TEXT,
	ipc8                   TEXT,
	pct_filing_date        TEXT,
	pct_publication_date   TEXT,
	last_renewal_date      TEXT,
	last_annuity_year      TEXT,
	date_not_in_force      TEXT,
	reason_not_in_force    TEXT,
	status                 TEXT,
	source_file            TEXT
);

CREATE INDEX IF NOT EXISTS idx_patents_status ON patents(status);
CREATE INDEX IF NOT EXISTS idx_patents_applicant ON patents(applicant_name);

CREATE VIRTUAL TABLE IF NOT EXISTS patents_fts
USING fts5(application_number, publication_number, applicant_name, ipc7, ipc8, content='patents', content_rowid='id');
`
