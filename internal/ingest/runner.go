package ingest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/joelkehle/markcheck/internal/index"
	"github.com/joelkehle/markcheck/internal/model"
)

// Runner walks a data root, classifies each file, and streams its records
// into an index builder. Ingestion is single-threaded and single-pass: one
// file at a time, sequential batches within a file.
//
// A file that cannot be read, decoded, or header-validated is logged and
// skipped; it never aborts the run. Ragged rows and malformed dates are
// tolerated further down, so the only per-row failure mode left is an index
// write error, which is fatal because it would leave the build incomplete.
type Runner struct {
	log *zap.Logger
}

// NewRunner returns a Runner logging through log. A nil logger disables
// logging.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Stats summarizes one build run.
type Stats struct {
	FilesIngested int
	FilesSkipped  int
	Marks         int
	Patents       int
}

// Run discovers source files under root and ingests them into builder. It
// does not flush or publish; the caller owns the builder lifecycle.
func (r *Runner) Run(root string, builder *index.Builder) (Stats, error) {
	var stats Stats

	files, err := discoverFiles(root)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		r.log.Info("no data files found for ingestion", zap.String("root", root))
		return stats, nil
	}

	for _, path := range files {
		format := DetectFormat(path)
		var ingestErr error
		switch format {
		case FormatText:
			ingestErr = r.ingestTextExport(path, builder)
		case FormatSpreadsheet:
			ingestErr = r.ingestSpreadsheet(path, builder)
		case FormatJournal:
			ingestErr = r.ingestJournal(path, builder)
		default:
			continue
		}
		if ingestErr != nil {
			if isFatal(ingestErr) {
				return stats, ingestErr
			}
			stats.FilesSkipped++
			r.log.Warn("skipping source file",
				zap.String("path", path),
				zap.Error(ingestErr))
			continue
		}
		stats.FilesIngested++
	}

	stats.Marks = builder.MarkCount()
	stats.Patents = builder.PatentCount()
	return stats, nil
}

// fatalError marks index-write failures, which must abort the build instead
// of being skipped like source-file problems.
type fatalError struct{ err error }

func (e fatalError) Error() string { return e.err.Error() }
func (e fatalError) Unwrap() error { return e.err }

func isFatal(err error) bool {
	var fe fatalError
	return errors.As(err, &fe)
}

func discoverFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".txt", ".xlsx", ".xml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func (r *Runner) ingestTextExport(path string, builder *index.Builder) error {
	export, err := OpenTextExport(path)
	if err != nil {
		return err
	}
	rows := 0
	for {
		row, err := export.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := builder.AddMark(BuildMarkFromExport(row, path)); err != nil {
			return fatalError{err}
		}
		rows++
	}
	r.log.Info("ingested trademark export",
		zap.String("path", path),
		zap.String("encoding", export.Encoding()),
		zap.Int("rows", rows))
	return nil
}

func (r *Runner) ingestSpreadsheet(path string, builder *index.Builder) error {
	sheet, err := OpenSpreadsheet(path)
	if err != nil {
		return err
	}
	defer sheet.Close()

	rows := 0
	for {
		row, err := sheet.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := builder.AddPatent(BuildPatentFromSpreadsheet(row, path)); err != nil {
			return fatalError{err}
		}
		rows++
	}
	r.log.Info("ingested patent spreadsheet",
		zap.String("path", path),
		zap.Int("rows", rows))
	return nil
}

func (r *Runner) ingestJournal(path string, builder *index.Builder) error {
	rows := 0
	err := ParseJournal(path, func(m model.Mark) error {
		if err := builder.AddMark(m); err != nil {
			return fatalError{err}
		}
		rows++
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Info("ingested journal",
		zap.String("path", path),
		zap.Int("rows", rows))
	return nil
}
