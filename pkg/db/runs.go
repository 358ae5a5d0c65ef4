package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Document extraction outcomes recorded per run.
const (
	DocStatusOK          = "ok"
	DocStatusPlaceholder = "placeholder"
)

// Run represents one completed analyze invocation
type Run struct {
	RunID         int64
	CreatedAt     time.Time
	Persona       string
	Job           string
	PersonaMode   string
	DocumentCount int
	SectionCount  int
	ModelCalls    int
	ElapsedMS     int64
	OutputPath    string
	TopKeywords   string // JSON array of the run's top corpus keywords
}

// RunDocument is the per-document extraction outcome within a run
type RunDocument struct {
	Filename    string
	Pages       int
	Sections    int
	OutlineFrom string
	Language    string
	Kind        string
	Status      string
	Error       string
}

// RunSection is one row of the ranked list a run emitted
type RunSection struct {
	Document       string
	SectionTitle   string
	PageNumber     int
	Level          string
	RelevanceScore int
	ImportanceRank int
	ModelAnalysis  string
}

// InsertRun records a completed run and returns its ID. Runs are recorded
// once, after the pipeline finishes; there is no partial-run state.
func (db *DB) InsertRun(run Run) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (persona, job, persona_mode, document_count, section_count,
		                  model_calls, elapsed_ms, output_path, top_keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Persona, run.Job, run.PersonaMode, run.DocumentCount, run.SectionCount,
		run.ModelCalls, run.ElapsedMS, NewNullString(run.OutputPath), NewNullString(run.TopKeywords))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// InsertRunDocument records one document's extraction outcome for a run
func (db *DB) InsertRunDocument(runID int64, doc RunDocument) error {
	_, err := db.Exec(`
		INSERT INTO run_documents (run_id, filename, pages, sections, outline_from,
		                           language, kind, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, doc.Filename, doc.Pages, doc.Sections, NewNullString(doc.OutlineFrom),
		NewNullString(doc.Language), NewNullString(doc.Kind), doc.Status, NewNullString(doc.Error))
	if err != nil {
		return fmt.Errorf("failed to insert run document: %w", err)
	}
	return nil
}

// InsertRunSections records the full ranked list for a run in one transaction
func (db *DB) InsertRunSections(runID int64, sections []RunSection) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO run_sections (run_id, document, section_title, page_number,
		                          level, relevance_score, importance_rank, model_analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sec := range sections {
		_, err := stmt.Exec(runID, sec.Document, sec.SectionTitle, sec.PageNumber,
			NewNullString(sec.Level), sec.RelevanceScore, sec.ImportanceRank,
			NewNullString(sec.ModelAnalysis))
		if err != nil {
			return fmt.Errorf("failed to insert run section: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run sections: %w", err)
	}
	return nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var run Run
	var outputPath, topKeywords sql.NullString
	err := db.QueryRow(`
		SELECT run_id, created_at, persona, job, persona_mode, document_count,
		       section_count, model_calls, elapsed_ms, output_path, top_keywords
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(
		&run.RunID,
		&run.CreatedAt,
		&run.Persona,
		&run.Job,
		&run.PersonaMode,
		&run.DocumentCount,
		&run.SectionCount,
		&run.ModelCalls,
		&run.ElapsedMS,
		&outputPath,
		&topKeywords,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.OutputPath = outputPath.String
	run.TopKeywords = topKeywords.String
	return &run, nil
}

// LatestRunID returns the most recent run's ID
func (db *DB) LatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY created_at DESC, run_id DESC LIMIT 1").Scan(&runID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded yet")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, created_at, persona, job, persona_mode, document_count,
		       section_count, model_calls, elapsed_ms, output_path, top_keywords
		FROM runs
		ORDER BY created_at DESC, run_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// QueryRuns filters runs based on criteria
func (db *DB) QueryRuns(todayOnly, fallbackOnly bool, docPattern string) ([]Run, error) {
	query := `
		SELECT DISTINCT r.run_id, r.created_at, r.persona, r.job, r.persona_mode,
		       r.document_count, r.section_count, r.model_calls, r.elapsed_ms,
		       r.output_path, r.top_keywords
		FROM runs r
	`

	var conditions []string
	var args []interface{}

	if todayOnly {
		conditions = append(conditions, "DATE(r.created_at) = DATE('now')")
	}

	if fallbackOnly {
		conditions = append(conditions, "r.persona_mode = 'fallback'")
	}

	if docPattern != "" {
		query += `
		JOIN run_documents rd ON r.run_id = rd.run_id
		`
		conditions = append(conditions, "rd.filename LIKE ?")
		args = append(args, "%"+docPattern+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY r.created_at DESC, r.run_id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var run Run
		var outputPath, topKeywords sql.NullString
		if err := rows.Scan(&run.RunID, &run.CreatedAt, &run.Persona, &run.Job,
			&run.PersonaMode, &run.DocumentCount, &run.SectionCount, &run.ModelCalls,
			&run.ElapsedMS, &outputPath, &topKeywords); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.OutputPath = outputPath.String
		run.TopKeywords = topKeywords.String
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRunDocuments retrieves the per-document outcomes for a run
func (db *DB) GetRunDocuments(runID int64) ([]RunDocument, error) {
	rows, err := db.Query(`
		SELECT filename, pages, sections, outline_from, language, kind, status, error
		FROM run_documents
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run documents: %w", err)
	}
	defer rows.Close()

	var docs []RunDocument
	for rows.Next() {
		var doc RunDocument
		var outlineFrom, language, kind, docErr sql.NullString
		if err := rows.Scan(&doc.Filename, &doc.Pages, &doc.Sections, &outlineFrom,
			&language, &kind, &doc.Status, &docErr); err != nil {
			return nil, fmt.Errorf("failed to scan run document: %w", err)
		}
		doc.OutlineFrom = outlineFrom.String
		doc.Language = language.String
		doc.Kind = kind.String
		doc.Error = docErr.String
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetRunSections retrieves the ranked list for a run, in rank order
func (db *DB) GetRunSections(runID int64) ([]RunSection, error) {
	rows, err := db.Query(`
		SELECT document, section_title, page_number, level, relevance_score,
		       importance_rank, model_analysis
		FROM run_sections
		WHERE run_id = ?
		ORDER BY importance_rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run sections: %w", err)
	}
	defer rows.Close()

	var sections []RunSection
	for rows.Next() {
		var sec RunSection
		var level, analysis sql.NullString
		if err := rows.Scan(&sec.Document, &sec.SectionTitle, &sec.PageNumber,
			&level, &sec.RelevanceScore, &sec.ImportanceRank, &analysis); err != nil {
			return nil, fmt.Errorf("failed to scan run section: %w", err)
		}
		sec.Level = level.String
		sec.ModelAnalysis = analysis.String
		sections = append(sections, sec)
	}
	return sections, nil
}

// Stats reports table row counts for the db stats command
type Stats struct {
	Runs         int
	RunDocuments int
	RunSections  int
}

// GetStats counts rows across the run-history tables
func (db *DB) GetStats() (*Stats, error) {
	var stats Stats
	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&stats.Runs); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM run_documents").Scan(&stats.RunDocuments); err != nil {
		return nil, fmt.Errorf("failed to count run documents: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM run_sections").Scan(&stats.RunSections); err != nil {
		return nil, fmt.Errorf("failed to count run sections: %w", err)
	}
	return &stats, nil
}

// Clear removes all run history. The schema stays in place.
func (db *DB) Clear() error {
	// Children first; ON DELETE CASCADE also covers them, but being explicit
	// keeps the statement order meaningful on databases opened without the
	// foreign_keys pragma.
	for _, table := range []string{"run_sections", "run_documents", "runs"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// NewNullString creates a sql.NullString from a string value.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
