package storage

import "database/sql"

// RunSummary is a compact row for listing stored runs.
type RunSummary struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	Source    string `json:"source"`
	Findings  int    `json:"findings"`
	Errors    int    `json:"errors"`
}

// FindingRow mirrors a single findings table row for API listing.
type FindingRow struct {
	ID           string `json:"id"`
	RunID        string `json:"run_id"`
	File         string `json:"file"`
	Line         int    `json:"line"`
	RuleID       string `json:"rule_id"`
	Category     string `json:"category"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
	Excerpt      string `json:"excerpt,omitempty"`
}

// ListRuns returns run summaries, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT r.id, r.started_at, r.source,
		       COUNT(f.id),
		       COALESCE(SUM(CASE WHEN f.severity = 'error' THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN findings f ON f.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.StartedAt, &s.Source, &s.Findings, &s.Errors); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run, optionally filtered by minimum
// severity ("warning" returns everything, "error" only errors).
func (db *DB) ListFindings(runID, minSeverity string) ([]FindingRow, error) {
	minRank := 1
	if minSeverity == "error" {
		minRank = 2
	}
	rows, err := db.conn.Query(`
		SELECT id, run_id, file, line, rule_id, category, severity, message, suggested_fix, excerpt
		FROM findings
		WHERE run_id = ?
		  AND (CASE severity WHEN 'error' THEN 2 WHEN 'warning' THEN 1 ELSE 0 END) >= ?
		ORDER BY file, line, rule_id, id`, runID, minRank)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FindingRow{}
	for rows.Next() {
		var f FindingRow
		if err := rows.Scan(&f.ID, &f.RunID, &f.File, &f.Line, &f.RuleID, &f.Category, &f.Severity, &f.Message, &f.SuggestedFix, &f.Excerpt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// HasRun reports whether a run with the given ID exists.
func (db *DB) HasRun(id string) (bool, error) {
	var one int
	err := db.conn.QueryRow(`SELECT 1 FROM runs WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
