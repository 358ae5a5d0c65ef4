package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun() Run {
	return Run{
		Persona:       "HR professional",
		Job:           "manage onboarding forms",
		PersonaMode:   "configured",
		DocumentCount: 2,
		SectionCount:  14,
		ModelCalls:    3,
		ElapsedMS:     4200,
		OutputPath:    "out/result.json",
		TopKeywords:   `["forms:12","onboarding:9"]`,
	}
}

func TestInsertRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("InsertRun() returned 0 run ID")
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}

	if run.Persona != "HR professional" {
		t.Errorf("run.Persona = %q, want %q", run.Persona, "HR professional")
	}
	if run.PersonaMode != "configured" {
		t.Errorf("run.PersonaMode = %q, want configured", run.PersonaMode)
	}
	if run.SectionCount != 14 {
		t.Errorf("run.SectionCount = %d, want 14", run.SectionCount)
	}
	if run.ModelCalls != 3 {
		t.Errorf("run.ModelCalls = %d, want 3", run.ModelCalls)
	}
	if run.OutputPath != "out/result.json" {
		t.Errorf("run.OutputPath = %q", run.OutputPath)
	}
	if run.CreatedAt.IsZero() {
		t.Error("run.CreatedAt is zero, want server default")
	}
}

func TestGetRunByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRunByID(999); err == nil {
		t.Error("GetRunByID(999) error = nil, want not-found error")
	}
}

func TestInsertRunDocument(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	docs := []RunDocument{
		{
			Filename:    "guide.pdf",
			Pages:       24,
			Sections:    9,
			OutlineFrom: "embedded",
			Language:    "english",
			Kind:        "manual",
			Status:      DocStatusOK,
		},
		{
			Filename: "broken.pdf",
			Status:   DocStatusPlaceholder,
			Error:    "failed to read document: unexpected EOF",
		},
	}
	for _, doc := range docs {
		if err := db.InsertRunDocument(runID, doc); err != nil {
			t.Fatalf("InsertRunDocument(%s) error = %v", doc.Filename, err)
		}
	}

	got, err := db.GetRunDocuments(runID)
	if err != nil {
		t.Fatalf("GetRunDocuments() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(got))
	}
	if got[0].Filename != "guide.pdf" || got[0].Status != DocStatusOK {
		t.Errorf("docs[0] = %+v", got[0])
	}
	if got[1].Status != DocStatusPlaceholder || got[1].Error == "" {
		t.Errorf("docs[1] = %+v, want placeholder with error", got[1])
	}

	// Duplicate filename within a run violates the unique constraint.
	if err := db.InsertRunDocument(runID, docs[0]); err == nil {
		t.Error("duplicate InsertRunDocument() error = nil, want constraint error")
	}
}

func TestInsertRunSections(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	sections := []RunSection{
		{Document: "guide.pdf", SectionTitle: "Creating Forms", PageNumber: 3,
			Level: "H1", RelevanceScore: 9, ImportanceRank: 1, ModelAnalysis: "model relevance 9/10"},
		{Document: "guide.pdf", SectionTitle: "Exporting", PageNumber: 11,
			Level: "H2", RelevanceScore: 7, ImportanceRank: 2},
	}
	if err := db.InsertRunSections(runID, sections); err != nil {
		t.Fatalf("InsertRunSections() error = %v", err)
	}

	got, err := db.GetRunSections(runID)
	if err != nil {
		t.Fatalf("GetRunSections() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(got))
	}
	if got[0].ImportanceRank != 1 || got[0].SectionTitle != "Creating Forms" {
		t.Errorf("sections[0] = %+v, want rank 1 first", got[0])
	}
	if got[1].ModelAnalysis != "" {
		t.Errorf("sections[1].ModelAnalysis = %q, want empty", got[1].ModelAnalysis)
	}
}

func TestListRuns_MostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var lastID int64
	for i := 0; i < 3; i++ {
		id, err := db.InsertRun(sampleRun())
		if err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
		lastID = id
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[0].RunID != lastID {
		t.Errorf("runs[0].RunID = %d, want most recent %d", runs[0].RunID, lastID)
	}

	limited, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestLatestRunID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.LatestRunID(); err == nil {
		t.Error("LatestRunID() on empty db error = nil, want error")
	}

	id1, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	id2, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("run IDs not increasing: %d then %d", id1, id2)
	}

	latest, err := db.LatestRunID()
	if err != nil {
		t.Fatalf("LatestRunID() error = %v", err)
	}
	if latest != id2 {
		t.Errorf("LatestRunID() = %d, want %d", latest, id2)
	}
}

func TestQueryRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	configured := sampleRun()
	configuredID, err := db.InsertRun(configured)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.InsertRunDocument(configuredID, RunDocument{Filename: "guide.pdf", Status: DocStatusOK}); err != nil {
		t.Fatalf("InsertRunDocument() error = %v", err)
	}

	degraded := sampleRun()
	degraded.PersonaMode = "fallback"
	degradedID, err := db.InsertRun(degraded)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.InsertRunDocument(degradedID, RunDocument{Filename: "notes.txt", Status: DocStatusOK}); err != nil {
		t.Fatalf("InsertRunDocument() error = %v", err)
	}

	fallbackRuns, err := db.QueryRuns(false, true, "")
	if err != nil {
		t.Fatalf("QueryRuns(fallbackOnly) error = %v", err)
	}
	if len(fallbackRuns) != 1 || fallbackRuns[0].RunID != degradedID {
		t.Errorf("fallbackOnly = %+v, want only the fallback run", fallbackRuns)
	}

	byDoc, err := db.QueryRuns(false, false, "guide")
	if err != nil {
		t.Fatalf("QueryRuns(docPattern) error = %v", err)
	}
	if len(byDoc) != 1 || byDoc[0].RunID != configuredID {
		t.Errorf("docPattern = %+v, want only the guide.pdf run", byDoc)
	}

	today, err := db.QueryRuns(true, false, "")
	if err != nil {
		t.Fatalf("QueryRuns(todayOnly) error = %v", err)
	}
	if len(today) != 2 {
		t.Errorf("todayOnly returned %d runs, want 2", len(today))
	}
}

func TestGetStatsAndClear(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.InsertRunDocument(runID, RunDocument{Filename: "a.pdf", Status: DocStatusOK}); err != nil {
		t.Fatalf("InsertRunDocument() error = %v", err)
	}
	if err := db.InsertRunSections(runID, []RunSection{
		{Document: "a.pdf", SectionTitle: "T", PageNumber: 1, RelevanceScore: 5, ImportanceRank: 1},
	}); err != nil {
		t.Fatalf("InsertRunSections() error = %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.Runs != 1 || stats.RunDocuments != 1 || stats.RunSections != 1 {
		t.Errorf("GetStats() = %+v, want 1/1/1", stats)
	}

	if err := db.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	stats, err = db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() after Clear error = %v", err)
	}
	if stats.Runs != 0 || stats.RunDocuments != 0 || stats.RunSections != 0 {
		t.Errorf("GetStats() after Clear = %+v, want zeros", stats)
	}
}
