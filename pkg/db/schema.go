package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per analyze invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    persona TEXT NOT NULL,
    job TEXT NOT NULL,
    persona_mode TEXT NOT NULL,       -- configured, inferred, fallback
    document_count INTEGER NOT NULL,
    section_count INTEGER DEFAULT 0,  -- sections scored before truncation
    model_calls INTEGER DEFAULT 0,
    elapsed_ms INTEGER DEFAULT 0,
    output_path TEXT,

    -- Top corpus keywords as JSON array: ["word:count", ...]
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_persona_mode ON runs(persona_mode);

-- Run documents: per-document extraction outcome within a run
CREATE TABLE IF NOT EXISTS run_documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    filename TEXT NOT NULL,
    pages INTEGER DEFAULT 0,
    sections INTEGER DEFAULT 0,
    outline_from TEXT,                -- sidecar, embedded, synthesized
    language TEXT,
    kind TEXT,                        -- academic, manual, travel, food, business, generic
    status TEXT NOT NULL,             -- ok, placeholder
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, filename)
);

CREATE INDEX IF NOT EXISTS idx_run_documents_run ON run_documents(run_id);
CREATE INDEX IF NOT EXISTS idx_run_documents_status ON run_documents(status);

-- Run sections: the final ranked list a run emitted
CREATE TABLE IF NOT EXISTS run_sections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    document TEXT NOT NULL,
    section_title TEXT NOT NULL,
    page_number INTEGER NOT NULL,
    level TEXT,
    relevance_score INTEGER NOT NULL,
    importance_rank INTEGER NOT NULL,
    model_analysis TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, importance_rank)
);

CREATE INDEX IF NOT EXISTS idx_run_sections_run ON run_sections(run_id);
CREATE INDEX IF NOT EXISTS idx_run_sections_score ON run_sections(relevance_score);
`
