package help

const ColdstartYAML = `# llm-doc-ranker Quick Start

pipeline:
  analyze: "Extract sections from local documents, rank them for a persona/job, write JSON"

persona_modes:
  configured: "persona/job taken from the --config run spec JSON"
  inferred: "one model call infers persona/job from document titles and samples"
  fallback: "Researcher / Document analysis when inference is unavailable"

commands:
  basic_analyze: |
    llm-doc-ranker analyze --input ./docs

  configured_analyze: |
    llm-doc-ranker analyze --input ./docs --config run.json --output result.json

  with_model: |
    llm-doc-ranker analyze --input ./docs --model-url http://localhost:8080/v1 --model llama-3.2-3b

  keyword_only: |
    # No model flags = keyword-only scoring (still writes a complete result)
    llm-doc-ranker analyze --input ./docs

  debug_scoring: |
    llm-doc-ranker analyze --input ./docs --debug-artifacts

  list_runs: |
    llm-doc-ranker runs list

  run_details: |
    llm-doc-ranker runs show 5

  run_details_filtered: |
    llm-doc-ranker runs show 5 --filter "score:>=7,level:H1|H2"

  query_runs: |
    llm-doc-ranker runs query --today
    llm-doc-ranker runs query --fallback
    llm-doc-ranker runs query --doc=report.pdf

run_spec_format: |
  {
    "persona": {"role": "Travel Planner"},
    "job_to_be_done": {"task": "Plan a 4-day trip for 10 college friends"},
    "documents": [{"filename": "South of France - Cities.pdf"}]
  }

output_schema:
  metadata: "input_documents, persona, job_to_be_done, processing_timestamp"
  extracted_sections: "document, section_title, page_number, importance_rank"
  subsection_analysis: "document, page_number, refined_text"

run_artifacts:
  result: "result JSON at --output (default analysis.json)"
  manifest: "<output>.manifest.json with per-document status and keywords"
  debug: "<output>.sections.yaml full scored list (only with --debug-artifacts)"

run_history:
  - "Runs tracked in SQLite database"
  - "Auto-incrementing run IDs (1, 2, 3...)"
  - "Use 'ldr runs list' to list all runs"
  - "Use 'ldr runs show <id>' for details, add --yaml for machine-readable"
  - "Use 'ldr runs output <id>' to print the run's result JSON"

db_commands:
  init: "Initialize database schema"
  stats: "Table row counts"
  clear: "Delete all recorded history (--force skips the prompt)"

degradation:
  - "No model configured: keyword-only scoring, result still complete"
  - "Model call fails: that call site's fallback applies, no retry, budget spent"
  - "Unreadable document: placeholder section, run continues"
  - "Empty input directory: valid result with empty section lists"

model_budget:
  - "At most 4 model calls per run regardless of corpus size (--budget overrides)"
  - "Call sites: persona inference, domain vocabulary, batch scoring, excerpt refinement"
  - "Responses cached on disk; repeated runs on the same corpus spend no budget"

error_behavior:
  - "Missing --config file: fatal before any document is read"
  - "Invalid document names in the run spec: fail fast listing the offenders"
  - "Exit codes: 0=success (degraded runs included), 1=invalid usage, 2=setup failure"
`
