package runs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/internal/common"
	"github.com/dtnitsch/llm-doc-ranker/models"
	dbpkg "github.com/dtnitsch/llm-doc-ranker/pkg/db"
	"github.com/dtnitsch/llm-doc-ranker/pkg/ranking"
	"github.com/dtnitsch/llm-doc-ranker/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func ListRunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	printRunsTable(runs)

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'llm-doc-ranker runs show <id>' to see details\n")

	return nil
}

// QueryRunsAction lists runs matching filters
func QueryRunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	todayOnly := c.Bool("today")
	fallbackOnly := c.Bool("fallback")
	docPattern := c.String("doc")

	runs, err := database.QueryRuns(todayOnly, fallbackOnly, docPattern)
	if err != nil {
		return fmt.Errorf("failed to query runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found matching filters")
		if todayOnly {
			fmt.Println("  - Filter: today only")
		}
		if fallbackOnly {
			fmt.Println("  - Filter: fallback persona only")
		}
		if docPattern != "" {
			fmt.Printf("  - Filter: document pattern '%s'\n", docPattern)
		}
		return nil
	}

	printRunsTable(runs)

	fmt.Printf("\nFound: %d runs\n", len(runs))

	return nil
}

func printRunsTable(runs []dbpkg.Run) {
	fmt.Printf("%-6s %-20s %-11s %-6s %-6s %-6s %-40s\n",
		"ID", "Created", "Mode", "Docs", "Secs", "Calls", "Persona")
	fmt.Println(strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-11s %-6d %-6d %-6d %-40s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.PersonaMode,
			r.DocumentCount,
			r.SectionCount,
			r.ModelCalls,
			r.Persona,
		)
	}
}

// runView is the machine-readable rendering of a run for --yaml output.
type runView struct {
	RunID         int64         `json:"run_id" yaml:"run_id"`
	CreatedAt     string        `json:"created_at" yaml:"created_at"`
	Persona       string        `json:"persona" yaml:"persona"`
	Job           string        `json:"job" yaml:"job"`
	PersonaMode   string        `json:"persona_mode" yaml:"persona_mode"`
	DocumentCount int           `json:"document_count" yaml:"document_count"`
	SectionCount  int           `json:"section_count" yaml:"section_count"`
	ModelCalls    int           `json:"model_calls" yaml:"model_calls"`
	ElapsedMS     int64         `json:"elapsed_ms" yaml:"elapsed_ms"`
	OutputPath    string        `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	TopKeywords   []string      `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
	Documents     []docView     `json:"documents,omitempty" yaml:"documents,omitempty"`
	Sections      []sectionView `json:"sections,omitempty" yaml:"sections,omitempty"`
}

type docView struct {
	Filename    string `json:"filename" yaml:"filename"`
	Status      string `json:"status" yaml:"status"`
	Pages       int    `json:"pages" yaml:"pages"`
	Sections    int    `json:"sections" yaml:"sections"`
	OutlineFrom string `json:"outline_from,omitempty" yaml:"outline_from,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Kind        string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

type sectionView struct {
	Rank          int    `json:"rank" yaml:"rank"`
	Score         int    `json:"score" yaml:"score"`
	Document      string `json:"document" yaml:"document"`
	SectionTitle  string `json:"section_title" yaml:"section_title"`
	PageNumber    int    `json:"page_number" yaml:"page_number"`
	Level         string `json:"level,omitempty" yaml:"level,omitempty"`
	ModelAnalysis string `json:"model_analysis,omitempty" yaml:"model_analysis,omitempty"`
}

// ShowRunAction shows details for a specific run
func ShowRunAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	docs, err := database.GetRunDocuments(runID)
	if err != nil {
		return fmt.Errorf("failed to get run documents: %w", err)
	}

	secs, err := database.GetRunSections(runID)
	if err != nil {
		return fmt.Errorf("failed to get run sections: %w", err)
	}

	// Optional section filter in the analyze strategy grammar
	if filterStr := c.String("filter"); filterStr != "" {
		strategy, err := ranking.ParseStrategy(filterStr)
		if err != nil {
			return fmt.Errorf("failed to parse filter: %w", err)
		}
		secs = filterRunSections(secs, strategy)
	}

	if c.Bool("yaml") || c.String("fields") != "" {
		return printRunYAML(run, docs, secs, c.String("fields"), c.Bool("terse"))
	}

	// Print run details
	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Persona:     %s (%s)\n", run.Persona, run.PersonaMode)
	fmt.Printf("Job:         %s\n", run.Job)
	fmt.Printf("Documents:   %d\n", run.DocumentCount)
	fmt.Printf("Sections:    %d analyzed\n", run.SectionCount)
	fmt.Printf("Model calls: %d\n", run.ModelCalls)
	fmt.Printf("Elapsed:     %dms\n", run.ElapsedMS)
	if run.OutputPath != "" {
		fmt.Printf("Output:      %s\n", run.OutputPath)
	}

	fmt.Printf("\nDocuments (%d):\n", len(docs))
	fmt.Println(strings.Repeat("-", 60))
	for i, d := range docs {
		fmt.Printf("%2d. [%s] %s\n", i+1, d.Status, d.Filename)
		if d.Status == dbpkg.DocStatusPlaceholder {
			fmt.Printf("    Error: %s\n", d.Error)
		} else {
			fmt.Printf("    Pages: %d | Sections: %d | Outline: %s | %s/%s\n",
				d.Pages, d.Sections, d.OutlineFrom, d.Language, d.Kind)
		}
	}

	fmt.Printf("\nRanked sections (%d):\n", len(secs))
	fmt.Println(strings.Repeat("-", 60))
	for _, s := range secs {
		fmt.Printf("%2d. [%2d] %s\n", s.ImportanceRank, s.RelevanceScore, s.SectionTitle)
		fmt.Printf("    %s p.%d", s.Document, s.PageNumber)
		if s.Level != "" {
			fmt.Printf(" (%s)", s.Level)
		}
		if s.ModelAnalysis != "" {
			fmt.Printf(" | %s", s.ModelAnalysis)
		}
		fmt.Println()
	}

	if keywords := parseKeywords(run.TopKeywords); len(keywords) > 0 {
		fmt.Printf("\nTop keywords: %s\n", strings.Join(keywords, ", "))
	}

	fmt.Printf("\nTip: Use 'llm-doc-ranker runs show %d --yaml' for machine-readable output\n", runID)

	return nil
}

// OutputAction prints the result file a run produced
func OutputAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if run.OutputPath == "" {
		return fmt.Errorf("run %d has no recorded output path", runID)
	}

	store := &storage.Storage{}
	if !store.HasFile(run.OutputPath) {
		return fmt.Errorf("result file not found: %s\n\nThe file may have been moved or deleted. Re-run:\n  llm-doc-ranker analyze --input <dir> --output %s", run.OutputPath, run.OutputPath)
	}

	data, err := store.ReadFile(run.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to read result file: %w", err)
	}

	fmt.Print(string(data))
	return nil
}

func printRunYAML(run *dbpkg.Run, docs []dbpkg.RunDocument, secs []dbpkg.RunSection, fieldsStr string, terse bool) error {
	view := runView{
		RunID:         run.RunID,
		CreatedAt:     run.CreatedAt.Format("2006-01-02 15:04:05"),
		Persona:       run.Persona,
		Job:           run.Job,
		PersonaMode:   run.PersonaMode,
		DocumentCount: run.DocumentCount,
		SectionCount:  run.SectionCount,
		ModelCalls:    run.ModelCalls,
		ElapsedMS:     run.ElapsedMS,
		OutputPath:    run.OutputPath,
		TopKeywords:   parseKeywords(run.TopKeywords),
	}
	for _, d := range docs {
		view.Documents = append(view.Documents, docView{
			Filename:    d.Filename,
			Status:      d.Status,
			Pages:       d.Pages,
			Sections:    d.Sections,
			OutlineFrom: d.OutlineFrom,
			Language:    d.Language,
			Kind:        d.Kind,
			Error:       d.Error,
		})
	}
	for _, s := range secs {
		view.Sections = append(view.Sections, sectionView{
			Rank:          s.ImportanceRank,
			Score:         s.RelevanceScore,
			Document:      s.Document,
			SectionTitle:  s.SectionTitle,
			PageNumber:    s.PageNumber,
			Level:         s.Level,
			ModelAnalysis: s.ModelAnalysis,
		})
	}

	var data []byte
	var err error
	if fieldsStr != "" {
		filtered := common.FilterResultFields(view, fieldsStr, terse)
		data, err = yaml.Marshal(filtered)
	} else {
		data, err = yaml.Marshal(view)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	fmt.Printf("# Run: %d\n", run.RunID)
	fmt.Print(string(data))
	return nil
}

// filterRunSections applies an output strategy to stored section rows.
// Kept rows keep their original importance rank.
func filterRunSections(rows []dbpkg.RunSection, strategy *ranking.Strategy) []dbpkg.RunSection {
	scored := make([]models.ScoredSection, 0, len(rows))
	for _, r := range rows {
		scored = append(scored, models.ScoredSection{
			Section: models.Section{
				Document:     r.Document,
				PageNumber:   r.PageNumber,
				SectionTitle: r.SectionTitle,
				Level:        r.Level,
			},
			RelevanceScore: r.RelevanceScore,
			ModelAnalysis:  r.ModelAnalysis,
		})
	}
	kept := ranking.FilterSections(scored, strategy)

	// kept is an in-order subsequence of scored, so a lockstep walk
	// recovers the surviving rows.
	out := make([]dbpkg.RunSection, 0, len(kept))
	i := 0
	for _, r := range rows {
		if i < len(kept) &&
			kept[i].Document == r.Document &&
			kept[i].SectionTitle == r.SectionTitle &&
			kept[i].PageNumber == r.PageNumber &&
			kept[i].RelevanceScore == r.RelevanceScore {
			out = append(out, r)
			i++
		}
	}
	return out
}

func parseKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil
	}
	return keywords
}
