package analyze

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dtnitsch/llm-doc-ranker/internal/common"
	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/caching"
	"github.com/dtnitsch/llm-doc-ranker/pkg/db"
	"github.com/dtnitsch/llm-doc-ranker/pkg/detector"
	"github.com/dtnitsch/llm-doc-ranker/pkg/document"
	"github.com/dtnitsch/llm-doc-ranker/pkg/llm"
	"github.com/dtnitsch/llm-doc-ranker/pkg/manifest"
	"github.com/dtnitsch/llm-doc-ranker/pkg/ranking"
	"github.com/dtnitsch/llm-doc-ranker/pkg/report"
	"github.com/dtnitsch/llm-doc-ranker/pkg/signals"
	"github.com/dtnitsch/llm-doc-ranker/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// DefaultOutputName is where the result lands when --output is not given.
const DefaultOutputName = "analysis.json"

func AnalyzeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()
	ctx := c.Context

	config := &models.AnalyzeConfig{
		InputDir:       c.String("input"),
		SpecPath:       c.String("config"),
		OutputPath:     c.String("output"),
		ModelURL:       c.String("model-url"),
		ModelName:      c.String("model"),
		CallBudget:     c.Int("budget"),
		WorkerCount:    c.Int("workers"),
		CacheDir:       c.String("cache-dir"),
		NoCache:        c.Bool("no-llm-cache"),
		DBPath:         c.String("db"),
		DebugArtifacts: c.Bool("debug-artifacts"),
	}

	// A run spec named on the command line must load; this is the one
	// failure that aborts before any document is touched.
	var spec *models.RunSpec
	if config.SpecPath != "" {
		loaded, err := models.LoadRunSpec(config.SpecPath)
		if err != nil {
			logger.Error("failed to load run spec", "path", config.SpecPath, "error", err)
			os.Exit(2)
		}
		spec = loaded
	}

	paths, err := resolveDocuments(config, spec)
	if err != nil {
		logger.Error("failed to resolve input documents", "input", config.InputDir, "error", err)
		os.Exit(2)
	}
	if len(paths) == 0 {
		// An empty corpus is a valid run: the result file still gets
		// written with empty lists and a complete metadata block.
		logger.Warn("no documents found, producing an empty result", "input", config.InputDir)
	}

	params := models.DefaultParams()
	if c.IsSet("budget") {
		params.Oracle.CallBudget = config.CallBudget
	}

	modelTimeout, err := time.ParseDuration(c.String("model-timeout"))
	if err != nil {
		logger.Error("invalid model-timeout duration", "error", err)
		os.Exit(2)
	}

	var gen llm.Generator
	client, err := llm.NewClient(llm.Config{
		BaseURL:        config.ModelURL,
		Model:          config.ModelName,
		APIKey:         os.Getenv("LDR_MODEL_API_KEY"),
		RequestTimeout: modelTimeout,
	})
	switch {
	case errors.Is(err, llm.ErrUnavailable):
		logger.Warn("no model endpoint configured, scoring is keyword-only")
		gen = llm.Unavailable{}
	case err != nil:
		logger.Error("failed to initialize model client", "error", err)
		os.Exit(2)
	default:
		gen = client
	}

	var cache *caching.Cache
	if !config.NoCache {
		cacheMaxAge, err := time.ParseDuration(c.String("cache-max-age"))
		if err != nil {
			logger.Error("invalid cache-max-age duration", "error", err)
			os.Exit(2)
		}
		cache, err = caching.NewCache(config.CacheDir, cacheMaxAge)
		if err != nil {
			logger.Warn("response cache unavailable, model calls will not be cached", "error", err)
			cache = nil
		}
	}

	// Open database for run history
	var database *db.DB
	if config.DBPath != "" {
		database, err = db.OpenAt(config.DBPath)
	} else {
		database, err = db.Open()
	}
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	det := detector.New()
	results, wordCounts := extractAll(logger, paths, config.WorkerCount, params.Extract, det)

	var allSections []models.Section
	docInfos := make([]models.DocumentInfo, 0, len(results))
	var kinds []string
	okCount := 0
	for _, r := range results {
		allSections = append(allSections, r.Sections...)
		docInfos = append(docInfos, r.Info)
		if r.Err == nil {
			kinds = append(kinds, r.Info.Kind)
			okCount++
		}
	}
	kind := detector.DominantKind(kinds)

	oracle := llm.NewOracle(gen, cache, logger, params.Oracle)
	engine := ranking.NewEngine(oracle, logger, params)

	persona, job, mode := engine.ResolvePersona(ctx, spec, allSections)
	logger.Info("Persona resolved", "persona", persona, "job", job, "mode", mode.String())

	domainTerms, vocabSource := engine.DomainVocabulary(ctx, persona, job, kind)
	logger.Info("Domain vocabulary ready", "terms", len(domainTerms), "source", vocabSource, "kind", kind)

	vocab := signals.NewVocabulary(persona, job, domainTerms)
	res := engine.Rank(ctx, ranking.Input{
		Sections:   allSections,
		Vocabulary: vocab,
		Persona:    persona,
		Job:        job,
	})
	logger.Info("Ranking finished", "total_scored", res.TotalScored, "ranked", len(res.Ranked),
		"model_scored", res.ModelScored, "model_calls", oracle.CallsUsed(), "budget", oracle.Budget())

	elapsed := time.Since(startTime)
	docNames := make([]string, 0, len(docInfos))
	for _, info := range docInfos {
		docNames = append(docNames, info.Filename)
	}

	runResult := report.Assemble(report.RunInfo{
		InputDocuments: docNames,
		Persona:        persona,
		Job:            job,
		PersonaMode:    mode,
		Timestamp:      time.Now(),
		TotalSections:  res.TotalScored,
		Elapsed:        elapsed,
	}, res.Ranked, res.Subsections)

	outputPath := config.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputName
	}
	store := &storage.Storage{}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := store.EnsureDir(dir); err != nil {
			logger.Error("failed to create output directory", "dir", dir, "error", err)
			os.Exit(2)
		}
	}
	if err := report.Write(outputPath, runResult); err != nil {
		logger.Error("failed to write result", "error", err)
		os.Exit(2)
	}
	if data, readErr := store.ReadFile(outputPath); readErr == nil {
		logger.Info("Result written", "path", outputPath, "bytes", len(data), "sha256", common.ContentHash(data))
	}

	if config.DebugArtifacts {
		writeDebugArtifact(logger, store, outputPath, persona, job, mode, vocabSource, res.Scored)
	}

	docResults := make([]manifest.DocResult, 0, len(results))
	for _, r := range results {
		docResults = append(docResults, manifest.DocResult{Info: r.Info, WordCounts: r.WordCounts})
	}
	manifestPath, err := manifest.GenerateSummary(manifest.RunStats{
		Persona:       persona,
		Job:           job,
		PersonaMode:   mode.String(),
		ResultPath:    outputPath,
		TotalSections: res.TotalScored,
		ModelCalls:    oracle.CallsUsed(),
	}, docResults, wordCounts, store)
	if err != nil {
		logger.Warn("Failed to write run manifest", "error", err)
	} else {
		logger.Info("Run manifest written", "path", manifestPath)
	}

	runID := recordRun(logger, database, db.Run{
		Persona:       persona,
		Job:           job,
		PersonaMode:   mode.String(),
		DocumentCount: len(paths),
		SectionCount:  res.TotalScored,
		ModelCalls:    oracle.CallsUsed(),
		ElapsedMS:     elapsed.Milliseconds(),
		OutputPath:    outputPath,
		TopKeywords:   formatKeywordsAsJSON(wordCounts, 25),
	}, docInfos, res.Ranked)

	if runID > 0 {
		fmt.Printf("Run %d: %d/%d documents analyzed, %d sections ranked\nResults: %s\n",
			runID, okCount, len(paths), len(res.Ranked), outputPath)
	} else {
		fmt.Printf("%d/%d documents analyzed, %d sections ranked\nResults: %s\n",
			okCount, len(paths), len(res.Ranked), outputPath)
	}
	if mode == models.PersonaModeFallback {
		fmt.Printf("\nNote: persona could not be inferred; used fallback %q / %q\n", persona, job)
	}
	if runID > 0 {
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  llm-doc-ranker runs show %d   # Ranked sections and metadata for this run\n", runID)
		fmt.Printf("  llm-doc-ranker runs list      # Recent runs\n")
	}

	return nil
}

// resolveDocuments builds the ordered input file list. A spec document list
// wins over directory discovery; discovery sorts by filename so repeated
// runs see the same order.
func resolveDocuments(config *models.AnalyzeConfig, spec *models.RunSpec) ([]string, error) {
	if spec != nil {
		names := spec.DocumentFilenames()
		if len(names) > 0 {
			sanitized, invalid := common.SanitizeAndValidateFilenames(names)
			if len(invalid) > 0 {
				fmt.Fprintf(os.Stderr, "Error: %d document name(s) in the run spec are invalid:\n", len(invalid))
				for _, bad := range invalid {
					fmt.Fprintf(os.Stderr, "  - %s\n", bad)
				}
				fmt.Fprintln(os.Stderr, "")
				fmt.Fprintln(os.Stderr, "Note: names are auto-cleaned (whitespace and stray punctuation trimmed) but must be")
				fmt.Fprintln(os.Stderr, "      bare filenames with a supported extension (.pdf, .html, .txt, .md)")
				os.Exit(1)
			}
			paths := make([]string, len(sanitized))
			for i, name := range sanitized {
				paths[i] = filepath.Join(config.InputDir, name)
			}
			return paths, nil
		}
	}

	entries, err := os.ReadDir(config.InputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !document.Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(config.InputDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// debugArtifact is the YAML dump written next to the result by
// --debug-artifacts: every scored section in final order, untruncated.
type debugArtifact struct {
	Persona     string                 `yaml:"persona"`
	Job         string                 `yaml:"job"`
	PersonaMode string                 `yaml:"persona_mode"`
	VocabSource string                 `yaml:"vocab_source"`
	Sections    []models.ScoredSection `yaml:"sections"`
}

func writeDebugArtifact(logger *slog.Logger, store *storage.Storage, outputPath, persona, job string, mode models.PersonaMode, vocabSource string, scored []models.ScoredSection) {
	artifact := debugArtifact{
		Persona:     persona,
		Job:         job,
		PersonaMode: mode.String(),
		VocabSource: vocabSource,
		Sections:    scored,
	}
	data, err := yaml.Marshal(artifact)
	if err != nil {
		logger.Warn("Failed to marshal debug artifact", "error", err)
		return
	}
	path := storage.DerivedPath(outputPath, "sections.yaml")
	if err := store.SaveFile(path, data); err != nil {
		logger.Warn("Failed to write debug artifact", "path", path, "error", err)
		return
	}
	logger.Info("Debug artifact written", "path", path)
}

// recordRun persists the run and its per-document and per-section detail.
// History is best-effort: failures are logged, never fatal, because the
// result file has already been written by the time we get here.
func recordRun(logger *slog.Logger, database *db.DB, run db.Run, docInfos []models.DocumentInfo, ranked []models.ScoredSection) int64 {
	runID, err := database.InsertRun(run)
	if err != nil {
		logger.Warn("Failed to record run", "error", err)
		return 0
	}

	for _, info := range docInfos {
		runDoc := db.RunDocument{
			Filename:    info.Filename,
			Pages:       info.Pages,
			Sections:    info.Sections,
			OutlineFrom: info.OutlineFrom,
			Language:    info.Language,
			Kind:        info.Kind,
			Status:      db.DocStatusOK,
			Error:       info.Error,
		}
		if info.Failed() {
			runDoc.Status = db.DocStatusPlaceholder
		}
		if err := database.InsertRunDocument(runID, runDoc); err != nil {
			logger.Warn("Failed to record run document", "document", info.Filename, "error", err)
		}
	}

	rows := make([]db.RunSection, 0, len(ranked))
	for i, sec := range ranked {
		rows = append(rows, db.RunSection{
			Document:       sec.Document,
			SectionTitle:   sec.SectionTitle,
			PageNumber:     sec.PageNumber,
			Level:          sec.Level,
			RelevanceScore: sec.RelevanceScore,
			ImportanceRank: i + 1,
			ModelAnalysis:  sec.ModelAnalysis,
		})
	}
	if err := database.InsertRunSections(runID, rows); err != nil {
		logger.Warn("Failed to record run sections", "error", err)
	}
	return runID
}
