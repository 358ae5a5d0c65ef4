package analyze

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/analytics"
	"github.com/dtnitsch/llm-doc-ranker/pkg/detector"
	"github.com/dtnitsch/llm-doc-ranker/pkg/document"
	"github.com/dtnitsch/llm-doc-ranker/pkg/mapreduce"
	"github.com/dtnitsch/llm-doc-ranker/pkg/sections"
)

// formatKeywordsAsJSON formats word counts as a JSON array for database
// storage. Uses mapreduce.TopKeywords() to get the top N keywords.
func formatKeywordsAsJSON(counts map[string]int, limit int) string {
	keywords := mapreduce.TopKeywords(counts, limit)
	jsonBytes, err := json.Marshal(keywords)
	if err != nil {
		return ""
	}
	return string(jsonBytes)
}

// extractAll reads every document concurrently and returns per-document
// results in input order plus the corpus-wide word counts. Extraction
// failures do not stop the run; they come back as placeholder results.
func extractAll(logger *slog.Logger, paths []string, workerCount int, params models.ExtractParams, det *detector.Detector) ([]Result, map[string]int) {
	if workerCount < 1 {
		workerCount = 1
	}
	a := &analytics.Analytics{}

	logger.Info("Starting concurrent extraction phase", "document_count", len(paths), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(paths))
	results := make(chan Result, len(paths))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, a, det, params, &wg, jobs, results)
	}

	for i, path := range paths {
		jobs <- Job{Index: i, Path: path}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All extraction workers finished")

	allResults := make([]Result, 0, len(paths))
	for result := range results {
		allResults = append(allResults, result)
	}
	// Reassemble deterministically: input order, which sections already
	// carry page order within.
	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	logger.Info("Starting MapReduce phase")
	intermediateResults := []map[string]int{}
	for _, result := range allResults {
		if result.WordCounts != nil {
			intermediateResults = append(intermediateResults, result.WordCounts)
		}
	}
	finalWordCounts := mapreduce.Reduce(intermediateResults)

	return allResults, finalWordCounts
}

func worker(id int, logger *slog.Logger, a *analytics.Analytics, det *detector.Detector, params models.ExtractParams, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started job", "worker_id", id, "document", job.Path)
		results <- extractOne(id, logger, a, det, params, job)
	}
}

// extractOne turns one file into sections plus a document profile. A file
// that cannot be read yields a placeholder section so the document still
// appears in the run, per the degradation contract.
func extractOne(id int, logger *slog.Logger, a *analytics.Analytics, det *detector.Detector, params models.ExtractParams, job Job) Result {
	filename := filepath.Base(job.Path)
	result := Result{Index: job.Index}

	doc, err := document.Open(job.Path)
	if err != nil {
		logger.Warn("Failed to extract document, inserting placeholder", "worker_id", id, "document", filename, "error", err)
		result.Err = err
		result.Sections = []models.Section{sections.Placeholder(filename)}
		result.Info = models.DocumentInfo{
			Filename: filename,
			Sections: len(result.Sections),
			Error:    err.Error(),
		}
		return result
	}

	secs := sections.FromDocument(doc, params)
	outlineFrom := doc.OutlineFrom
	if outlineFrom == "" {
		outlineFrom = document.OutlineSynthesized
	}
	fullText := strings.Join(doc.Pages, "\n")
	profile := det.Profile(fullText)

	result.Sections = secs
	// Word counts come from the sections, not the raw pages, so keyword
	// summaries reflect the content the run actually ranks.
	result.WordCounts = mapreduce.Reduce(mapreduce.MapSections(secs, a))
	result.Info = models.DocumentInfo{
		Filename:    doc.Filename,
		Pages:       doc.PageCount(),
		Sections:    len(secs),
		OutlineFrom: outlineFrom,
		Language:    profile.Language,
		Kind:        profile.Kind,
	}
	if profile.LanguageConf > 0 {
		conf := profile.LanguageConf
		result.Info.LanguageConf = &conf
	}

	logger.Info("Worker finished processing", "worker_id", id, "document", filename,
		"pages", result.Info.Pages, "sections", len(secs), "outline_from", outlineFrom,
		"language", profile.Language, "kind", profile.Kind)
	return result
}
