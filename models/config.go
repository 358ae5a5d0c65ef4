// Package models defines data structures for configuration and ranking.
package models

// AnalyzeConfig holds runtime configuration for one analyze run.
// All values come from CLI flags, not external config files.
type AnalyzeConfig struct {
	InputDir       string
	SpecPath       string
	OutputPath     string
	ModelURL       string
	ModelName      string
	CallBudget     int
	WorkerCount    int
	CacheDir       string
	NoCache        bool
	DBPath         string
	DebugArtifacts bool
}
