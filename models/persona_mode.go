package models

// PersonaMode records where the persona and job used by a run came from.
type PersonaMode int

const (
	// PersonaModeConfigured means both came from the run spec file.
	PersonaModeConfigured PersonaMode = iota
	PersonaModeInferred                // Inferred from document content
	PersonaModeFallback                // Neither spec nor inference produced one
)

// String returns the mode name used in reports and logs.
func (m PersonaMode) String() string {
	switch m {
	case PersonaModeConfigured:
		return "configured"
	case PersonaModeInferred:
		return "inferred"
	default:
		return "fallback"
	}
}
