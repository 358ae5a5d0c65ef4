package models

// DocumentInfo summarizes one analyzed input document. Optional fields are
// pointers so reports can distinguish "not detected" from zero values.
type DocumentInfo struct {
	Filename     string   `json:"filename" yaml:"filename"`
	Pages        int      `json:"pages" yaml:"pages"`
	Sections     int      `json:"sections" yaml:"sections"`
	OutlineFrom  string   `json:"outline_from" yaml:"outline_from"` // sidecar, embedded, synthesized
	Language     string   `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageConf *float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`
	Kind         string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the document was skipped during extraction.
func (d *DocumentInfo) Failed() bool {
	return d.Error != ""
}
