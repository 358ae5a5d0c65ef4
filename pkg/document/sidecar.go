package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/models"
)

// loadSidecarOutline looks for <stem>.json next to the document and parses
// it as an outline. A missing sidecar is not an error; a malformed one is,
// so silent structure loss never goes unnoticed.
func loadSidecarOutline(path string) (*models.Outline, error) {
	candidate := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	data, err := os.ReadFile(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading outline sidecar %s: %w", candidate, err)
	}

	var outline models.Outline
	if err := json.Unmarshal(data, &outline); err != nil {
		return nil, fmt.Errorf("parsing outline sidecar %s: %w", candidate, err)
	}
	if len(outline.Outline) == 0 {
		return nil, nil
	}
	return &outline, nil
}
