package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-doc-ranker/pkg/document"
)

// fieldNameMap maps verbose field names to terse equivalents.
var fieldNameMap = map[string]string{
	"run_id":         "id",
	"created_at":     "at",
	"persona":        "p",
	"job":            "j",
	"persona_mode":   "pm",
	"document_count": "dc",
	"section_count":  "sc",
	"model_calls":    "mc",
	"elapsed_ms":     "ms",
	"output_path":    "o",
	"top_keywords":   "kw",
}

func FilterResultFields(result interface{}, fieldsStr string, isTerse bool) map[string]interface{} {
	if fieldsStr == "" {
		// No filtering, convert to map and return all fields
		return structToMap(result)
	}

	requestedFields := strings.Split(fieldsStr, ",")
	for i := range requestedFields {
		requestedFields[i] = strings.TrimSpace(requestedFields[i])
	}

	// Build set of fields to include (translate verbose->terse if needed)
	includeFields := make(map[string]bool)
	for _, field := range requestedFields {
		if isTerse {
			// If terse mode, check if user provided verbose name and translate
			if terseField, ok := fieldNameMap[field]; ok {
				includeFields[terseField] = true
			} else {
				// User already provided terse name
				includeFields[field] = true
			}
		} else {
			includeFields[field] = true
		}
	}

	// Convert struct to map
	fullMap := structToMap(result)

	// Filter map
	filtered := make(map[string]interface{})
	for key, value := range fullMap {
		if includeFields[key] {
			filtered[key] = value
		}
	}

	return filtered
}

// structToMap converts a struct to map[string]interface{} using JSON marshaling.
func structToMap(obj interface{}) map[string]interface{} {
	data, _ := json.Marshal(obj)
	var result map[string]interface{}
	_ = json.Unmarshal(data, &result)
	return result
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizeFilename performs basic cleanup on filenames that arrive via run
// spec JSON or flags. Removes whitespace and common copy-paste artifacts.
func SanitizeFilename(raw string) string {
	cleaned := strings.TrimSpace(raw)

	// Remove common trailing punctuation from copy-paste errors
	// Example: "report.pdf," -> "report.pdf"
	trailingChars := []string{",", ";", ")", "}", "]", "\"", "'", ">"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	// Remove leading formatting artifacts
	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	cleaned = strings.TrimSpace(cleaned)

	return cleaned
}

// SanitizeAndValidateFilenames sanitizes document filenames and returns
// (sanitized names, invalid names). Validation is syntactic; a name that
// passes here can still fail at extraction time and becomes a placeholder
// entry rather than an error.
func SanitizeAndValidateFilenames(names []string) ([]string, []string) {
	sanitized := make([]string, 0, len(names))
	var invalid []string

	for _, raw := range names {
		cleaned := SanitizeFilename(raw)

		// Empty names after sanitization are invalid
		if cleaned == "" {
			invalid = append(invalid, raw)
			continue
		}

		// Names must be bare filenames relative to the input directory
		if strings.ContainsAny(cleaned, "/\\") || strings.Contains(cleaned, "..") {
			invalid = append(invalid, raw)
			continue
		}

		if !document.Supported(cleaned) {
			invalid = append(invalid, raw)
			continue
		}

		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalid
}
