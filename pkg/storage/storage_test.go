package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSaveAndReadFile(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "artifact.json")
	content := []byte(`{"ok":true}`)

	if err := s.SaveFile(path, content); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Error("HasFile() = false after SaveFile")
	}

	got, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("ReadFile() = %q, want %q", got, content)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len(content)) {
		t.Errorf("SizeBytes = %d, want %d", stats.SizeBytes, len(content))
	}
}

func TestHasFile_Missing(t *testing.T) {
	s := &Storage{}
	if s.HasFile(filepath.Join(t.TempDir(), "nope.json")) {
		t.Error("HasFile() = true for missing file")
	}
}

func TestEnsureDir_Nested(t *testing.T) {
	s := &Storage{}
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := s.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	// Idempotent on an existing directory.
	if err := s.EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
	if err := s.SaveFile(filepath.Join(dir, "f.txt"), []byte("x")); err != nil {
		t.Errorf("SaveFile() into created dir error = %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{
			name:  "plain label unchanged",
			label: "travel-planner_v2",
			want:  "travel-planner_v2",
		},
		{
			name:  "spaces and slashes collapse",
			label: "South of France / Cities",
			want:  "South_of_France_Cities",
		},
		{
			name:  "leading and trailing junk trimmed",
			label: "  (draft)  ",
			want:  "draft",
		},
		{
			name:  "nothing usable falls back",
			label: "///",
			want:  "artifact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.label); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		suffix  string
		want    string
	}{
		{
			name:    "sibling next to result",
			primary: filepath.Join("out", "result.json"),
			suffix:  "sections.yaml",
			want:    filepath.Join("out", "result.sections.yaml"),
		},
		{
			name:    "bare filename",
			primary: "analysis.json",
			suffix:  "manifest.json",
			want:    "analysis.manifest.json",
		},
		{
			name:    "no extension",
			primary: filepath.Join("out", "analysis"),
			suffix:  "sections.yaml",
			want:    filepath.Join("out", "analysis.sections.yaml"),
		},
		{
			name:    "empty stem falls back",
			primary: filepath.Join("out", ".json"),
			suffix:  "manifest.json",
			want:    filepath.Join("out", "result.manifest.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivedPath(tt.primary, tt.suffix); got != tt.want {
				t.Errorf("DerivedPath(%q, %q) = %q, want %q", tt.primary, tt.suffix, got, tt.want)
			}
		})
	}
}
