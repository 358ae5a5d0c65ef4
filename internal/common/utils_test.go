package common

import (
	"reflect"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "clean name unchanged",
			raw:  "report.pdf",
			want: "report.pdf",
		},
		{
			name: "surrounding whitespace",
			raw:  "  guide.html  ",
			want: "guide.html",
		},
		{
			name: "trailing comma from list paste",
			raw:  "report.pdf,",
			want: "report.pdf",
		},
		{
			name: "quoted name",
			raw:  `"notes.md"`,
			want: "notes.md",
		},
		{
			name: "markdown link artifact",
			raw:  "(menu.txt)",
			want: "menu.txt",
		},
		{
			name: "angle brackets",
			raw:  "<cities.pdf>",
			want: "cities.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.raw); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeAndValidateFilenames(t *testing.T) {
	names := []string{
		" guide.pdf ",
		"notes.md,",
		"../escape.pdf",
		"nested/path.pdf",
		"binary.exe",
		"   ",
	}

	sanitized, invalid := SanitizeAndValidateFilenames(names)

	wantSanitized := []string{"guide.pdf", "notes.md"}
	if !reflect.DeepEqual(sanitized, wantSanitized) {
		t.Errorf("sanitized = %v, want %v", sanitized, wantSanitized)
	}

	wantInvalid := []string{"../escape.pdf", "nested/path.pdf", "binary.exe", "   "}
	if !reflect.DeepEqual(invalid, wantInvalid) {
		t.Errorf("invalid = %v, want %v", invalid, wantInvalid)
	}
}

func TestContentHash(t *testing.T) {
	data := []byte("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := ContentHash(data); got != want {
		t.Errorf("ContentHash() = %q, want %q", got, want)
	}
	if ContentHash([]byte("hello")) != ContentHash([]byte("hello")) {
		t.Error("ContentHash() is not deterministic")
	}
	if ContentHash([]byte("hello")) == ContentHash([]byte("hellp")) {
		t.Error("ContentHash() collided on different content")
	}
}

func TestFilterResultFields(t *testing.T) {
	type row struct {
		RunID   int64  `json:"run_id"`
		Persona string `json:"persona"`
		Job     string `json:"job"`
	}
	r := row{RunID: 7, Persona: "Researcher", Job: "Document analysis"}

	// No filter returns every field.
	full := FilterResultFields(r, "", false)
	if len(full) != 3 {
		t.Errorf("len(full) = %d, want 3", len(full))
	}

	// Verbose filter keeps only requested fields.
	got := FilterResultFields(r, "run_id, persona", false)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got["persona"] != "Researcher" {
		t.Errorf("persona = %v, want Researcher", got["persona"])
	}
	if _, ok := got["job"]; ok {
		t.Error("job should have been filtered out")
	}
}

func TestFilterResultFields_TerseTranslation(t *testing.T) {
	type terseRow struct {
		ID      int64  `json:"id"`
		Persona string `json:"p"`
	}
	r := terseRow{ID: 3, Persona: "Researcher"}

	// Verbose names translate to their terse keys when terse output is on.
	got := FilterResultFields(r, "run_id,persona", true)
	if _, ok := got["id"]; !ok {
		t.Error("run_id should translate to id in terse mode")
	}
	if _, ok := got["p"]; !ok {
		t.Error("persona should translate to p in terse mode")
	}
}
