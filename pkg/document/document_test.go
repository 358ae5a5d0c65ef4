package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses horizontal whitespace",
			input: "one   two\t\tthree",
			want:  "one two three",
		},
		{
			name:  "collapses blank lines to single newline",
			input: "first line\n\n\n  second line  ",
			want:  "first line\nsecond line",
		},
		{
			name:  "windows line endings",
			input: "a\r\nb\r\nc",
			want:  "a\nb\nc",
		},
		{
			name:  "whitespace only",
			input: " \n\t \n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n  \nIntroduction to Trip Planning\nmore text"); got != "Introduction to Trip Planning" {
		t.Errorf("FirstLine() = %q, want %q", got, "Introduction to Trip Planning")
	}
	if got := FirstLine(""); got != "" {
		t.Errorf("FirstLine(empty) = %q, want empty", got)
	}
}

func TestMarkdownHeading(t *testing.T) {
	tests := []struct {
		line      string
		wantDepth int
		wantTitle string
	}{
		{"# Title", 1, "Title"},
		{"### Deep Section", 3, "Deep Section"},
		{"#NoSpace", 0, ""},
		{"####### too deep", 0, ""},
		{"plain text", 0, ""},
		{"#   ", 0, ""},
	}

	for _, tt := range tests {
		depth, title := markdownHeading(tt.line)
		if depth != tt.wantDepth || title != tt.wantTitle {
			t.Errorf("markdownHeading(%q) = (%d, %q), want (%d, %q)",
				tt.line, depth, title, tt.wantDepth, tt.wantTitle)
		}
	}
}

func TestReadText_PagesAndOutline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	content := "# Overview\nSome intro text here.\n\n\f# Details\nBody of the details page.\n## Sub Detail\nMore text."
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}
	if doc.Outline == nil {
		t.Fatal("Outline = nil, want markdown headings")
	}
	if len(doc.Outline.Outline) != 3 {
		t.Fatalf("got %d outline entries, want 3", len(doc.Outline.Outline))
	}

	first := doc.Outline.Outline[0]
	if first.Text != "Overview" || first.Page != 1 || first.Level != "H1" {
		t.Errorf("first entry = %+v, want Overview/1/H1", first)
	}
	sub := doc.Outline.Outline[2]
	if sub.Text != "Sub Detail" || sub.Page != 2 || sub.Level != "H2" {
		t.Errorf("third entry = %+v, want Sub Detail/2/H2", sub)
	}
	if doc.OutlineFrom != OutlineEmbedded {
		t.Errorf("OutlineFrom = %q, want %q", doc.OutlineFrom, OutlineEmbedded)
	}
	if doc.Title != "Overview" {
		t.Errorf("Title = %q, want %q", doc.Title, "Overview")
	}
}

func TestOpen_SidecarOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(docPath, []byte("Plain body text.\fSecond page text."), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	sidecar := `{"title": "Annual Report", "outline": [{"text": "Results", "page": 2, "level": "H1"}]}`
	if err := os.WriteFile(filepath.Join(dir, "report.json"), []byte(sidecar), 0644); err != nil {
		t.Fatalf("writing sidecar: %v", err)
	}

	doc, err := Open(docPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if doc.OutlineFrom != OutlineSidecar {
		t.Fatalf("OutlineFrom = %q, want %q", doc.OutlineFrom, OutlineSidecar)
	}
	if doc.Title != "Annual Report" {
		t.Errorf("Title = %q, want %q", doc.Title, "Annual Report")
	}
	if len(doc.Outline.Outline) != 1 || doc.Outline.Outline[0].Text != "Results" {
		t.Errorf("outline = %+v, want single Results entry", doc.Outline.Outline)
	}
}

func TestOpen_MalformedSidecarFails(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(docPath, []byte("text"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing sidecar: %v", err)
	}

	if _, err := Open(docPath); err == nil {
		t.Error("Open() with malformed sidecar should fail")
	}
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	if _, err := Open("/tmp/file.docx"); err == nil {
		t.Error("Open() should reject unsupported extensions")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.pdf", true},
		{"b.HTML", true},
		{"c.md", true},
		{"d.json", false},
		{"e", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDocumentPageText(t *testing.T) {
	doc := &Document{Pages: []string{"page one", "page two"}}

	if got := doc.PageText(1); got != "page one" {
		t.Errorf("PageText(1) = %q, want %q", got, "page one")
	}
	if got := doc.PageText(3); got != "" {
		t.Errorf("PageText(3) = %q, want empty", got)
	}
	if got := doc.PageText(0); got != "" {
		t.Errorf("PageText(0) = %q, want empty", got)
	}
}
