package mapreduce

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/llm-doc-ranker/models"
	"github.com/dtnitsch/llm-doc-ranker/pkg/analytics"
)

func TestMapSectionsAndReduce(t *testing.T) {
	a := &analytics.Analytics{}
	secs := []models.Section{
		{SectionTitle: "Coastal Adventures", Content: "beach beach kayaking"},
		{SectionTitle: "Nightlife", Content: "bars and beach clubs"},
	}

	intermediate := MapSections(secs, a)
	if len(intermediate) != 2 {
		t.Fatalf("len(intermediate) = %d, want 2", len(intermediate))
	}
	// Titles count toward the frequencies.
	if intermediate[0]["coastal"] != 1 {
		t.Errorf("coastal = %d, want 1", intermediate[0]["coastal"])
	}

	counts := Reduce(intermediate)
	if counts["beach"] != 3 {
		t.Errorf("beach = %d, want 3", counts["beach"])
	}
	if counts["kayaking"] != 1 {
		t.Errorf("kayaking = %d, want 1", counts["kayaking"])
	}
	// Stopwords never survive the map phase.
	if _, ok := counts["and"]; ok {
		t.Error("stopword made it into the reduced counts")
	}
}

func TestReduce_EmptyInput(t *testing.T) {
	counts := Reduce(nil)
	if len(counts) != 0 {
		t.Errorf("Reduce(nil) = %v, want empty map", counts)
	}
}

func TestTopKeywords_OrderAndFormat(t *testing.T) {
	counts := map[string]int{
		"itinerary": 37,
		"beach":     12,
		"alpha":     12,
		"museum":    2,
	}

	got := TopKeywords(counts, 3)
	want := []string{"itinerary:37", "alpha:12", "beach:12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords() = %v, want %v", got, want)
	}
}

func TestTopKeywords_FiltersMalformedTokens(t *testing.T) {
	counts := map[string]int{
		"x_train":  9,
		"range(":   8,
		"label:":   7,
		`say"`:     6,
		"balanced": 5,
	}

	got := TopKeywords(counts, 10)
	want := []string{"x_train:9", "balanced:5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords() = %v, want %v", got, want)
	}
}

func TestTopKeywords_LimitClamps(t *testing.T) {
	counts := map[string]int{"only": 1}
	if got := TopKeywords(counts, 25); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
	if got := TopKeywords(map[string]int{}, 5); len(got) != 0 {
		t.Errorf("len = %d, want 0 for empty counts", len(got))
	}
}
