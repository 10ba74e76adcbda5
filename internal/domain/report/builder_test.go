package report

import (
	"bytes"
	"testing"

	"foodvision-server-go/internal/domain/info"
	"foodvision-server-go/internal/domain/video"
	"foodvision-server-go/internal/platform/errors"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		food     string
		expected string
	}{
		{"single space", "Jollof Rice", "Jollof_Rice_report.pdf"},
		{"no space", "Suya", "Suya_report.pdf"},
		{"multiple words", "Moi Moi Deluxe", "Moi_Moi_Deluxe_report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.food); got != tt.expected {
				t.Errorf("Filename(%q) = %q, expected %q", tt.food, got, tt.expected)
			}
		})
	}
}

func TestBuild_MinimalDocument(t *testing.T) {
	builder := NewBuilder(nil)

	payload, err := builder.Build(Document{
		FoodName: "Jollof Rice",
		Sections: []Section{
			{Category: info.CategoryCalories, Answer: "350 kcal"},
		},
	})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if !bytes.HasPrefix(payload, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}

	for _, want := range []string{"Food Report: Jollof Rice", "Food Information:", "Calories content:", "350 kcal"} {
		if !bytes.Contains(payload, []byte(want)) {
			t.Errorf("document missing %q", want)
		}
	}
	// No constraints and no video were supplied, so those sections must be
	// absent.
	for _, absent := range []string{"Underlying conditions", "Preparation Video"} {
		if bytes.Contains(payload, []byte(absent)) {
			t.Errorf("document unexpectedly contains %q", absent)
		}
	}
}

func TestBuild_SectionOrdering(t *testing.T) {
	builder := NewBuilder(nil)

	payload, err := builder.Build(Document{
		FoodName:    "Egusi Soup",
		Constraints: []string{"diabetes", "hypertension"},
		Sections: []Section{
			{Category: info.CategoryIngredients, Answer: "Melon seeds"},
			{Category: info.CategoryCalories, Answer: "600 kcal"},
		},
		Video: &video.Result{
			Title: "Egusi walkthrough",
			Link:  "https://www.youtube.com/watch?v=xyz",
		},
	})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// Compression is off, so rendered text appears in the output in layout
	// order.
	markers := []string{
		"Food Report: Egusi Soup",
		"Underlying conditions: diabetes, hypertension",
		"Food Information:",
		"Ingredients:",
		"Melon seeds",
		"Calories content:",
		"600 kcal",
		"Preparation Video:",
		"Egusi walkthrough",
		"Link: https://www.youtube.com/watch?v=xyz",
	}

	last := -1
	for _, marker := range markers {
		idx := bytes.Index(payload, []byte(marker))
		if idx < 0 {
			t.Fatalf("document missing %q", marker)
		}
		if idx <= last {
			t.Errorf("marker %q appears out of order", marker)
		}
		last = idx
	}
}

func TestBuild_RequiresFoodName(t *testing.T) {
	builder := NewBuilder(nil)

	_, err := builder.Build(Document{FoodName: "   "})
	if err == nil {
		t.Fatal("expected error for blank food name")
	}
	if !errors.IsKind(err, errors.KindReport) {
		t.Errorf("expected report error kind, got %v", err)
	}
}
