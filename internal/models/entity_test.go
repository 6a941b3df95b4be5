package models

import (
	"errors"
	"testing"
)

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		input    string
		expected EntityType
	}{
		{"review", Review},
		{"Question", Question},
		{" answer ", Answer},
		{"story", Story},
		{"CATEGORY", Category},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEntityType(tt.input)
			if err != nil {
				t.Fatalf("ParseEntityType(%q) failed: %v", tt.input, err)
			}

			if got != tt.expected {
				t.Errorf("ParseEntityType(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseEntityType_Unknown(t *testing.T) {
	_, err := ParseEntityType("comment")
	if !errors.Is(err, ErrUnknownEntityType) {
		t.Errorf("ParseEntityType(comment) error = %v, want ErrUnknownEntityType", err)
	}
}

func TestEntityType_Section(t *testing.T) {
	tests := []struct {
		typ      EntityType
		expected string
	}{
		{Review, "Reviews"},
		{Question, "Questions"},
		{Answer, "Answers"},
		{Story, "Stories"},
		{Author, "Authors"},
		{Product, "Products"},
		{Category, "Categories"},
		{EntityType("comment"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Section(); got != tt.expected {
				t.Errorf("Section() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEntityType_Plural(t *testing.T) {
	tests := []struct {
		typ      EntityType
		expected string
	}{
		{Review, "reviews"},
		{Story, "stories"},
		{Category, "categories"},
		{Author, "authors"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Plural(); got != tt.expected {
				t.Errorf("Plural() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEntityType_SubmitEndpoint(t *testing.T) {
	if got := Question.SubmitEndpoint(); got != "submitquestion" {
		t.Errorf("SubmitEndpoint() = %q, want submitquestion", got)
	}
}

func TestEntityTypes(t *testing.T) {
	for _, typ := range EntityTypes() {
		if !typ.Valid() {
			t.Errorf("EntityTypes() returned invalid type %q", typ)
		}
	}

	if len(EntityTypes()) != 7 {
		t.Errorf("Expected 7 entity types, got %d", len(EntityTypes()))
	}
}
