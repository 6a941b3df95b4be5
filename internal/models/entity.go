// Package models defines the entity types served by the content API.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEntityType is returned for a type name outside the known set.
var ErrUnknownEntityType = errors.New("unknown entity type")

// EntityType names an API resource kind.
type EntityType string

// Known entity types.
const (
	Review   EntityType = "review"
	Question EntityType = "question"
	Answer   EntityType = "answer"
	Story    EntityType = "story"
	Author   EntityType = "author"
	Product  EntityType = "product"
	Category EntityType = "category"
)

// Includes section names.
const (
	SectionReviews    = "Reviews"
	SectionQuestions  = "Questions"
	SectionAnswers    = "Answers"
	SectionStories    = "Stories"
	SectionAuthors    = "Authors"
	SectionProducts   = "Products"
	SectionCategories = "Categories"
)

var sections = map[EntityType]string{
	Review:   SectionReviews,
	Question: SectionQuestions,
	Answer:   SectionAnswers,
	Story:    SectionStories,
	Author:   SectionAuthors,
	Product:  SectionProducts,
	Category: SectionCategories,
}

// EntityTypes returns all known types in a stable order.
func EntityTypes() []EntityType {
	return []EntityType{Review, Question, Answer, Story, Author, Product, Category}
}

// ParseEntityType converts a type name such as "review" into an EntityType.
func ParseEntityType(name string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, name)
	}

	return t, nil
}

// Valid reports whether t is one of the known types.
func (t EntityType) Valid() bool {
	_, ok := sections[t]

	return ok
}

// Section returns the Includes section name for t, or "" for an unknown type.
func (t EntityType) Section() string {
	return sections[t]
}

// Plural returns the display endpoint name, e.g. story => stories, review => reviews.
func (t EntityType) Plural() string {
	s := string(t)
	if strings.HasSuffix(s, "y") {
		return strings.TrimSuffix(s, "y") + "ies"
	}

	return s + "s"
}

// SubmitEndpoint returns the submission endpoint name, e.g. submitquestion.
func (t EntityType) SubmitEndpoint() string {
	return "submit" + string(t)
}

func (t EntityType) String() string {
	return string(t)
}
