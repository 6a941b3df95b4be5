package integration

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"bvapi/internal/models"
	"bvapi/internal/normalizer"
	"bvapi/pkg/attrmap"
)

func loadFixture(t *testing.T, name string) attrmap.Map {
	t.Helper()

	content, err := os.ReadFile(filepath.Join("..", "fixtures", name))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	resp, err := attrmap.Unmarshal(content)
	if err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}

	return resp
}

func sameMap(a, b attrmap.Map) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestNormalizer_QuestionPage(t *testing.T) {
	resp := loadFixture(t, "questions.json")

	processor := normalizer.NewProcessor(normalizer.Options{}, nil)

	out, err := processor.Process(models.Question, resp)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	results := out.GetList(models.FieldResults)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	q1 := results[0].(attrmap.Map)

	answers := q1.GetList(models.FieldAnswers)
	if len(answers) != 3 {
		t.Fatalf("Expected 3 answers, got %d", len(answers))
	}

	a1 := answers[0].(attrmap.Map)
	if !sameMap(a1.GetMap(models.FieldQuestion), q1) {
		t.Error("A1.Question should be the Q1 result itself")
	}

	// A3 was not included and becomes a stub.
	a3 := answers[2].(attrmap.Map)
	if len(a3) != 1 || a3.GetString(models.FieldID) != "A3" {
		t.Errorf("Expected stub {Id: A3}, got %v", a3)
	}

	// Authors and products are shared instances across the graph.
	u2 := a1.GetMap(models.FieldAuthor)
	q2 := results[1].(attrmap.Map)

	if !sameMap(u2, q2.GetMap(models.FieldAuthor)) {
		t.Error("U2 should be shared between A1 and Q2")
	}

	if !sameMap(q1.GetMap(models.FieldProduct), q2.GetMap(models.FieldProduct)) {
		t.Error("P1 should be shared between Q1 and Q2")
	}

	// Products are leaves: their CategoryId is not resolved.
	if q1.GetMap(models.FieldProduct).Has(models.FieldCategory) {
		t.Error("Product references should not be resolved")
	}

	want := time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)
	if got, ok := q1.Get(models.FieldSubmissionTime).(time.Time); !ok || !got.Equal(want) {
		t.Errorf("SubmissionTime = %v, want %v", q1.Get(models.FieldSubmissionTime), want)
	}

	if _, ok := q1.GetMap(models.FieldAuthor).Get(models.FieldLastModeratedTime).(time.Time); !ok {
		t.Error("Author timestamps should be parsed")
	}

	if q2.Has(models.FieldAnswers) {
		t.Error("An empty AnswerIds list should not produce Answers")
	}

	// Envelope fields are untouched.
	if out.GetInt(models.FieldTotalResults) != 2 || out.GetString("Locale") != "en_US" {
		t.Errorf("Envelope fields changed: %v", out)
	}
}

func TestNormalizer_QuestionPageFiltered(t *testing.T) {
	resp := loadFixture(t, "questions.json")

	processor := normalizer.NewProcessor(normalizer.Options{AllowedStatuses: []string{"APPROVED"}}, nil)

	out, err := processor.Process(models.Question, resp)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	results := out.GetList(models.FieldResults)
	if len(results) != 1 {
		t.Fatalf("Expected only Q1, got %d results", len(results))
	}

	// A1 is APPROVED, A2 is PENDING, and the A3 stub has no status.
	answers := results[0].(attrmap.Map).GetList(models.FieldAnswers)

	var ids []string
	for _, a := range answers {
		ids = append(ids, a.(attrmap.Map).GetString(models.FieldID))
	}

	if !reflect.DeepEqual(ids, []string{"A1", "A3"}) {
		t.Errorf("Answer ids = %v, want [A1 A3]", ids)
	}
}
