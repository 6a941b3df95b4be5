package normalizer

import (
	"errors"
	"fmt"
	"reflect"

	"bvapi/internal/models"
	"bvapi/pkg/attrmap"
)

// reference links a foreign-key field to the field that receives the resolved entity.
type reference struct {
	idField    string
	field      string
	entityType models.EntityType
}

var subjectReferences = []reference{
	{models.FieldProductID, models.FieldProduct, models.Product},
	{models.FieldCategoryID, models.FieldCategory, models.Category},
	{models.FieldQuestionID, models.FieldQuestion, models.Question},
}

var authorReference = reference{models.FieldAuthorID, models.FieldAuthor, models.Author}

// Stats counts what a single normalization pass did.
type Stats struct {
	Results  int
	Visited  int
	Stubs    int
	Filtered int
}

// Transformer resolves the id references of a response into an object graph.
type Transformer struct {
	allowed map[string]struct{}
}

// NewTransformer creates a transformer. A nil allowedStatuses disables status filtering.
func NewTransformer(allowedStatuses []string) *Transformer {
	t := &Transformer{}
	if allowedStatuses != nil {
		t.allowed = make(map[string]struct{}, len(allowedStatuses))
		for _, s := range allowedStatuses {
			t.allowed[s] = struct{}{}
		}
	}

	return t
}

// Transform normalizes resp in place as a page of entityType results.
// resp must already have passed Validator.Validate.
func (t *Transformer) Transform(entityType models.EntityType, resp attrmap.Map) (attrmap.Map, Stats, error) {
	section := entityType.Section()
	if section == "" {
		return nil, Stats{}, fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}

	results, err := resultsOf(resp)
	if err != nil {
		return nil, Stats{}, err
	}

	var includes attrmap.Map

	switch v := resp.Get(models.FieldIncludes).(type) {
	case nil:
		includes = attrmap.New()
	case attrmap.Map:
		includes = v
	default:
		return nil, Stats{}, fmt.Errorf("%w: got %T", ErrIncludesNotObject, v)
	}

	// Results are reachable by id so back-references resolve to the same instances.
	keys := make([]string, len(results))
	seeded := make(attrmap.Map, len(results))

	for i, item := range results {
		entity, ok := item.(attrmap.Map)
		if !ok {
			return nil, Stats{}, fmt.Errorf("%w at index %d", ErrResultNotObject, i)
		}

		key, err := idKey(entity.Get(models.FieldID))
		if err != nil {
			return nil, Stats{}, fmt.Errorf("%w at index %d", err, i)
		}

		keys[i] = key
		if !seeded.Has(key) {
			seeded[key] = entity
		}
	}

	includes.Set(section, seeded)

	p := newPass(includes, t.allowed)
	p.stats.Results = len(results)

	normalized := make([]any, 0, len(results))

	for i, item := range results {
		entity := item.(attrmap.Map)
		if err := p.visit(entityType, keys[i], entity); err != nil {
			return nil, p.stats, fmt.Errorf("result %d (%s %s): %w", i, entityType, keys[i], err)
		}

		normalized = append(normalized, entity)
	}

	resp.Set(models.FieldResults, p.filter(normalized))

	return resp, p.stats, nil
}

// visitKey identifies an entity within one pass.
type visitKey struct {
	section string
	id      string
}

// pass holds the state of one normalization call.
type pass struct {
	includes attrmap.Map
	visited  map[visitKey]struct{}
	allowed  map[string]struct{}
	stats    Stats
}

func newPass(includes attrmap.Map, allowed map[string]struct{}) *pass {
	return &pass{
		includes: includes,
		visited:  make(map[visitKey]struct{}),
		allowed:  allowed,
	}
}

// visit normalizes entity once per (section, id); later visits return immediately.
func (p *pass) visit(entityType models.EntityType, id string, entity attrmap.Map) error {
	key := visitKey{section: entityType.Section(), id: id}
	if _, seen := p.visited[key]; seen {
		return nil
	}

	p.visited[key] = struct{}{}
	p.stats.Visited++

	switch entityType {
	case models.Review, models.Answer, models.Story:
		return p.normalizeContent(entity)
	case models.Question:
		if err := p.normalizeContent(entity); err != nil {
			return err
		}

		return p.normalizeAnswers(entity)
	case models.Author:
		return normalizeTimestamps(entity)
	case models.Product, models.Category:
		return nil
	}

	return fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
}

// normalizeContent handles the fields shared by user-generated content types.
func (p *pass) normalizeContent(entity attrmap.Map) error {
	if err := normalizeTimestamps(entity); err != nil {
		return err
	}

	for _, ref := range subjectReferences {
		if err := p.attach(entity, ref); err != nil {
			return err
		}
	}

	return p.attach(entity, authorReference)
}

func (p *pass) normalizeAnswers(question attrmap.Map) error {
	raw := question.Get(models.FieldAnswerIDs)
	if raw == nil {
		return nil
	}

	ids, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrAnswerIDsNotList, raw)
	}

	if len(ids) == 0 {
		return nil
	}

	answers := make([]any, 0, len(ids))

	for i, id := range ids {
		key, err := idKey(id)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", models.FieldAnswerIDs, i, err)
		}

		answer, _, err := p.resolve(models.SectionAnswers, id)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", models.FieldAnswerIDs, i, err)
		}

		if err := p.visit(models.Answer, key, answer); err != nil {
			return err
		}

		answers = append(answers, answer)
	}

	question.Set(models.FieldAnswers, p.filter(answers))

	return nil
}

// attach resolves ref on entity and stores the resolved entity under ref.field.
func (p *pass) attach(entity attrmap.Map, ref reference) error {
	id := entity.Get(ref.idField)
	if !present(id) {
		return nil
	}

	key, err := idKey(id)
	if err != nil {
		return fmt.Errorf("%s: %w", ref.idField, err)
	}

	target, _, err := p.resolve(ref.entityType.Section(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", ref.idField, err)
	}

	if err := p.visit(ref.entityType, key, target); err != nil {
		return err
	}

	entity.Set(ref.field, target)

	return nil
}

// resolve returns the entity stored under (section, id), creating a stub {Id: id}
// when it was not included. created reports whether the stub was made.
func (p *pass) resolve(section string, id any) (entity attrmap.Map, created bool, err error) {
	key, err := idKey(id)
	if err != nil {
		return nil, false, err
	}

	table, err := p.includes.Ensure(section)
	if err != nil {
		if errors.Is(err, attrmap.ErrNotAnObject) {
			return nil, false, fmt.Errorf("%w: %s", ErrSectionNotObject, section)
		}

		return nil, false, err
	}

	// A null entry is treated as absent.
	if v, ok := table.Lookup(key); ok && v == nil {
		table.Delete(key)
	}

	stub := attrmap.Map{models.FieldID: id}

	found, ok := table.SetDefault(key, stub).(attrmap.Map)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s[%s] is %T", ErrIncludedNotObject, section, key, table.Get(key))
	}

	if reflect.ValueOf(found).Pointer() != reflect.ValueOf(stub).Pointer() {
		return found, false, nil
	}

	p.stats.Stubs++

	return stub, true, nil
}

// filter drops entities whose moderation status is set and not allowed.
func (p *pass) filter(items []any) []any {
	if p.allowed == nil {
		return items
	}

	kept := make([]any, 0, len(items))

	for _, item := range items {
		entity, _ := item.(attrmap.Map)

		status := entity.Get(models.FieldModerationStatus)
		if status == nil {
			kept = append(kept, item)

			continue
		}

		if s, ok := status.(string); ok {
			if _, allowed := p.allowed[s]; allowed {
				kept = append(kept, item)

				continue
			}
		}

		p.stats.Filtered++
	}

	return kept
}

func present(id any) bool {
	if id == nil {
		return false
	}

	if s, ok := id.(string); ok && s == "" {
		return false
	}

	return true
}
