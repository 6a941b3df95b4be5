package normalizer

import (
	"errors"
	"fmt"
	"strconv"

	"bvapi/internal/models"
	"bvapi/pkg/attrmap"

	"github.com/goccy/go-json"
)

// Validation errors.
var (
	ErrNilResponse         = errors.New("response is nil")
	ErrResultsNotList      = errors.New("results is not a list")
	ErrResultNotObject     = errors.New("result is not an object")
	ErrMissingID           = errors.New("entity missing Id")
	ErrInvalidID           = errors.New("entity Id has unsupported type")
	ErrIncludesNotObject   = errors.New("includes is not an object")
	ErrSectionNotObject    = errors.New("includes section is not an object")
	ErrIncludedNotObject   = errors.New("included entity is not an object")
	ErrAnswerIDsNotList    = errors.New("AnswerIds is not a list")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrUnsupportedTimeType = errors.New("timestamp has unsupported type")
)

// Validator checks that a decoded response has the envelope shape the walk relies on.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the envelope for entityType.
func (v *Validator) Validate(entityType models.EntityType, resp attrmap.Map) error {
	if resp == nil {
		return ErrNilResponse
	}

	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}

	results, err := resultsOf(resp)
	if err != nil {
		return err
	}

	for i, item := range results {
		entity, ok := item.(attrmap.Map)
		if !ok {
			return fmt.Errorf("%w at index %d: got %T", ErrResultNotObject, i, item)
		}

		if _, err := idKey(entity.Get(models.FieldID)); err != nil {
			return fmt.Errorf("%w at index %d", err, i)
		}
	}

	raw := resp.Get(models.FieldIncludes)
	if raw == nil {
		return nil
	}

	includes, ok := raw.(attrmap.Map)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrIncludesNotObject, raw)
	}

	// Only the sections the walk reads are checked; other keys pass through untouched.
	for _, t := range models.EntityTypes() {
		section := t.Section()

		table := includes.Get(section)
		if table == nil {
			continue
		}

		if _, ok := table.(attrmap.Map); !ok {
			return fmt.Errorf("%w: %s", ErrSectionNotObject, section)
		}
	}

	return nil
}

// resultsOf returns the Results list; a missing or null list is empty.
func resultsOf(resp attrmap.Map) ([]any, error) {
	raw := resp.Get(models.FieldResults)
	if raw == nil {
		return nil, nil
	}

	results, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrResultsNotList, raw)
	}

	return results, nil
}

// idKey converts an Id value into the string key used by Includes tables.
func idKey(id any) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", ErrMissingID
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		return v.String(), nil
	}

	return "", fmt.Errorf("%w: %T", ErrInvalidID, id)
}
