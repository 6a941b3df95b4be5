// Package normalizer resolves the id cross-references of content API responses into an object graph.
package normalizer

import (
	"errors"
	"fmt"

	"bvapi/internal/logger"
	"bvapi/internal/models"
	"bvapi/pkg/attrmap"

	"github.com/goccy/go-json"
)

// ErrMalformedResponse wraps every error caused by unexpected response data.
var ErrMalformedResponse = errors.New("malformed response")

// Options configures a Processor.
type Options struct {
	// AllowedStatuses lists the moderation statuses kept in Results and Answers.
	// Nil keeps everything; entities without a status are always kept.
	AllowedStatuses []string `yaml:"allowed_statuses"`
}

// Processor validates and normalizes responses. It is safe for concurrent use
// on distinct responses.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	logger      *logger.Logger
}

// NewProcessor creates a new processor instance. log may be nil.
func NewProcessor(opts Options, log *logger.Logger) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(opts.AllowedStatuses),
		logger:      log,
	}
}

// Process normalizes resp as a page of entityType results. Responses reporting
// HasErrors are returned untouched. Any malformed data fails the whole pass.
func (p *Processor) Process(entityType models.EntityType, resp attrmap.Map) (attrmap.Map, error) {
	if resp != nil && resp.GetBool(models.FieldHasErrors) {
		return resp, nil
	}

	// 1. Validate the envelope
	if err := p.validator.Validate(entityType, resp); err != nil {
		return nil, fmt.Errorf("%w: validation failed: %w", ErrMalformedResponse, err)
	}

	// 2. Resolve references
	normalized, stats, err := p.transformer.Transform(entityType, resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if p.logger != nil {
		p.logger.Debug("Normalized response",
			"entity_type", entityType,
			"results", stats.Results,
			"visited", stats.Visited,
			"stubs", stats.Stubs,
			"filtered", stats.Filtered,
		)
	}

	return normalized, nil
}

// Normalize is Process for callers that cannot handle errors: on failure the
// raw response is logged and an empty HasErrors envelope is returned instead.
func (p *Processor) Normalize(entityType models.EntityType, resp attrmap.Map) attrmap.Map {
	normalized, err := p.Process(entityType, resp)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("API returned bad data",
				"entity_type", entityType,
				"error", err,
				"response", rawResponse(resp),
			)
		}

		return attrmap.EmptyEnvelope()
	}

	return normalized
}

// rawResponse renders resp for logs. The response may already be partially linked.
func rawResponse(resp attrmap.Map) string {
	data, err := json.Marshal(attrmap.Acyclic(resp))
	if err != nil {
		return fmt.Sprintf("<unencodable response: %v>", err)
	}

	return string(data)
}
