package normalizer

import (
	"fmt"
	"time"

	"bvapi/internal/models"
	"bvapi/pkg/attrmap"

	"github.com/araddon/dateparse"
)

// ParseTimestamp converts an ISO-8601 timestamp into a time.Time that keeps the input offset.
// Timestamps without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}

	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidTimestamp, s, err)
	}

	return ts, nil
}

// normalizeTimestamps replaces timestamp strings on entity with parsed times.
func normalizeTimestamps(entity attrmap.Map) error {
	for _, field := range models.TimestampFields {
		raw := entity.Get(field)

		switch v := raw.(type) {
		case nil, time.Time:
			continue
		case string:
			if v == "" {
				continue
			}

			ts, err := ParseTimestamp(v)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}

			entity.Set(field, ts)
		default:
			return fmt.Errorf("%w: %s is %T", ErrUnsupportedTimeType, field, raw)
		}
	}

	return nil
}
