package formatter

import (
	"fmt"

	"bvapi/pkg/attrmap"

	"github.com/goccy/go-json"
)

// FormatJSON renders env as indented JSON. Cycles in the normalized graph are
// cut to {"Id": ...} stubs; timestamps are written in RFC 3339.
func FormatJSON(env attrmap.Map) ([]byte, error) {
	data, err := json.MarshalIndent(attrmap.Acyclic(env), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return append(data, '\n'), nil
}
