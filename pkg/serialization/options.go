package serialization

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyDocument = errors.New("empty document")

// ForName resolves a strategy by its configured name ("json" or "yaml").
func ForName(name string, log Logger) (Option, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return NewJSONOption(log), nil
	case "yaml", "yml":
		return NewYAMLOption(log), nil
	default:
		return nil, fmt.Errorf("unsupported serialization %q", name)
	}
}
