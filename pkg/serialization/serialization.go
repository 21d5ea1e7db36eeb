// Package serialization converts response text into typed values.
//
// Decode failures are never propagated: an Option logs the offending text and
// the parser message, and the caller sees an absent value.
package serialization

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/yaml"
)

// Option is a pluggable serialization strategy.
type Option interface {
	// ContentType is sent as the Content-Type request header.
	ContentType() string
	// Decode fills v from text and reports whether it succeeded.
	Decode(text string, v any) bool
}

// Deserialize decodes text into a T using opt. The boolean is false when the
// text could not be parsed; the returned value is then the zero T.
func Deserialize[T any](opt Option, text string) (T, bool) {
	var out T
	if opt == nil || !opt.Decode(text, &out) {
		var zero T
		return zero, false
	}
	return out, true
}

// JSONOption decodes JSON bodies with encoding/json.
type JSONOption struct {
	log Logger
}

// NewJSONOption builds a JSON strategy. A nil logger discards diagnostics.
func NewJSONOption(log Logger) *JSONOption {
	return &JSONOption{log: ensureLogger(log)}
}

func (*JSONOption) ContentType() string { return ContentTypeJSON }

func (o *JSONOption) Decode(text string, v any) bool {
	if err := json.Unmarshal([]byte(text), v); err != nil {
		logParseFailure(o.log, ContentTypeJSON, text, err)
		return false
	}
	return true
}

// YAMLOption decodes YAML bodies with yaml.v3.
type YAMLOption struct {
	log Logger
}

// NewYAMLOption builds a YAML strategy. A nil logger discards diagnostics.
func NewYAMLOption(log Logger) *YAMLOption {
	return &YAMLOption{log: ensureLogger(log)}
}

func (*YAMLOption) ContentType() string { return ContentTypeYAML }

func (o *YAMLOption) Decode(text string, v any) bool {
	// yaml.v3 accepts an empty document as null; an empty body is still unparseable here.
	if strings.TrimSpace(text) == "" {
		logParseFailure(o.log, ContentTypeYAML, text, errEmptyDocument)
		return false
	}
	if err := yaml.Unmarshal([]byte(text), v); err != nil {
		logParseFailure(o.log, ContentTypeYAML, text, err)
		return false
	}
	return true
}

func logParseFailure(log Logger, contentType, text string, err error) {
	log.ErrorObj("could not parse response", "parse_error", map[string]any{
		"content_type": contentType,
		"data":         text,
		"error":        err.Error(),
	})
}
