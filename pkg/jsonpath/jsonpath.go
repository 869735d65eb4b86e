// Package jsonpath reads single values out of JSON documents with a small
// JSONPath dialect ($.a.b[0].c) translated to gjson paths.
package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when the document does not parse.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrPathNotFound is returned when nothing exists at the path.
	ErrPathNotFound = errors.New("path not found")
	// ErrNullValue is returned when the path holds an explicit JSON null.
	ErrNullValue = errors.New("null value")
)

// Extract extracts a value from a JSON string using a JSONPath expression.
// Strings are returned unquoted; objects, arrays, numbers and booleans as their raw text.
// When an object repeats a key the last occurrence wins, as with encoding/json.
func Extract(json string, path string) (string, error) {
	if json == "" {
		return "", fmt.Errorf("empty JSON string: %w", ErrInvalidJSON)
	}

	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}

	if !gjson.Valid(json) {
		return "", ErrInvalidJSON
	}

	result := lookup(gjson.Parse(json), convertToGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	if result.Type == gjson.Null {
		return "", fmt.Errorf("%w at %s", ErrNullValue, path)
	}

	return result.String(), nil
}

// Valid reports whether data is a well-formed JSON document.
func Valid(data []byte) bool {
	return gjson.ValidBytes(data)
}

func lookup(doc gjson.Result, path string) gjson.Result {
	if path == "@this" {
		return doc
	}

	cur := doc
	for _, key := range strings.Split(path, ".") {
		switch {
		case cur.IsObject():
			var last gjson.Result
			cur.ForEach(func(k, v gjson.Result) bool {
				if k.String() == key {
					last = v
				}
				return true
			})
			cur = last
		case cur.IsArray():
			cur = cur.Get(key)
		default:
			return gjson.Result{}
		}
		if !cur.Exists() {
			return cur
		}
	}
	return cur
}

// convertToGjsonPath converts a JSONPath expression to a gjson path format
func convertToGjsonPath(path string) string {
	if path == "$" {
		return "@this"
	}

	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}
	path = strings.TrimPrefix(path, ".")

	// $['name'] and $["name"]
	path = strings.NewReplacer("['", ".", "']", "", "[\"", ".", "\"]", "").Replace(path)

	// [n] -> .n
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	return strings.TrimPrefix(path, ".")
}
