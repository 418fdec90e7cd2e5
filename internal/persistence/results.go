package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotArray is returned when a results file exists but does not contain
// a JSON array. The file is never overwritten in that case: losing the
// recorded history would be worse than failing the append.
var ErrNotArray = errors.New("results file does not contain a JSON array")

// LoadResults reads the results file at path and returns its elements.
// A missing or empty file yields an empty collection.
func LoadResults(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var results []json.RawMessage
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, path)
	}
	return results, nil
}

// AppendResult loads the collection at path, appends result to it and
// rewrites the whole file as one JSON array. The rewrite only happens
// after the existing content has been validated.
func AppendResult(path string, result json.RawMessage) error {
	results, err := LoadResults(path)
	if err != nil {
		return err
	}
	results = append(results, result)
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
