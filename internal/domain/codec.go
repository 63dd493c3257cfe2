package domain

import (
	"encoding/json"

	"github.com/harborgroup/harbor-app/pkg/apperr"
)

// Validator is satisfied by every entity in this package.
type Validator interface {
	Validate() error
}

// Encode marshals an entity into its wire form: snake_case keys, RFC 3339
// timestamps, null updated_at until the first mutation.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.Decode("encode entity", err)
	}
	return data, nil
}

// DecodeRow unmarshals a single wire row into an entity and validates it.
// Unknown enum values and missing required fields are decode errors, never
// silent defaults.
func DecodeRow[T Validator](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, apperr.Decode("malformed row", err)
	}
	if err := v.Validate(); err != nil {
		return v, apperr.Decode("invalid row", err)
	}
	return v, nil
}

// DecodeRows unmarshals a wire array and validates every element.
func DecodeRows[T Validator](data []byte) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperr.Decode("malformed row list", err)
	}
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, apperr.Decode("invalid row", err)
		}
	}
	return rows, nil
}
