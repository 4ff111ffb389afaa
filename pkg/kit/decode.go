package kit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultMaxBodyBytes = 1 << 20

// ErrMalformedJSON marks bodies that are not parseable JSON at all: syntax
// errors, empty or truncated bodies, trailing data, oversized bodies.
var ErrMalformedJSON = errors.New("malformed json")

// FieldError is a body that parsed but does not fit the expected shape.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// DecodeJSON reads the whole body (bounded by maxBytes) into dst, rejecting
// unknown fields and anything after the first JSON value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return classifyDecodeErr(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: extra data after json object", ErrMalformedJSON)
	}
	return nil
}

func classifyDecodeErr(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return &FieldError{Reason: "body must be a JSON object"}
		}
		return &FieldError{Field: field, Reason: "must be of type " + typeErr.Type.String()}
	}

	// encoding/json has no exported type for this one
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return &FieldError{
			Field:  strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`),
			Reason: "unknown field",
		}
	}

	return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
}
