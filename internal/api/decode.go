package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	apperr "github.com/oggyb/liftlink/internal/errors"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Messages maps a struct field name to the error reported when that field
// fails validation. The "" key is the fallback.
type Messages map[string]string

// DecodeValidBody decodes the JSON body into B and validates it.
//
// Behavior:
//   - An empty body decodes as {} so required-field rules produce the
//     caller's message rather than a parse error.
//   - Malformed JSON -> InvalidArgument "Invalid JSON body".
//   - The first failing field picks its message from msgs.
func DecodeValidBody[B any](r *http.Request, msgs Messages) (B, error) {
	var body B
	if err := decodeBody(r, &body); err != nil {
		return body, err
	}
	if err := Validate(body, msgs); err != nil {
		return body, err
	}
	return body, nil
}

// DecodeBody decodes without validation, for partial updates.
func DecodeBody[B any](r *http.Request) (B, error) {
	var body B
	err := decodeBody(r, &body)
	return body, err
}

func decodeBody(r *http.Request, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.InvalidArgument("Invalid JSON body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.InvalidArgument("Invalid JSON body")
	}
	return nil
}

// Validate runs struct validation and translates the first failure.
func Validate(v any, msgs Messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Wrap(apperr.CodeInternal, "validation failed", err)
	}
	if msg, ok := msgs[verrs[0].StructField()]; ok {
		return apperr.InvalidArgument(msg)
	}
	if msg, ok := msgs[""]; ok {
		return apperr.InvalidArgument(msg)
	}
	return apperr.InvalidArgument(verrs[0].Error())
}

// FlexString accepts a JSON string or number. Browsers send ages and
// party sizes either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Field tracks whether a key was present in a partial-update body.
// A present null sets Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Ptr returns nil for an explicit null, otherwise a pointer to the value.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}
