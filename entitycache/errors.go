package entitycache

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError reports that local input failed schema checks before any
// gateway call was made. Fields maps field names to human-readable messages.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error. Field messages render in sorted order so the
// message is stable.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// GatewayError reports that the remote gateway call completed but failed, or
// that the pipeline's own bookkeeping failed. Not-found, permission, conflict,
// and transient network failures all surface the same way.
type GatewayError struct {
	Op      OpKind
	Message string
}

// Error implements error.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// asValidationError converts an error from the validation step into a
// *ValidationError, flattening ozzo's field → error map. Non-field errors
// land under a catch-all input key.
func asValidationError(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	fields := map[string]string{}
	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		for field, ferr := range ozzoErrs {
			if ferr != nil {
				fields[field] = ferr.Error()
			}
		}
	} else {
		fields["input"] = err.Error()
	}
	return &ValidationError{Fields: fields}
}

// asGatewayError wraps err for the given op unless it already carries the
// pipeline's typing.
func asGatewayError(op OpKind, err error) *GatewayError {
	var gerr *GatewayError
	if errors.As(err, &gerr) {
		return gerr
	}
	return &GatewayError{Op: op, Message: err.Error()}
}
