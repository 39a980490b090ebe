package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against a ValidationError or Errors.
var (
	ErrMissingName       = errors.New("component name is missing")
	ErrMultipleStyles    = errors.New("multiple style elements of the same kind")
	ErrMultipleScript    = errors.New("multiple script elements")
	ErrMultipleTemplates = errors.New("multiple template root elements")
	ErrTemplateMissing   = errors.New("template root element is missing")
)

// ErrorKind identifies a structural violation in a component source.
type ErrorKind int

const (
	MissingName ErrorKind = iota
	MultipleStyleOfSameKind
	MultipleScript
	MultipleTemplateRoots
	MissingTemplateRoot
)

func (k ErrorKind) sentinel() error {
	switch k {
	case MissingName:
		return ErrMissingName
	case MultipleStyleOfSameKind:
		return ErrMultipleStyles
	case MultipleScript:
		return ErrMultipleScript
	case MultipleTemplateRoots:
		return ErrMultipleTemplates
	case MissingTemplateRoot:
		return ErrTemplateMissing
	default:
		return nil
	}
}

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case MissingName:
		return "MissingName"
	case MultipleStyleOfSameKind:
		return "MultipleStyleOfSameKind"
	case MultipleScript:
		return "MultipleScript"
	case MultipleTemplateRoots:
		return "MultipleTemplateRoots"
	case MissingTemplateRoot:
		return "MissingTemplateRoot"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// MarshalText lets kinds appear by name in JSON output.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ValidationError is one violation found in the source identified by Source.
type ValidationError struct {
	Kind   ErrorKind `json:"kind"`
	Source string    `json:"source"`
}

func (e *ValidationError) Error() string {
	if e.Source == "" {
		return e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Kind.sentinel())
}

// Unwrap returns the sentinel for the error's kind.
func (e *ValidationError) Unwrap() error {
	return e.Kind.sentinel()
}

// Errors is every violation found in one source, in detection order. An
// Errors returned by Extract is never empty.
type Errors []*ValidationError

func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no validation errors"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes each violation to errors.Is and errors.As.
func (errs Errors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Kinds returns the kind of each violation in order.
func (errs Errors) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, len(errs))
	for i, e := range errs {
		kinds[i] = e.Kind
	}
	return kinds
}

// AsErrors extracts the validation errors carried by err, if any.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
