package errors

import (
	// Go Internal Packages
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error so callers can decide how to surface it.
type Kind uint8

const (
	Other Kind = iota
	Invalid
	Unauthenticated
	InvalidInput
	ValidationFailed
	GatewayError
	PersistenceError
	UnknownAuthority
	VerificationFailed
	RegistryApplyError
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Unauthenticated:
		return "unauthenticated"
	case InvalidInput:
		return "invalid_input"
	case ValidationFailed:
		return "validation_failed"
	case GatewayError:
		return "gateway_error"
	case PersistenceError:
		return "persistence_error"
	case UnknownAuthority:
		return "unknown_authority"
	case VerificationFailed:
		return "verification_failed"
	case RegistryApplyError:
		return "registry_apply_error"
	}
	return "other"
}

// Error is the error type returned across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Critical marks a failure that happened after an irreversible external
	// effect. It needs an operator, not a retry.
	Critical bool
}

// E builds an *Error of the given kind wrapping err (which may be nil).
func E(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Critical builds an *Error flagged as CRITICAL.
func Critical(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err, Critical: true}
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost *Error in the chain, Other if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// IsCritical reports whether any *Error in the chain is flagged critical.
func IsCritical(err error) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Critical {
			return true
		}
		err = e.Err
	}
	return false
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }

// ApplyError describes a registry update that stopped part way through a list
// of names after the payment was already confirmed.
type ApplyError struct {
	Name         string
	Position     int // 1-based position of Name in the stored list
	Applied      []string
	NotAttempted []string
	Err          error
}

func (e *ApplyError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "runner failed on name '%s' (position %d)", e.Name, e.Position)
	if len(e.Applied) > 0 {
		fmt.Fprintf(&sb, ", applied [%s]", strings.Join(e.Applied, ","))
	} else {
		sb.WriteString(", nothing applied")
	}
	if len(e.NotAttempted) > 0 {
		fmt.Fprintf(&sb, ", not attempted [%s]", strings.Join(e.NotAttempted, ","))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Partial reports whether at least one name was applied before the failure.
func (e *ApplyError) Partial() bool {
	return len(e.Applied) > 0
}

// ValidationErrors collects field level problems.
type ValidationErrors struct {
	fields map[string][]string
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{fields: make(map[string][]string)}
}

// Add records a problem for field.
func (v *ValidationErrors) Add(field, reason string) {
	v.fields[field] = append(v.fields[field], reason)
}

// Err returns nil when nothing was recorded.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(v.fields[k], ", ")))
	}
	return strings.Join(parts, "; ")
}
