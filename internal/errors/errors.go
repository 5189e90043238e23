// Package errors defines the error codes surfaced by base. Every failure in the
// scaffolding and provisioning pipeline is terminal and carries the operation,
// the resource involved, and for remote commands the exit code and stderr.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable error code string.
type Code string

// Error codes.
const (
	ENetwork             Code = "E_NETWORK"
	EFilesystem          Code = "E_FILESYSTEM"
	EArchiveFormat       Code = "E_ARCHIVE_FORMAT"
	EManifestParse       Code = "E_MANIFEST_PARSE"
	ERemoteExecution     Code = "E_REMOTE_EXECUTION"
	ECredentialParse     Code = "E_CREDENTIAL_PARSE"
	EUsage               Code = "E_USAGE"
	EReplacementConflict Code = "E_REPLACEMENT_CONFLICT"
)

// Error is the structured error type returned by pipeline components.
type Error struct {
	Code     Code
	Op       string // e.g. "fetch", "install", "add-project"
	Resource string // url, path or command involved
	Msg      string
	Cause    error

	// Set for ERemoteExecution only.
	ExitCode int
	Stderr   string
}

// Error renders "CODE: op resource: msg: cause".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(":")
	if e.Op != "" {
		b.WriteString(" " + e.Op)
	}
	if e.Resource != "" {
		b.WriteString(" " + e.Resource)
	}
	if e.Msg != "" {
		b.WriteString(": " + e.Msg)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without an underlying cause.
func New(code Code, op, resource, msg string) error {
	return &Error{Code: code, Op: op, Resource: resource, Msg: msg}
}

// Wrap creates an Error wrapping err.
func Wrap(code Code, op, resource string, err error) error {
	return &Error{Code: code, Op: op, Resource: resource, Cause: err}
}

// Remote creates an ERemoteExecution error for a command that exited non-zero.
func Remote(command string, exitCode int, stderr string) error {
	return &Error{
		Code:     ERemoteExecution,
		Op:       "execute",
		Resource: command,
		Msg:      fmt.Sprintf("exit status %d", exitCode),
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// GetCode extracts the error code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// As returns (*Error, true) if err is or wraps an *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
