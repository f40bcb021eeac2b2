// Package xerrors defines the closed error taxonomy of §7: every failure
// the core can produce is one of five kinds, each carrying a Code and an
// optional Path. Error() renders the code as a leading "<Code>: " prefix,
// which the RPC tool wrapper parses back out of the message.
package xerrors

import "fmt"

// Code identifies which of the five closed error kinds an Error is.
type Code string

const (
	CodeFileSystem Code = "FileSystemError"
	CodeParser     Code = "ParserError"
	CodeConfig     Code = "ConfigError"
	CodeStore      Code = "StoreError"
	CodeInternal   Code = "InternalError"
)

// Error is the common shape for every typed error the core raises.
type Error struct {
	ErrCode Code
	Path    string // file or resource the error concerns, if any
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.ErrCode, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Code returns the error's taxonomy code, used by callers to pick an exit
// code or a JSON error payload shape.
func (e *Error) Code() Code { return e.ErrCode }

// FileSystem wraps a failure to read a directory or file.
func FileSystem(path string, cause error) *Error {
	return &Error{ErrCode: CodeFileSystem, Path: path, Message: errMsg(cause), Cause: cause}
}

// Parser wraps a language-parser failure on one file. The caller is
// expected to drop the file from the run, not abort.
func Parser(path string, cause error) *Error {
	return &Error{ErrCode: CodeParser, Path: path, Message: truncate(errMsg(cause), 500), Cause: cause}
}

// Config wraps invalid or missing configuration discovered at startup.
func Config(message string, cause error) *Error {
	return &Error{ErrCode: CodeConfig, Message: message, Cause: cause}
}

// Store wraps a graph-store transaction failure. Fatal to the run.
func Store(message string, cause error) *Error {
	return &Error{ErrCode: CodeStore, Message: message, Cause: cause}
}

// Internal wraps an invariant violation inside the core itself. Fatal.
func Internal(message string) *Error {
	return &Error{ErrCode: CodeInternal, Message: message}
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
