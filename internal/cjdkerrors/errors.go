// Package cjdkerrors defines cjdk's error taxonomy and the exit codes the
// cmd/cjdk CLI maps them to, mirroring _exceptions.py's exit_code class
// attributes.
package cjdkerrors

import "errors"

// CjdkError is implemented by every error type in this package, letting
// callers recover a process exit code from an arbitrary wrapped error via
// errors.As.
type CjdkError interface {
	error
	ExitCode() int
}

// ConfigError reports a problem with inputs before any network or cache
// access was attempted: an unparseable specifier, an unknown clear_cache
// scope, a non-archive cache_package URL.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
func (e *ConfigError) ExitCode() int { return 2 }

// JdkNotFoundError reports that the Resolver could not find any index entry
// satisfying a request.
type JdkNotFoundError struct {
	Msg string
	Err error
}

func (e *JdkNotFoundError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *JdkNotFoundError) Unwrap() error { return e.Err }
func (e *JdkNotFoundError) ExitCode() int { return 3 }

// InstallError reports a failure during download, verification, or
// extraction of an otherwise-resolved archive.
type InstallError struct {
	Msg string
	Err error
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *InstallError) Unwrap() error { return e.Err }
func (e *InstallError) ExitCode() int { return 4 }

// ExitCode extracts the process exit code for err, defaulting to 1 for any
// error that doesn't implement CjdkError (spec.md §7).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce CjdkError
	if errors.As(err, &ce) {
		return ce.ExitCode()
	}
	return 1
}
