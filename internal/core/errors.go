package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a package is not present in the index.
var ErrNotFound = errors.New("not found")

// ErrInvalidName is returned when a string does not start with a PackageID.
var ErrInvalidName = errors.New("invalid package name")

// ErrEmptyCode is returned when a profile is requested without a code.
var ErrEmptyCode = errors.New("empty profile code")

// DecodeError is returned when a profile bundle cannot be decoded.
type DecodeError struct {
	Stage string // "document", "base64", "archive", "yaml", "dependency"
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding profile (%s): %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnknownPackageError is returned when a PackageID is absent from the index,
// or present without any version.
type UnknownPackageError struct {
	ID     string
	Reason string
}

func (e *UnknownPackageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("package %s: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("package %s not found in index", e.ID)
}

func (e *UnknownPackageError) Unwrap() error {
	return ErrNotFound
}

// VersionFormatError is returned when a manifest version is not MAJOR.MINOR.PATCH.
type VersionFormatError struct {
	Version string
}

func (e *VersionFormatError) Error() string {
	return fmt.Sprintf("version %q does not match MAJOR.MINOR.PATCH", e.Version)
}

// ManifestError wraps a failure reading, parsing or writing the manifest or changelog.
type ManifestError struct {
	Op   string // "read", "parse", "write", "append"
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
