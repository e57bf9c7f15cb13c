package service

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile            = errors.New("no file uploaded")
	ErrUnsupportedOutput = errors.New("unsupported output format")
	ErrFileTooLarge      = errors.New("file exceeds the upload size limit")
)

// UnsupportedInputError rejects a declared media type before any decode is attempted.
type UnsupportedInputError struct {
	Format string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("%s format is not supported", e.Format)
}

// ConversionError is any failure after validation: decode, option, compression, resize or encode.
type ConversionError struct {
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return e.Err.Error()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func failed(stage string, err error) error {
	return &ConversionError{Stage: stage, Err: err}
}

// IsRejection reports whether err is a client-side rejection rather than a processing failure.
func IsRejection(err error) bool {
	var unsupported *UnsupportedInputError

	return errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrUnsupportedOutput) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.As(err, &unsupported)
}
