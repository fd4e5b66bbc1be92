package webhdfs

import (
	"errors"
	"fmt"
)

// ListingError occurs when a LISTSTATUS call fails. Status is the HTTP status
// of the response, or 0 if no response was received or the body could not be
// decoded.
type ListingError struct {
	Path      string
	Status    int
	Exception *RemoteException
	Err       error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list %s: %s", e.Path, describe(e.Status, e.Exception, e.Err))
}

func (e *ListingError) Unwrap() error { return e.Err }

// ReadError occurs when an OPEN call fails, or when the stream of an opened
// file fails mid-transfer.
type ReadError struct {
	Path      string
	Status    int
	Exception *RemoteException
	Err       error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %s", e.Path, describe(e.Status, e.Exception, e.Err))
}

func (e *ReadError) Unwrap() error { return e.Err }

// MalformedResponseError occurs when a listing body is not valid JSON or lacks
// the FileStatuses envelope. It is always wrapped in a ListingError.
type MalformedResponseError struct {
	Err error
}

func (e MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Err)
}

func (e MalformedResponseError) Unwrap() error { return e.Err }

// UnknownEntryTypeError occurs when a listing entry is neither a FILE nor a
// DIRECTORY.
type UnknownEntryTypeError struct {
	Path string
	Type string
}

func (e UnknownEntryTypeError) Error() string {
	return fmt.Sprintf("unknown entry type %q at %s", e.Type, e.Path)
}

// IsListingError returns true if err is or wraps a ListingError.
func IsListingError(err error) bool {
	var lerr *ListingError
	return errors.As(err, &lerr)
}

// IsReadError returns true if err is or wraps a ReadError.
func IsReadError(err error) bool {
	var rerr *ReadError
	return errors.As(err, &rerr)
}

// IsMalformedResponse returns true if err is or wraps a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var merr MalformedResponseError
	return errors.As(err, &merr)
}

// IsUnknownEntryType returns true if err is or wraps an UnknownEntryTypeError.
func IsUnknownEntryType(err error) bool {
	var uerr UnknownEntryTypeError
	return errors.As(err, &uerr)
}

func describe(status int, exception *RemoteException, err error) string {
	switch {
	case exception != nil:
		return fmt.Sprintf("bad status %d: %s: %s", status, exception.Exception, exception.Message)
	case status != 0:
		return fmt.Sprintf("bad status %d", status)
	default:
		return err.Error()
	}
}
