package mirror

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeTransport tags a remote listing that could not be fetched.
	TextCodeTransport = "REMOTE_TRANSPORT_FAILED"
	// TextCodeFileTransfer tags a single file that could not be mirrored.
	TextCodeFileTransfer = "FILE_TRANSFER_FAILED"
	// TextCodeDeletion tags an orphan the store refused to remove.
	TextCodeDeletion = "LOCAL_DELETE_FAILED"
)

var (
	// ErrRemoteRequired is returned by New when no remote client is supplied.
	ErrRemoteRequired = errors.New("mirror: remote client is required")
	// ErrStoreRequired is returned by New when no file store is supplied.
	ErrStoreRequired = errors.New("mirror: file store is required")
	// ErrDownloadFailed marks a raw download the remote reported as missed.
	ErrDownloadFailed = errors.New("mirror: download failed")
)

func transportError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, msg).
		WithTextCode(TextCodeTransport)
}

func fileTransferError(err error, path string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "file transfer failed: "+path).
		WithTextCode(TextCodeFileTransfer)
}

func deletionError(err error, path string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "orphan could not be deleted: "+path).
		WithTextCode(TextCodeDeletion)
}

// IsTransportError reports whether err means the remote could not be listed.
func IsTransportError(err error) bool {
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed == nil {
		return false
	}
	return typed.TextCode == TextCodeTransport
}
