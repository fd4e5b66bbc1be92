package webhdfs

import (
	"encoding/json"
	"errors"
)

// Entry types returned by LISTSTATUS.
const (
	TypeFile      = "FILE"
	TypeDirectory = "DIRECTORY"
)

// FileStatus defines one element of a LISTSTATUS response body.
//
// PathSuffix is the entry name relative to the listed directory as returned
// by the server. Once an entry has been crawled, PathSuffix holds the full
// path from the WebHDFS root instead.
type FileStatus struct {
	PathSuffix       string `json:"pathSuffix"`
	Type             string `json:"type"`
	Length           int64  `json:"length"`
	Owner            string `json:"owner"`
	Group            string `json:"group"`
	Permission       string `json:"permission"`
	Replication      int    `json:"replication"`
	BlockSize        int64  `json:"blockSize"`
	ModificationTime int64  `json:"modificationTime"`
	AccessTime       int64  `json:"accessTime"`
}

// IsFile returns true if fs is a regular file.
func (fs FileStatus) IsFile() bool { return fs.Type == TypeFile }

// IsDirectory returns true if fs is a directory.
func (fs FileStatus) IsDirectory() bool { return fs.Type == TypeDirectory }

type listStatusResponse struct {
	FileStatuses *struct {
		FileStatus []FileStatus `json:"FileStatus"`
	} `json:"FileStatuses"`
}

// RemoteException is the error body WebHDFS servers send with non-2xx
// responses.
type RemoteException struct {
	Exception     string `json:"exception"`
	JavaClassName string `json:"javaClassName"`
	Message       string `json:"message"`
}

type remoteExceptionResponse struct {
	RemoteException *RemoteException `json:"RemoteException"`
}

func decodeListing(b []byte) ([]FileStatus, error) {
	var lsr listStatusResponse
	if err := json.Unmarshal(b, &lsr); err != nil {
		return nil, MalformedResponseError{err}
	}
	if lsr.FileStatuses == nil {
		return nil, MalformedResponseError{errors.New("missing FileStatuses envelope")}
	}
	return lsr.FileStatuses.FileStatus, nil
}

// decodeRemoteException returns nil if b is not a RemoteException body.
func decodeRemoteException(b []byte) *RemoteException {
	var r remoteExceptionResponse
	if err := json.Unmarshal(b, &r); err != nil {
		return nil
	}
	return r.RemoteException
}
