package webhdfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStatusRoundTrip(t *testing.T) {
	require := require.New(t)

	fs := FileStatus{
		PathSuffix:       "app.log",
		Type:             TypeFile,
		Length:           4096,
		Owner:            "hdfs",
		Group:            "hadoop",
		Permission:       "640",
		Replication:      3,
		BlockSize:        134217728,
		ModificationTime: 1681200000000,
		AccessTime:       1681200001000,
	}

	b, err := json.Marshal(map[string]interface{}{
		"FileStatuses": map[string]interface{}{"FileStatus": []FileStatus{fs}},
	})
	require.NoError(err)

	l, err := decodeListing(b)
	require.NoError(err)
	require.Equal([]FileStatus{fs}, l)
}

func TestFileStatusType(t *testing.T) {
	require := require.New(t)

	require.True(FileStatus{Type: TypeFile}.IsFile())
	require.False(FileStatus{Type: TypeFile}.IsDirectory())
	require.True(FileStatus{Type: TypeDirectory}.IsDirectory())

	symlink := FileStatus{Type: "SYMLINK"}
	require.False(symlink.IsFile())
	require.False(symlink.IsDirectory())
}

func TestDecodeRemoteException(t *testing.T) {
	require := require.New(t)

	require.Nil(decodeRemoteException([]byte("not json")))
	require.Nil(decodeRemoteException([]byte(`{"other": 1}`)))
	require.Equal("FileNotFoundException", decodeRemoteException([]byte(_fileNotFound)).Exception)
}

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	require := require.New(t)

	listing := fmt.Errorf("crawl: %w", &ListingError{Path: "/a", Err: MalformedResponseError{errors.New("eof")}})
	require.True(IsListingError(listing))
	require.True(IsMalformedResponse(listing))
	require.False(IsReadError(listing))

	unknown := fmt.Errorf("crawl: %w", UnknownEntryTypeError{Path: "/a/link", Type: "SYMLINK"})
	require.True(IsUnknownEntryType(unknown))
	require.Contains(unknown.Error(), "SYMLINK")

	read := fmt.Errorf("handler: %w", &ReadError{Path: "/a/b", Status: 503})
	require.True(IsReadError(read))
	require.Equal("handler: read /a/b: bad status 503", read.Error())
}
