package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	"github.com/foghost/webhdfs-input/lib/webhdfs"
	"github.com/foghost/webhdfs-input/lib/workqueue"
	"github.com/foghost/webhdfs-input/mocks/lib/webhdfs"
)

func file(name string, length int64) webhdfs.FileStatus {
	return webhdfs.FileStatus{PathSuffix: name, Type: webhdfs.TypeFile, Length: length}
}

func dir(name string) webhdfs.FileStatus {
	return webhdfs.FileStatus{PathSuffix: name, Type: webhdfs.TypeDirectory}
}

type crawlerMocks struct {
	ctrl   *gomock.Controller
	client *mockwebhdfs.MockClient
	queue  *workqueue.Queue
	stats  tally.TestScope
}

func newCrawlerMocks(t *testing.T) (*crawlerMocks, func()) {
	ctrl := gomock.NewController(t)
	return &crawlerMocks{
		ctrl:   ctrl,
		client: mockwebhdfs.NewMockClient(ctrl),
		queue:  workqueue.New(),
		stats:  tally.NewTestScope("", nil),
	}, ctrl.Finish
}

func (m *crawlerMocks) new(config Config) *Crawler {
	return New(config, m.client, m.queue, m.stats)
}

func sentinelConfig(maxAttempts int) Config {
	return Config{Sentinel: SentinelConfig{
		Enable:      true,
		MaxAttempts: maxAttempts,
		Interval:    time.Millisecond,
	}}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		dir, name, expected string
	}{
		{"/", "a", "/a"},
		{"/logs", "a", "/logs/a"},
		{"/logs/", "a", "/logs/a"},
		{"", "a", "/a"},
	}
	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			require.Equal(t, test.expected, JoinPath(test.dir, test.name))
		})
	}
}

func TestCrawlQueuesFilesInListingOrder(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
		[]webhdfs.FileStatus{file("x", 10), file("y", 5)}, nil)

	require.NoError(mocks.new(Config{}).Crawl(context.Background(), "/"))
	require.Equal([]string{"/x", "/y"}, mocks.queue.Paths())
}

func TestCrawlPreservesMetadata(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	fs := webhdfs.FileStatus{
		PathSuffix:       "a.log",
		Type:             webhdfs.TypeFile,
		Length:           24930,
		Owner:            "webuser",
		Group:            "supergroup",
		Permission:       "644",
		Replication:      3,
		BlockSize:        134217728,
		ModificationTime: 1320171722771,
		AccessTime:       1320171722771,
	}
	mocks.client.EXPECT().ListStatus(gomock.Any(), "/logs").Return([]webhdfs.FileStatus{fs}, nil)

	require.NoError(mocks.new(Config{}).Crawl(context.Background(), "/logs"))

	result, ok := mocks.queue.Pop()
	require.True(ok)
	expected := fs
	expected.PathSuffix = "/logs/a.log"
	require.Equal(expected, result)
}

func TestCrawlSkipsEmptyFiles(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
		[]webhdfs.FileStatus{file("empty", 0), file("full", 3)}, nil)

	require.NoError(mocks.new(Config{}).Crawl(context.Background(), "/"))
	require.Equal([]string{"/full"}, mocks.queue.Paths())

	counters := mocks.stats.Snapshot().Counters()
	require.Equal(int64(1), counters["empty_files_skipped+module=crawler"].Value())
	require.Equal(int64(1), counters["files_queued+module=crawler"].Value())
}

func TestCrawlDescendsIntoSubdirectories(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	gomock.InOrder(
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			[]webhdfs.FileStatus{dir("d")}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/d").Return(
			[]webhdfs.FileStatus{file("f", 1)}, nil),
	)

	require.NoError(mocks.new(Config{}).Crawl(context.Background(), "/"))
	require.Equal([]string{"/d/f"}, mocks.queue.Paths())
}

func TestCrawlMixedTree(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	gomock.InOrder(
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/a").Return(
			[]webhdfs.FileStatus{file("file1", 1), dir("sub")}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/a/sub").Return(
			[]webhdfs.FileStatus{file("file2", 2)}, nil),
	)

	require.NoError(mocks.new(Config{}).Crawl(context.Background(), "/a"))
	require.Equal([]string{"/a/file1", "/a/sub/file2"}, mocks.queue.Paths())
}

func TestCrawlOrderFilesBeforeSubdirectories(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	// Files listed after a subdirectory are still queued before anything
	// inside it, and sibling subdirectories are fully walked in listing order.
	gomock.InOrder(
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			[]webhdfs.FileStatus{dir("b"), file("1", 1), dir("c"), file("2", 1)}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/b").Return(
			[]webhdfs.FileStatus{dir("inner"), file("3", 1)}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/b/inner").Return(
			[]webhdfs.FileStatus{file("4", 1)}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/c").Return(
			[]webhdfs.FileStatus{file("5", 1)}, nil),
	)

	require.NoError(mocks.new(Config{}).Crawl(context.Background(), "/"))
	require.Equal([]string{"/1", "/2", "/b/3", "/b/inner/4", "/c/5"}, mocks.queue.Paths())
}

func TestCrawlListingErrorAborts(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	lerr := &webhdfs.ListingError{Path: "/", Status: 500}
	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(nil, lerr)

	err := mocks.new(Config{}).Crawl(context.Background(), "/")
	require.Equal(lerr, err)
	require.True(webhdfs.IsListingError(err))
	require.Equal(0, mocks.queue.Len())
}

func TestCrawlSubdirectoryListingErrorKeepsQueuedFiles(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	gomock.InOrder(
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			[]webhdfs.FileStatus{file("a", 1), dir("broken")}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/broken").Return(
			nil, &webhdfs.ListingError{Path: "/broken", Status: 500}),
	)

	err := mocks.new(Config{}).Crawl(context.Background(), "/")
	require.True(webhdfs.IsListingError(err))
	require.Equal([]string{"/a"}, mocks.queue.Paths())
}

func TestCrawlUnknownEntryTypeAborts(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return([]webhdfs.FileStatus{
		{PathSuffix: "link", Type: "SYMLINK"},
		dir("never"),
	}, nil)

	err := mocks.new(Config{}).Crawl(context.Background(), "/")
	require.Error(err)
	require.True(webhdfs.IsUnknownEntryType(err))
	require.Equal(webhdfs.UnknownEntryTypeError{Path: "/link", Type: "SYMLINK"}, err)
}

func TestCrawlCanceledContext(t *testing.T) {
	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Equal(t, context.Canceled, mocks.new(Config{}).Crawl(ctx, "/"))
}

func TestCrawlSentinelListsAgainUntilReady(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	gomock.InOrder(
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			[]webhdfs.FileStatus{file("part-0", 1)}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			nil, &webhdfs.ListingError{Path: "/", Status: 503}),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			[]webhdfs.FileStatus{file("part-0", 1), file("part-1", 1), file("_end", 0)}, nil),
	)

	require.NoError(mocks.new(sentinelConfig(0)).Crawl(context.Background(), "/"))
	require.Equal([]string{"/part-0", "/part-1"}, mocks.queue.Paths())
}

func TestCrawlSentinelCustomSuffix(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	config := sentinelConfig(1)
	config.Sentinel.Suffix = "_SUCCESS"

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
		[]webhdfs.FileStatus{file("part-0", 1), file("_SUCCESS", 0)}, nil)

	require.NoError(mocks.new(config).Crawl(context.Background(), "/"))
	require.Equal([]string{"/part-0"}, mocks.queue.Paths())
}

func TestCrawlSentinelExhaustedTreatsDirectoryAsEmpty(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	gomock.InOrder(
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
			[]webhdfs.FileStatus{file("end", 1), dir("pending"), dir("done")}, nil),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/pending").Return(
			[]webhdfs.FileStatus{file("part-0", 1)}, nil).Times(3),
		mocks.client.EXPECT().ListStatus(gomock.Any(), "/done").Return(
			[]webhdfs.FileStatus{file("part-0", 1), file("end", 0)}, nil),
	)

	require.NoError(mocks.new(sentinelConfig(3)).Crawl(context.Background(), "/"))
	require.Equal([]string{"/end", "/done/part-0"}, mocks.queue.Paths())

	counters := mocks.stats.Snapshot().Counters()
	require.Equal(int64(1), counters["sentinel_timeouts+module=crawler"].Value())
}

func TestCrawlSentinelMalformedResponseIsFatal(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(nil, &webhdfs.ListingError{
		Path: "/",
		Err:  webhdfs.MalformedResponseError{Err: errors.New("unexpected end of JSON input")},
	})

	err := mocks.new(sentinelConfig(0)).Crawl(context.Background(), "/")
	require.True(webhdfs.IsMalformedResponse(err))
}

func TestCrawlSentinelStopsOnContextCancel(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	config := sentinelConfig(0)
	config.Sentinel.Interval = time.Hour

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").DoAndReturn(
		func(context.Context, string) ([]webhdfs.FileStatus, error) {
			cancel()
			return []webhdfs.FileStatus{file("part-0", 1)}, nil
		})

	require.Equal(context.Canceled, mocks.new(config).Crawl(ctx, "/"))
	require.Equal(0, mocks.queue.Len())
}

func TestCrawlSentinelStopsOnStop(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	config := sentinelConfig(0)
	config.Sentinel.Interval = 10 * time.Millisecond

	mocks.client.EXPECT().ListStatus(gomock.Any(), "/").Return(
		[]webhdfs.FileStatus{file("part-0", 1)}, nil).AnyTimes()

	c := mocks.new(config)

	errc := make(chan error, 1)
	go func() { errc <- c.Crawl(context.Background(), "/") }()

	time.Sleep(50 * time.Millisecond)
	c.Stop()

	select {
	case err := <-errc:
		require.Equal(ErrStopped, err)
	case <-time.After(5 * time.Second):
		require.FailNow("crawl did not return after Stop")
	}
	require.Equal(0, mocks.queue.Len())
}

func TestCrawlStopBeforeCrawl(t *testing.T) {
	require := require.New(t)

	mocks, cleanup := newCrawlerMocks(t)
	defer cleanup()

	c := mocks.new(Config{})
	c.Stop()
	c.Stop()

	require.Equal(ErrStopped, c.Crawl(context.Background(), "/"))
}
