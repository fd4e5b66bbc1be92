// Package workqueue holds files discovered by a crawl but not yet read.
package workqueue

import (
	"container/list"
	"sync"

	"github.com/foghost/webhdfs-input/lib/webhdfs"
)

// Queue is a FIFO of files, safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	files *list.List
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{files: list.New()}
}

// Push appends fs to the tail.
func (q *Queue) Push(fs webhdfs.FileStatus) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.files.PushBack(fs)
}

// Pop removes and returns the head. Returns false if q is empty.
func (q *Queue) Pop() (webhdfs.FileStatus, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e := q.files.Front()
	if e == nil {
		return webhdfs.FileStatus{}, false
	}
	return q.files.Remove(e).(webhdfs.FileStatus), true
}

// Len returns the number of queued files.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.files.Len()
}

// Paths returns the paths of all queued files, head first.
func (q *Queue) Paths() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	paths := make([]string, 0, q.files.Len())
	for e := q.files.Front(); e != nil; e = e.Next() {
		paths = append(paths, e.Value.(webhdfs.FileStatus).PathSuffix)
	}
	return paths
}
