package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/foghost/webhdfs-input/lib/codec"
	"github.com/foghost/webhdfs-input/utils/log"
)

// jsonLines writes each event as a single line of JSON.
type jsonLines struct {
	mu     sync.Mutex
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

func newJSONLines(config OutputConfig) (*jsonLines, error) {
	var f io.WriteCloser = nopWriteCloser{os.Stdout}
	if config.Path != "" && config.Path != "stdout" {
		var err error
		f, err = os.OpenFile(config.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open output: %s", err)
		}
	}
	return newJSONLinesWriter(f), nil
}

func newJSONLinesWriter(wc io.WriteCloser) *jsonLines {
	w := bufio.NewWriter(wc)
	return &jsonLines{w: w, enc: json.NewEncoder(w), closer: wc}
}

func (o *jsonLines) consume(e codec.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.enc.Encode(e); err != nil {
		log.With("path", e["path"]).Errorf("Error writing event: %s", err)
	}
}

// Close flushes buffered events and closes the underlying writer.
func (o *jsonLines) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.w.Flush(); err != nil {
		return fmt.Errorf("flush: %s", err)
	}
	return o.closer.Close()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
