package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/hashicorp/go-hclog"
)

// dataPrefix marks an event line in a server-sent event stream.
var dataPrefix = []byte("data: ")

// maxLineSize bounds a single streamed line.
const maxLineSize = 1024 * 1024

// Stream is a single-pass sequence of JSON chunks read line by line from a
// streamed response. It is not safe for concurrent use.
//
//	stream, err := client.StreamPost(ctx, "v1/workspace/docs/stream-chat", body)
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//	for stream.Next() {
//		chunk := stream.Chunk()
//		...
//	}
//	return stream.Err()
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  hclog.Logger

	op  string
	url string

	chunk  JSON
	err    error
	closed bool
}

func newStream(body io.ReadCloser, op, url string, logger hclog.Logger) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Stream{
		body:    body,
		scanner: scanner,
		logger:  logger,
		op:      op,
		url:     url,
	}
}

// Next advances to the next chunk. It returns false at the end of the
// stream, after an error, or once the stream is closed. The underlying
// connection is closed when Next returns false.
func (s *Stream) Next() bool {
	if s.closed || s.err != nil {
		return false
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		chunk, err := parseLine(line)
		if err != nil {
			s.err = &Error{Op: s.op, URL: s.url, Body: string(line), Err: err}
			s.Close()
			return false
		}

		s.chunk = chunk
		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.err = &Error{Op: s.op, URL: s.url, Err: fmt.Errorf("failed to read stream: %w", err)}
	}
	s.Close()
	return false
}

// Chunk returns the chunk read by the last successful call to Next.
func (s *Stream) Chunk() JSON {
	return s.chunk
}

// Err returns the error that ended the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying connection. It is safe to call more than
// once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.chunk = nil
	s.logger.Trace("closing stream", "url", s.url)
	return s.body.Close()
}

// All returns an iterator over the remaining chunks. A read or decode
// failure is yielded once as the final element. Breaking out of the loop
// closes the stream.
func (s *Stream) All() iter.Seq2[JSON, error] {
	return func(yield func(JSON, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Chunk(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Collect drains the stream into a slice.
func (s *Stream) Collect() ([]JSON, error) {
	var chunks []JSON
	for chunk, err := range s.All() {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// parseLine decodes one non-blank line. Event lines must carry valid JSON;
// any other line that fails to decode becomes an error chunk.
func parseLine(line []byte) (JSON, error) {
	if rest, ok := bytes.CutPrefix(line, dataPrefix); ok {
		var chunk JSON
		if err := json.Unmarshal(rest, &chunk); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		if chunk == nil {
			chunk = JSON{}
		}
		return chunk, nil
	}

	var chunk JSON
	if err := json.Unmarshal(line, &chunk); err != nil {
		return JSON{"error": "Failed to parse response line"}, nil
	}
	if chunk == nil {
		chunk = JSON{}
	}
	return chunk, nil
}
