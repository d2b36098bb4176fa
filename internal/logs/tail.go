package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPoll = 250 * time.Millisecond
	maxLineSize = 1024 * 1024
)

// Filter reports whether a line should be emitted.
type Filter func(line string) bool

// Options controls Tail.
type Options struct {
	// Lines is how many trailing lines to print first. Zero skips history.
	Lines  int
	Follow bool
	// Poll is the follow interval; zero uses 250ms.
	Poll   time.Duration
	Filter Filter
}

// Tail writes the last opts.Lines matching lines of path to emit. With
// Follow set it keeps polling for appended lines until ctx is done, and
// returns nil on cancellation. A missing file is treated as empty.
func Tail(ctx context.Context, path string, opts Options, emit func(string) error) error {
	lines, offset, err := lastLines(path, opts.Lines, opts.Filter)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := emit(line); err != nil {
			return err
		}
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		next, err := readFrom(path, offset, opts.Filter, emit)
		if err != nil {
			return err
		}
		offset = next
	}
}

func lastLines(path string, limit int, filter Filter) ([]string, int64, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var ring []string
	if limit > 0 {
		ring = make([]string, 0, limit)
	}
	scanner := newScanner(file)
	for scanner.Scan() {
		if limit <= 0 {
			continue
		}
		line := scanner.Text()
		if filter != nil && !filter(line) {
			continue
		}
		if len(ring) == limit {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}
	offset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("log offset: %w", err)
	}
	return ring, offset, nil
}

// readFrom emits complete lines after offset and returns the offset of the
// first unread byte. A file shorter than offset was rotated and is reread from
// the start.
func readFrom(path string, offset int64, filter Filter, emit func(string) error) (int64, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			// Partial line; pick it up on the next poll.
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		line = line[:len(line)-1]
		if filter != nil && !filter(line) {
			continue
		}
		if err := emit(line); err != nil {
			return offset, err
		}
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// UserFilter matches lines carrying user_id=id in either the text or JSON
// handler format.
func UserFilter(id int64) Filter {
	text := "user_id=" + strconv.FormatInt(id, 10)
	jsonKey := `"user_id":` + strconv.FormatInt(id, 10)
	return func(line string) bool {
		return containsField(line, text) || containsField(line, jsonKey)
	}
}

func containsField(line, field string) bool {
	for rest := line; ; {
		idx := strings.Index(rest, field)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(field):]
		if rest == "" || !isDigit(rest[0]) {
			return true
		}
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
