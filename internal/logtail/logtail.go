package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/five82/foxnuts/internal/persist"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Issue is one failed mirror call recovered from the log.
type Issue struct {
	Time  time.Time
	Op    string
	Error string
}

type record struct {
	Time  time.Time `json:"time"`
	Msg   string    `json:"msg"`
	Op    string    `json:"op"`
	Error string    `json:"error"`
}

// SyncIssues scans the last maxLines lines of the JSON log at path and
// returns the failed mirror calls, oldest first. Lines that are not JSON are
// skipped.
func SyncIssues(path string, maxLines int) ([]Issue, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	var issues []Issue
	for _, line := range lines {
		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Msg != persist.FailedMsg {
			continue
		}
		issues = append(issues, Issue{Time: rec.Time, Op: rec.Op, Error: rec.Error})
	}
	return issues, nil
}
