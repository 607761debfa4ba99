// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// logFilePattern matches the daily files written by the chat endpoint:
// conversations_YYYY-MM-DD.json.
var logFilePattern = regexp.MustCompile(`^conversations_.+\.json$`)

// logFiles returns the conversation log files in dir, oldest first.
func logFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading log directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if logFilePattern.MatchString(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
