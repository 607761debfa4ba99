// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kbpatch

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// LoadEntries reads a list of question/response pairs from a YAML or JSON
// file. Every entry must have a non-blank question and response.
func LoadEntries(path string) ([]types.QAPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entries file: %w", err)
	}
	var entries []types.QAPair
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing entries file %s: %w", path, err)
	}
	for i, e := range entries {
		if err := Validate(e); err != nil {
			return nil, fmt.Errorf("entry %d in %s: %w", i, path, err)
		}
	}
	return entries, nil
}

// Validate reports whether a pair can be written to the knowledge base.
func Validate(e types.QAPair) error {
	if strings.TrimSpace(e.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if strings.TrimSpace(e.Response) == "" {
		return fmt.Errorf("response is empty")
	}
	return nil
}
