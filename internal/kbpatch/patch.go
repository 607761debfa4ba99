// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kbpatch appends question/answer entries to the commonQuestions list
// literal in the chat bot's TypeScript knowledge-base config. The file is
// edited as text: the list is located by regex and new entries are inserted
// before its closing bracket. The rest of the file is left byte-for-byte
// unchanged.
package kbpatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

// commonQuestionsPattern matches the commonQuestions list literal up to the
// first closing bracket.
var commonQuestionsPattern = regexp.MustCompile(`(?s)commonQuestions:\s*\[(.*?)\]`)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// FormatEntries renders entries as object literals in the config file's
// indentation style, each preceded by a newline and followed by a comma.
func FormatEntries(entries []types.QAPair) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "\n            {\n                question: \"%s\",\n                response: \"%s\"\n            },",
			literalEscaper.Replace(e.Question), literalEscaper.Replace(e.Response))
	}
	return b.String()
}

// Patch inserts entries at the end of the commonQuestions list in content.
// It returns the new content and the number of entries inserted. When the
// list is not found, or entries is empty, content is returned unchanged.
func Patch(content string, entries []types.QAPair) (string, int) {
	if len(entries) == 0 {
		return content, 0
	}
	loc := commonQuestionsPattern.FindStringIndex(content)
	if loc == nil {
		return content, 0
	}
	closing := loc[1] - 1
	return content[:closing] + FormatEntries(entries) + content[closing:], len(entries)
}

// PatchFile applies Patch to the file at path and rewrites it in place.
// A missing file or a file without a commonQuestions list is left alone and
// reported as zero entries added. The rewrite is not atomic and no backup is
// kept; running twice appends the entries twice.
func PatchFile(path string, entries []types.QAPair) (int, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading knowledge base config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading knowledge base config: %w", err)
	}

	updated, added := Patch(string(data), entries)
	if added == 0 {
		return 0, nil
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("writing knowledge base config: %w", err)
	}
	return added, nil
}
