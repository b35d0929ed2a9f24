package app

import (
	"fmt"
	"sort"
	"strings"
)

// Operation is one kind of line-based edit.
type Operation string

const (
	OpReplace      Operation = "replace"
	OpInsert       Operation = "insert"
	OpInsertBefore Operation = "insert_before"
	OpDelete       Operation = "delete"
)

// Modification is one line-based edit. Line numbers are 1-indexed and always
// refer to the file as it existed before any modification in the same batch
// was applied; that is why batches must be applied in SortModifications
// order. EndLine is inclusive and only meaningful for replace and delete.
type Modification struct {
	Operation  Operation `json:"operation"`
	StartLine  int       `json:"start_line"`
	EndLine    int       `json:"end_line,omitempty"`
	NewContent string    `json:"new_content,omitempty"`
}

// FileChange carries either the full content of a generated file or the
// modification batch for an existing one.
type FileChange struct {
	File          string         `json:"file"`
	Content       string         `json:"content,omitempty"`
	Modifications []Modification `json:"modifications,omitempty"`
}

// SortModifications regroups a batch of edits by file and orders each file's
// modifications by descending start line. Applying bottom-up means an edit
// never shifts the line numbers a later (lower) edit still refers to, so the
// whole batch stays valid against the original numbering.
//
// Cross-file order is not preserved (line numbers are per file, so it does
// not matter). Edits sharing a start line keep their input order; overlap
// semantics at the same line are the caller's problem.
func SortModifications(changes []FileChange) []FileChange {
	grouped := make(map[string][]Modification)
	var order []string
	for _, change := range changes {
		if _, seen := grouped[change.File]; !seen {
			order = append(order, change.File)
		}
		grouped[change.File] = append(grouped[change.File], change.Modifications...)
	}

	out := make([]FileChange, 0, len(order))
	for _, file := range order {
		mods := grouped[file]
		sort.SliceStable(mods, func(i, j int) bool {
			return mods[i].StartLine > mods[j].StartLine
		})
		out = append(out, FileChange{File: file, Modifications: mods})
	}
	return out
}

// ApplyModifications applies an already-sorted batch to file content and
// returns the result. The actual filesystem write is the client's job; this
// exists so embedding code (and the tests) can verify a batch end to end.
func ApplyModifications(content string, mods []Modification) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	trimmed := strings.TrimSuffix(content, "\n")

	var lines []string
	if trimmed == "" && !hadTrailingNewline {
		lines = []string{}
	} else {
		lines = strings.Split(trimmed, "\n")
	}

	for _, m := range mods {
		var err error
		lines, err = applyModification(lines, m)
		if err != nil {
			return "", err
		}
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline && out != "" {
		out += "\n"
	}
	return out, nil
}

func applyModification(lines []string, m Modification) ([]string, error) {
	if m.StartLine < 1 {
		return nil, fmt.Errorf("%s: start_line %d out of range", m.Operation, m.StartLine)
	}

	switch m.Operation {
	case OpReplace, OpDelete:
		end := m.EndLine
		if end < m.StartLine {
			end = m.StartLine
		}
		if m.StartLine > len(lines) || end > len(lines) {
			return nil, fmt.Errorf("%s: lines %d-%d out of range (file has %d lines)", m.Operation, m.StartLine, end, len(lines))
		}
		var replacement []string
		if m.Operation == OpReplace {
			replacement = splitContentLines(m.NewContent)
		}
		out := make([]string, 0, len(lines)-(end-m.StartLine+1)+len(replacement))
		out = append(out, lines[:m.StartLine-1]...)
		out = append(out, replacement...)
		out = append(out, lines[end:]...)
		return out, nil

	case OpInsert:
		// Insert after StartLine.
		if m.StartLine > len(lines) {
			return nil, fmt.Errorf("insert: line %d out of range (file has %d lines)", m.StartLine, len(lines))
		}
		return insertLines(lines, m.StartLine, splitContentLines(m.NewContent)), nil

	case OpInsertBefore:
		if m.StartLine > len(lines)+1 {
			return nil, fmt.Errorf("insert_before: line %d out of range (file has %d lines)", m.StartLine, len(lines))
		}
		return insertLines(lines, m.StartLine-1, splitContentLines(m.NewContent)), nil

	default:
		return nil, fmt.Errorf("unknown modification operation %q", m.Operation)
	}
}

func insertLines(lines []string, at int, inserted []string) []string {
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:at]...)
	out = append(out, inserted...)
	out = append(out, lines[at:]...)
	return out
}

func splitContentLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
