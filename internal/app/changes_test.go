package app

import (
	"strings"
	"testing"
)

func TestSortModificationsDescendingPerFile(t *testing.T) {
	t.Parallel()

	in := []FileChange{
		{File: "App.jsx", Modifications: []Modification{
			{Operation: OpReplace, StartLine: 2, EndLine: 2, NewContent: "X"},
			{Operation: OpDelete, StartLine: 7, EndLine: 8},
			{Operation: OpInsert, StartLine: 4, NewContent: "Y"},
		}},
	}
	out := SortModifications(in)
	if len(out) != 1 || out[0].File != "App.jsx" {
		t.Fatalf("unexpected grouping: %+v", out)
	}
	var starts []int
	for _, m := range out[0].Modifications {
		starts = append(starts, m.StartLine)
	}
	if starts[0] != 7 || starts[1] != 4 || starts[2] != 2 {
		t.Fatalf("start lines = %v, want [7 4 2]", starts)
	}
}

func TestSortModificationsGroupsByFileFirstSeen(t *testing.T) {
	t.Parallel()

	in := []FileChange{
		{File: "b.jsx", Modifications: []Modification{{Operation: OpDelete, StartLine: 1, EndLine: 1}}},
		{File: "a.jsx", Modifications: []Modification{{Operation: OpDelete, StartLine: 3, EndLine: 3}}},
		{File: "b.jsx", Modifications: []Modification{{Operation: OpDelete, StartLine: 9, EndLine: 9}}},
	}
	out := SortModifications(in)
	if len(out) != 2 {
		t.Fatalf("got %d groups, want 2", len(out))
	}
	if out[0].File != "b.jsx" || out[1].File != "a.jsx" {
		t.Fatalf("group order = [%s %s], want first-seen [b.jsx a.jsx]", out[0].File, out[1].File)
	}
	if out[0].Modifications[0].StartLine != 9 || out[0].Modifications[1].StartLine != 1 {
		t.Fatalf("merged b.jsx mods = %+v, want descending [9 1]", out[0].Modifications)
	}
}

func TestSortModificationsStableOnEqualStartLines(t *testing.T) {
	t.Parallel()

	in := []FileChange{
		{File: "a.jsx", Modifications: []Modification{
			{Operation: OpInsert, StartLine: 5, NewContent: "first"},
			{Operation: OpInsert, StartLine: 5, NewContent: "second"},
		}},
	}
	out := SortModifications(in)
	mods := out[0].Modifications
	if mods[0].NewContent != "first" || mods[1].NewContent != "second" {
		t.Fatalf("equal start lines reordered: %+v", mods)
	}
}

func tenLines() string {
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		sb.WriteString("line")
		sb.WriteByte(byte('0' + i%10))
		if i < 10 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func TestApplyModificationsBottomUpBatch(t *testing.T) {
	t.Parallel()

	// Sorted batch over a 10-line file: delete 7-8, insert "Y" after 4,
	// replace line 2 with "X". Each later edit still sees original numbering.
	sorted := SortModifications([]FileChange{
		{File: "App.jsx", Modifications: []Modification{
			{Operation: OpReplace, StartLine: 2, EndLine: 2, NewContent: "X"},
			{Operation: OpDelete, StartLine: 7, EndLine: 8},
			{Operation: OpInsert, StartLine: 4, NewContent: "Y"},
		}},
	})

	got, err := ApplyModifications(tenLines(), sorted[0].Modifications)
	if err != nil {
		t.Fatalf("ApplyModifications returned error: %v", err)
	}
	want := strings.Join([]string{
		"line1", "X", "line3", "line4", "Y", "line5", "line6", "line9", "line0",
	}, "\n")
	if got != want {
		t.Fatalf("result:\n%s\nwant:\n%s", got, want)
	}
}

func TestApplyModificationsOperations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		mod  Modification
		want string
	}{
		{
			"replace range",
			"a\nb\nc\nd",
			Modification{Operation: OpReplace, StartLine: 2, EndLine: 3, NewContent: "X\nY"},
			"a\nX\nY\nd",
		},
		{
			"replace single line without end_line",
			"a\nb\nc",
			Modification{Operation: OpReplace, StartLine: 2, NewContent: "B"},
			"a\nB\nc",
		},
		{
			"insert after",
			"a\nb",
			Modification{Operation: OpInsert, StartLine: 1, NewContent: "X"},
			"a\nX\nb",
		},
		{
			"insert before first line",
			"a\nb",
			Modification{Operation: OpInsertBefore, StartLine: 1, NewContent: "X"},
			"X\na\nb",
		},
		{
			"delete range",
			"a\nb\nc\nd",
			Modification{Operation: OpDelete, StartLine: 2, EndLine: 3},
			"a\nd",
		},
		{
			"preserves trailing newline",
			"a\nb\n",
			Modification{Operation: OpReplace, StartLine: 1, EndLine: 1, NewContent: "X"},
			"X\nb\n",
		},
		{
			"normalizes crlf",
			"a\r\nb\r\nc",
			Modification{Operation: OpDelete, StartLine: 2, EndLine: 2},
			"a\nc",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ApplyModifications(tc.in, []Modification{tc.mod})
			if err != nil {
				t.Fatalf("ApplyModifications returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestApplyModificationsRangeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		mod  Modification
	}{
		{"start below one", Modification{Operation: OpReplace, StartLine: 0, EndLine: 1, NewContent: "X"}},
		{"replace past end", Modification{Operation: OpReplace, StartLine: 9, EndLine: 9, NewContent: "X"}},
		{"delete past end", Modification{Operation: OpDelete, StartLine: 1, EndLine: 99}},
		{"insert past end", Modification{Operation: OpInsert, StartLine: 42, NewContent: "X"}},
		{"unknown operation", Modification{Operation: Operation("prepend"), StartLine: 1}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ApplyModifications("a\nb\nc", []Modification{tc.mod}); err == nil {
				t.Fatalf("ApplyModifications(%+v) returned nil error", tc.mod)
			}
		})
	}
}
