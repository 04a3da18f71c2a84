package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// columnGap separates columns.
const columnGap = 2

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleLen is the printed width of s, ignoring color escapes.
func visibleLen(s string) int {
	return utf8.RuneCountInString(ansiSeq.ReplaceAllString(s, ""))
}

// Table prints column-aligned rows under a header and a dash divider.
// Rows are buffered until Flush so widths fit the widest cell; colored
// cells align by their visible width. A table with no rows prints nothing.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
	prefix  string
}

// NewTable creates a table on stdout with the given column headers.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table that writes to out.
func NewTableTo(out io.Writer, headers ...string) *Table {
	return &Table{out: out, headers: headers}
}

// WithPrefix sets a string prepended to each line (headers, divider, rows).
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// Row adds a row. Missing trailing cells print empty.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Len returns the number of rows added.
func (t *Table) Len() int { return len(t.rows) }

// Flush writes the table and resets it.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}
	widths := t.widths()

	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", len(h))
	}
	t.line(widths, t.headers)
	t.line(widths, dividers)
	for _, r := range t.rows {
		t.line(widths, r)
	}
	t.rows = nil
}

func (t *Table) widths() []int {
	n := len(t.headers)
	for _, r := range t.rows {
		if len(r) > n {
			n = len(r)
		}
	}
	widths := make([]int, n)
	measure := func(cells []string) {
		for i, c := range cells {
			if w := visibleLen(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.headers)
	for _, r := range t.rows {
		measure(r)
	}
	return widths
}

func (t *Table) line(widths []int, cells []string) {
	var b strings.Builder
	b.WriteString(t.prefix)
	for i, c := range cells {
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-visibleLen(c)+columnGap))
		}
	}
	fmt.Fprintln(t.out, b.String())
}
