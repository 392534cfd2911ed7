package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnLetter converts a 1-based column number to its letter form
// (1 -> A, 27 -> AA).
func ColumnLetter(col int) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}

// A1 builds a single-cell address from 1-based column and row.
func A1(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row)
}

// RangeStart returns the 1-based column and row of the first cell of an
// A1 range like "T33:T50" or "B3".
func RangeStart(a1 string) (col, row int) {
	ref := a1
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	letters := ""
	digits := ""
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			letters += string(r)
		} else if r >= 'a' && r <= 'z' {
			letters += strings.ToUpper(string(r))
		} else {
			digits += string(r)
		}
	}
	for _, r := range letters {
		col = col*26 + int(r-'A'+1)
	}
	row, _ = strconv.Atoi(digits)
	return col, row
}
