package aftreg

import (
	"fmt"
	"strings"
)

// Fmter formats the elements of a column of summary values.  The
// second argument is the column heading, which may be used to set the
// column width.
type Fmter func(interface{}, string) []string

// SummaryTable holds the summary values for a fitted model.
type SummaryTable struct {

	// Title
	Title string

	// Column names
	ColNames []string

	// Formatters for the column values
	ColFmt []Fmter

	// Cols[j] is the j^th column.  Its concrete type should be an
	// array, e.g. of numbers or strings.
	Cols []interface{}

	// Values at the top of the summary
	Top []string

	// Messages displayed below the table
	Msg []string
}

// String returns the table as a string.
func (s *SummaryTable) String() string {

	var tab [][]string
	var wx []int
	for j, c := range s.Cols {
		u := s.ColFmt[j](c, s.ColNames[j])
		tab = append(tab, u)
		w := len(s.ColNames[j])
		if len(u) > 0 && len(u[0]) > w {
			w = len(u[0])
		}
		wx = append(wx, w)
	}

	// Total width of the table
	var tw int
	for _, w := range wx {
		tw += w
	}
	if tw < len(s.Title) {
		tw = len(s.Title)
	}
	for _, x := range s.Top {
		if tw < len(x) {
			tw = len(x)
		}
	}

	var buf strings.Builder

	// Center the title
	kr := (tw - len(s.Title)) / 2
	if kr < 0 {
		kr = 0
	}
	buf.WriteString(strings.Repeat(" ", kr))
	buf.WriteString(s.Title)
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("=", tw))
	buf.WriteString("\n")

	for _, x := range s.Top {
		buf.WriteString(x)
		buf.WriteString("\n")
	}
	buf.WriteString(strings.Repeat("-", tw))
	buf.WriteString("\n")

	for j, c := range s.ColNames {
		fmt.Fprintf(&buf, fmt.Sprintf("%%%ds", wx[j]), c)
	}
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("-", tw))
	buf.WriteString("\n")

	for i := 0; i < len(tab[0]); i++ {
		for j := 0; j < len(tab); j++ {
			fmt.Fprintf(&buf, fmt.Sprintf("%%%ds", wx[j]), tab[j][i])
		}
		buf.WriteString("\n")
	}
	buf.WriteString(strings.Repeat("-", tw))
	buf.WriteString("\n")

	for _, msg := range s.Msg {
		buf.WriteString(msg)
		buf.WriteString("\n")
	}

	return buf.String()
}
