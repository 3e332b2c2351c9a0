package aftreg

import (
	"fmt"
	"strings"
	"testing"
)

func TestDataset(t *testing.T) {

	data := [][]Dtype{
		{1, 2, 3},
		{0, 1, 1},
	}
	names := []string{"time", "status"}

	ds := NewDataset(data, names)

	if len(ds.Names()) != 2 || ds.Names()[0] != "time" {
		t.Errorf("Names=%v", ds.Names())
	}
	if len(ds.Data()) != 2 || ds.Data()[1][2] != 1 {
		t.Errorf("Data=%v", ds.Data())
	}
}

func TestSummaryTable(t *testing.T) {

	fs := func(x interface{}, h string) []string {
		return x.([]string)
	}
	fn := func(x interface{}, h string) []string {
		y := x.([]float64)
		var s []string
		for i := range y {
			s = append(s, fmt.Sprintf("%10.3f", y[i]))
		}
		return s
	}

	sum := &SummaryTable{
		Title:    "Example model",
		ColNames: []string{"Variable", "Estimate"},
		ColFmt:   []Fmter{fs, fn},
		Cols: []interface{}{
			[]string{"x1", "x2"},
			[]float64{1.25, -0.5},
		},
		Top: []string{"  Sample size: 10"},
		Msg: []string{"A message"},
	}

	s := sum.String()
	for _, frag := range []string{"Example model", "Variable", "x2", "1.250", "A message"} {
		if !strings.Contains(s, frag) {
			t.Errorf("summary is missing '%s':\n%s", frag, s)
		}
	}
}
