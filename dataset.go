// Package aftreg provides shared types used to fit regression models
// to right censored event time data.
package aftreg

// Dtype is the type of all data columns.
type Dtype = float64

// Dataset defines a collection of named data columns.  All columns
// must have the same length, and the data are not copied or modified
// by any model that fits to them.
type Dataset struct {
	data  [][]Dtype
	names []string
}

// NewDataset returns a Dataset built from the given columns and column
// names.
func NewDataset(data [][]Dtype, names []string) Dataset {

	if len(data) != len(names) {
		panic("aftreg: data and names must have the same length")
	}

	return Dataset{
		data:  data,
		names: names,
	}
}

// Names returns the names of the columns in the dataset.
func (ds Dataset) Names() []string {
	return ds.names
}

// Data returns the columns of the dataset.
func (ds Dataset) Data() [][]Dtype {
	return ds.data
}
