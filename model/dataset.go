package model

// DatasetKind tells which rule produced a dataset.
type DatasetKind int

const (
	// Full holds every valid record.
	Full DatasetKind = iota
	// Filtered holds the records matching the marker substring.
	Filtered
)

// String returns the string representation of the kind.
func (k DatasetKind) String() string {
	switch k {
	case Full:
		return "full"
	case Filtered:
		return "filtered"
	default:
		return "unknown"
	}
}

// ParseDatasetKind parses "full" or "filtered".
func ParseDatasetKind(s string) (DatasetKind, bool) {
	switch s {
	case "full":
		return Full, true
	case "filtered":
		return Filtered, true
	default:
		return 0, false
	}
}

// Dataset is an ordered, ranked sequence of records.
type Dataset struct {
	Kind    DatasetKind
	Marker  string // Marker substring used for Filtered datasets
	Records []Record
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// IsEmpty reports whether the dataset holds no records.
func (d Dataset) IsEmpty() bool {
	return len(d.Records) == 0
}
