package importer

import (
	"bytes"
	"encoding/csv"
)

// SampleCSV produces a minimal valid import file (header plus example rows)
// for users to download and fill in.
func SampleCSV() string {
	rows := [][]string{
		Header,
		{"The Hunger Games", "Suzanne Collins", "Fiction", "Science Fiction", "Dystopian", "Courage", "810L", "7", "Physical"},
		{"Wonder", "R.J. Palacio", "Fiction", "Realistic Fiction", "School Life", "Kindness", "790L", "5", "Kindle"},
		{"I Am Malala", "Malala Yousafzai", "Non-Fiction", "Biography", "Memoir", "Activism", "1000L", "8", "Not Owned"},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(rows)
	w.Flush()
	return buf.String()
}
