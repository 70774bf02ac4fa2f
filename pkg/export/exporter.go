// Package export renders tabular report data as downloadable documents.
package export

// Table is an ordered set of columns plus row values keyed by column name.
type Table struct {
	Title   string
	Columns []string
	Rows    []map[string]string
}

// Exporter renders a table into a document body.
type Exporter interface {
	Render(table Table) ([]byte, error)
	ContentType() string
	FileExtension() string
}
