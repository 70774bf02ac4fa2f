package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Enrollment Report",
		Columns: []string{"Student", "Course", "Status"},
		Rows: []map[string]string{
			{"Student": "Ada", "Course": "Algorithms", "Status": "active"},
			{"Student": "Grace", "Course": "Compilers", "Status": "completed"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	require.Equal(t, "Student,Course,Status\nAda,Algorithms,active\nGrace,Compilers,completed\n", string(out))
}

func TestCSVRenderNoColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleTable())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFRenderNoColumns(t *testing.T) {
	_, err := NewPDFExporter().Render(Table{})
	require.Error(t, err)
}
