package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	leads := []model.EnrichedLead{
		{Name: "Maria Reyes", Role: "Logistics Manager", Company: "Gulf Shipping",
			Domain: "gulfshipping.com", Email: "maria@gulfshipping.com",
			Status: model.StatusMatched, SourceLink: "https://linkedin.com/in/mreyes"},
		{Name: "John Smith", Role: "Ops Lead", Company: "Acme",
			Status: model.StatusNotFound},
	}

	require.NoError(t, WriteXLSX(path, leads))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Leads", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Name", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Maria Reyes", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "maria@gulfshipping.com", sheet.Rows[1].Cells[4].String())
	assert.Equal(t, "matched", sheet.Rows[1].Cells[5].String())
	assert.Equal(t, "not_found", sheet.Rows[2].Cells[5].String())
}

func TestWriteXLSX_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, WriteXLSX(path, nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets[0].Rows, 1) // header only
}
