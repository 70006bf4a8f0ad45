package excel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-backoffice/internal/infrastructure/excel"
)

func TestRows_CSVConBOMYFilasIrregulares(t *testing.T) {
	in := "\ufeffgroup_id,code,name\ng-1,A1,Chocolate,extra\n\ng-1,B2\n"

	rows, err := excel.NewSheetReader().Rows("Productos.CSV", strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "group_id", rows[0][0])
	assert.Len(t, rows[1], 4)
	assert.Equal(t, []string{"g-1", "B2"}, rows[2])
}

func TestRows_XLSXPrimeraHoja(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"group_id", "code", "name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"g-1", "A1", "Chocolate"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := excel.NewSheetReader().Rows("inventario.xlsx", bytes.NewReader(buf.Bytes()))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Chocolate", rows[1][2])
}

func TestRows_FormatoNoSoportado(t *testing.T) {
	_, err := excel.NewSheetReader().Rows("inventario.pdf", strings.NewReader(""))
	assert.Error(t, err)
}
