package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader lee archivos de importación CSV o XLSX (según la extensión).
type SheetReader struct{}

// NewSheetReader construye el lector.
func NewSheetReader() *SheetReader { return &SheetReader{} }

// Rows devuelve todas las filas de la primera hoja (XLSX) o del CSV.
func (SheetReader) Rows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return xlsxRows(r)
	case ".csv", "":
		return csvRows(r)
	default:
		return nil, fmt.Errorf("formato no soportado %q, use .csv o .xlsx", filepath.Ext(filename))
	}
}

func xlsxRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("el libro no tiene hojas")
	}
	return f.GetRows(sheets[0])
}

// csvRows acepta filas de longitud variable y quita el BOM de UTF-8 que agrega Excel.
func csvRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}
