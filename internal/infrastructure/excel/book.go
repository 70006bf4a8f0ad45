// Package excel genera los reportes xlsx con excelize y lee los archivos de importación.
package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	colorTitle  = "0000FF"
	colorDate   = "FFA500"
	colorHeader = "ADD8E6"
	colorWhite  = "FFFFFF"
)

// book envuelve un libro excelize con los estilos de los reportes ya registrados.
type book struct {
	f      *excelize.File
	sheet  string
	title  int
	date   int
	header int
	total  int
	err    error // primer error de escritura
}

// newBook crea el libro y renombra la hoja inicial.
func newBook(sheet string) (*book, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	b := &book{f: f, sheet: sheet}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&b.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: colorWhite},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorTitle}},
			Alignment: center,
		}},
		{&b.date, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: colorWhite},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorDate}},
			Alignment: center,
		}},
		{&b.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "000000"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeader}},
			Alignment: center,
		}},
		{&b.total, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorDate}},
		}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			return nil, fmt.Errorf("excel: estilo: %w", err)
		}
		*s.dst = id
	}
	return b, nil
}

// use cambia la hoja activa de escritura, creándola si no existe.
func (b *book) use(sheet string) {
	if b.err != nil {
		return
	}
	if idx, _ := b.f.GetSheetIndex(sheet); idx < 0 {
		_, b.err = b.f.NewSheet(sheet)
	}
	b.sheet = sheet
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (b *book) check(err error) {
	if b.err == nil {
		b.err = err
	}
}

// set escribe una celda; los decimales se guardan como número.
func (b *book) set(col, row int, v any) {
	switch d := v.(type) {
	case nil:
		return
	case decimal.Decimal:
		v = d.InexactFloat64()
	case time.Time:
		v = d.Format("2006-01-02")
	}
	b.check(b.f.SetCellValue(b.sheet, cell(col, row), v))
}

// line escribe values a partir de la columna 1; nil deja la celda vacía.
func (b *book) line(row int, values ...any) {
	for i, v := range values {
		b.set(i+1, row, v)
	}
}

// banner escribe un título combinado en azul y la fecha combinada en naranja a su derecha.
func (b *book) banner(row, titleCols int, title string, dateCols int, date string) {
	first, last := cell(1, row), cell(titleCols, row)
	b.check(b.f.SetCellValue(b.sheet, first, title))
	if titleCols > 1 {
		b.check(b.f.MergeCell(b.sheet, first, last))
	}
	b.check(b.f.SetCellStyle(b.sheet, first, last, b.title))
	if dateCols == 0 {
		return
	}
	dFirst, dLast := cell(titleCols+1, row), cell(titleCols+dateCols, row)
	b.check(b.f.SetCellValue(b.sheet, dFirst, date))
	if dateCols > 1 {
		b.check(b.f.MergeCell(b.sheet, dFirst, dLast))
	}
	b.check(b.f.SetCellStyle(b.sheet, dFirst, dLast, b.date))
}

// headers escribe los encabezados de columna en azul claro.
func (b *book) headers(row int, names ...string) {
	for i, n := range names {
		b.check(b.f.SetCellValue(b.sheet, cell(i+1, row), n))
	}
	b.check(b.f.SetCellStyle(b.sheet, cell(1, row), cell(len(names), row), b.header))
}

// plainHeaders encabezados sin estilo en columnas dispersas (formatos de importación contable).
func (b *book) plainHeaders(row int, names map[int]string) {
	for col, n := range names {
		b.check(b.f.SetCellValue(b.sheet, cell(col, row), n))
	}
}

// sum escribe SUM(col first:col last) o 0 si el rango está vacío.
func (b *book) sum(col, row, first, last int) {
	if last < first {
		b.check(b.f.SetCellValue(b.sheet, cell(col, row), 0))
		return
	}
	b.formula(col, row, fmt.Sprintf("SUM(%s:%s)", cell(col, first), cell(col, last)))
}

func (b *book) formula(col, row int, formula string) {
	b.check(b.f.SetCellFormula(b.sheet, cell(col, row), formula))
}

// highlight marca la fila como fila de totales.
func (b *book) highlight(row, cols int) {
	b.check(b.f.SetCellStyle(b.sheet, cell(1, row), cell(cols, row), b.total))
}

func (b *book) widths(widths ...float64) {
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		b.check(b.f.SetColWidth(b.sheet, name, name, w))
	}
}

// bytes serializa el libro; devuelve el primer error de escritura si lo hubo.
func (b *book) bytes() ([]byte, error) {
	defer b.f.Close()
	if b.err != nil {
		return nil, fmt.Errorf("excel: %s: %w", b.sheet, b.err)
	}
	buf, err := b.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func period(from, to time.Time) string {
	if from.Equal(to) {
		return from.Format("2006-01-02")
	}
	return from.Format("2006-01-02") + " al " + to.Format("2006-01-02")
}
