// Package tabular convierte archivos CSV y XLSX subidos en filas clave/valor.
// Solo interpreta el formato: la validación de negocio de cada fila vive en la capa de aplicación.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/wms-api/internal/domain"
)

// Tipos MIME aceptados.
const (
	MimeCSV      = "text/csv"
	MimeExcelCSV = "application/vnd.ms-excel"
	MimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Format formato detectado del archivo.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
)

// Row fila de datos. Line es el número de fila en el archivo (la cabecera es la 1).
type Row struct {
	Line   int
	Values map[string]string
}

// Get devuelve el valor de la columna sin espacios alrededor; "" si no existe.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// Detect decide el formato por tipo MIME y, en su defecto, por extensión.
func Detect(filename, contentType string) Format {
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case mime == MimeXLSX || ext == ".xlsx":
		return FormatXLSX
	case mime == MimeCSV || mime == MimeExcelCSV || ext == ".csv":
		return FormatCSV
	}
	return FormatUnknown
}

// Parse lee todas las filas del archivo. Devuelve domain.ErrUnsupportedFileFormat si el tipo no es
// CSV ni XLSX y domain.ErrEmptyFile si no hay filas de datos.
func Parse(filename, contentType string, r io.Reader) ([]Row, error) {
	var (
		rows []Row
		err  error
	)
	switch Detect(filename, contentType) {
	case FormatCSV:
		rows, err = ParseCSV(r)
	case FormatXLSX:
		rows, err = ParseXLSX(r)
	default:
		return nil, domain.ErrUnsupportedFileFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return rows, nil
}

// ParseCSV lee un CSV con cabecera. Las filas completamente vacías se omiten.
// Un archivo que no es UTF-8 válido se interpreta como Windows-1252 (CSV exportado por Excel en Windows).
func ParseCSV(r io.Reader) ([]Row, error) {
	src, err := decodeText(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: leer cabecera: %w", err)
	}
	columns := normalizeHeader(header)

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: fila %d: %w", line, err)
		}
		if row, ok := toRow(line, columns, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseXLSX lee la primera hoja del libro; la primera fila es la cabecera.
// Las celdas se leen sin formato: una fecha llega como su número de serie de Excel (ver SerialDate).
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: abrir libro: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer hoja %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	columns := normalizeHeader(records[0])

	var rows []Row
	for i, record := range records[1:] {
		if row, ok := toRow(i+2, columns, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// maxSerial corresponde al 31/12/9999, el último día que Excel representa.
const maxSerial = 2958465

// SerialDate interpreta s como número de serie de fecha de Excel (sistema 1900) y devuelve el
// día en UTC. ok es false si s no es un número o queda fuera del rango de fechas de Excel.
func SerialDate(s string) (time.Time, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 1 || v > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(v, false)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func decodeText(r io.Reader) (io.Reader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: leer archivo: %w", err)
	}
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("csv: decodificar Windows-1252: %w", err)
	}
	return bytes.NewReader(decoded), nil
}

func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // BOM de Excel
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return cols
}

func toRow(line int, columns, record []string) (Row, bool) {
	values := make(map[string]string, len(columns))
	empty := true
	for i, col := range columns {
		if col == "" || i >= len(record) {
			continue
		}
		v := strings.TrimSpace(record[i])
		if v != "" {
			empty = false
		}
		values[col] = v
	}
	return Row{Line: line, Values: values}, !empty
}
