package tabular

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/angelmondragon/lucroreal-backend/pkg/money"
)

// Format identifies the shape of a raw payload.
type Format string

const (
	FormatText     Format = "text"
	FormatWorkbook Format = "workbook"
	FormatLegacyXL Format = "legacy_workbook"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}

	machineNumber = regexp.MustCompile(`^-?\d+\.\d+([eE][+-]?\d+)?$|^-?\d+[eE][+-]?\d+$`)
)

// Detect sniffs the payload format from its leading bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatWorkbook
	case bytes.HasPrefix(data, oleMagic):
		return FormatLegacyXL
	default:
		return FormatText
	}
}

// Load converts a payload of any supported format into rows of fields.
// An empty payload yields no rows and no error.
func Load(data []byte) ([][]string, Format, error) {
	format := Detect(data)
	switch format {
	case FormatWorkbook:
		rows, err := ReadWorkbook(data)
		return rows, format, err
	case FormatLegacyXL:
		return nil, format, fmt.Errorf("legacy .xls workbooks are not supported; export as .xlsx or .csv")
	default:
		return Scan(DecodeText(data)), format, nil
	}
}

// DecodeText returns the payload as UTF-8, dropping a byte order mark and
// decoding Windows-1252 exports that are not valid UTF-8.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// ReadWorkbook reads the first sheet of an XLSX workbook. Cells stored as
// numbers are read raw and rewritten in the export's decimal-comma convention; rows are
// padded to the widest row so positional columns stay addressable.
func ReadWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]string, 0, len(rows))
	for r, row := range rows {
		padded := make([]string, width)
		for c, cell := range row {
			if machineNumber.MatchString(cell) && numericCell(f, sheets[0], c+1, r+1) {
				cell = money.Localize(cell)
			}
			padded[c] = cell
		}
		out = append(out, padded)
	}
	return out, nil
}

// numericCell reports whether the cell is stored as a number. Text cells that
// merely look numeric (SKUs, ids) keep their raw value.
func numericCell(f *excelize.File, sheet string, col, row int) bool {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return false
	}
	return typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset
}
