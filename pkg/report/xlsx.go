package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	sheetCases   = "Casos de Prueba"
	sheetSummary = "Resumen"

	patternType    = "pattern"
	patternValue   = 1
	headerBgColor  = "DBEAFE"
	failedBgColor  = "FF5900"
	timeoutBgColor = "FFEB9C"
	passedBgColor  = "DCFCE7"

	defaultColumnWidth = 16
	wideColumnWidth    = 48
)

var xlsxHeaders = []string{
	"ID", "Título", "Descripción", "Pasos", "Resultados esperados",
	"Código", "Estado", "Origen", "Mensaje", "Duración",
}

// WriteXLSX writes the report as an Excel workbook with a cases sheet and
// a summary sheet. Code longer than a cell can hold continues in extra
// "Código (cont. N)" columns after the last regular column.
func WriteXLSX(path string, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCases); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range xlsxHeaders {
		width := float64(defaultColumnWidth)
		if header == "Código" || header == "Pasos" || header == "Descripción" {
			width = wideColumnWidth
		}
		if err := writeHeader(f, i+1, header, width); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{headerBgColor}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	styles := map[string]int{}
	for state, color := range map[string]string{
		"completed":       passedBgColor,
		"failed":          failedBgColor,
		"timeout":         timeoutBgColor,
		"transport_error": failedBgColor,
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("create %s style: %w", state, err)
		}
		styles[state] = id
	}

	continuations := 0
	for i, c := range r.TestCases {
		row := i + 2
		chunks := splitCell(c.Code)
		values := []interface{}{
			c.ID, c.Title, c.Description,
			numbered(c.Steps), numbered(c.ExpectedResults), chunks[0],
		}
		if c.LastRun != nil {
			values = append(values, c.LastRun.State, c.LastRun.Source, c.LastRun.Message, c.LastRun.Duration)
		} else {
			values = append(values, "", "", "", "")
		}
		for _, chunk := range chunks[1:] {
			values = append(values, chunk)
		}

		for n := continuations + 1; n < len(chunks); n++ {
			header := fmt.Sprintf("Código (cont. %d)", n)
			if err := writeHeader(f, len(xlsxHeaders)+n, header, wideColumnWidth); err != nil {
				return err
			}
			continuations = n
		}

		for j, v := range values {
			if err := setCell(f, sheetCases, j+1, row, v); err != nil {
				return err
			}
		}
		if c.LastRun != nil {
			if style, ok := styles[c.LastRun.State]; ok {
				cell, _ := excelize.CoordinatesToCellName(7, row)
				if err := f.SetCellStyle(sheetCases, cell, cell, style); err != nil {
					return fmt.Errorf("style %s: %w", cell, err)
				}
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(xlsxHeaders) + continuations)
	if err := f.SetCellStyle(sheetCases, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	if err := writeSummarySheet(f, r); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, col int, header string, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetCases, name, name, width); err != nil {
		return fmt.Errorf("set width of %s: %w", name, err)
	}
	return setCell(f, sheetCases, col, 1, header)
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// splitCell cuts s into pieces that each fit in one cell. It always returns
// at least one piece.
func splitCell(s string) []string {
	runes := []rune(s)
	if len(runes) <= excelize.TotalCellChars {
		return []string{s}
	}
	var chunks []string
	for len(runes) > 0 {
		n := excelize.TotalCellChars
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

func writeSummarySheet(f *excelize.File, r *Report) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := f.SetColWidth(sheetSummary, "A", "B", wideColumnWidth); err != nil {
		return fmt.Errorf("set summary width: %w", err)
	}

	rows := [][2]interface{}{
		{"Exploración", r.Exploration.Name},
		{"URL", r.Exploration.URL},
		{"Generado", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Casos", r.Summary.Total},
		{"Con código", r.Summary.WithCode},
		{"Completados", r.Summary.Completed},
		{"Fallidos", r.Summary.Failed},
		{"Tiempo agotado", r.Summary.Timeout},
		{"Errores", r.Summary.Errored},
		{"Sin ejecutar", r.Summary.NotRun},
	}
	for i, kv := range rows {
		if err := setCell(f, sheetSummary, 1, i+1, kv[0]); err != nil {
			return err
		}
		if err := setCell(f, sheetSummary, 2, i+1, kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func numbered(items []string) string {
	var b strings.Builder
	for i, s := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, s)
	}
	return b.String()
}
