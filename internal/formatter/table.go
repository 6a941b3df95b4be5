// Package formatter renders normalized responses for terminal output.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"bvapi/internal/models"
	"bvapi/pkg/attrmap"

	"github.com/mattn/go-runewidth"
)

// DefaultColumns are used when FormatTable is given none.
var DefaultColumns = []string{models.FieldID, models.FieldModerationStatus, models.FieldSubmissionTime, "Author.Id"}

// FormatTable renders the Results of env as a markdown table. Each column is a
// dotted path into the result, e.g. "Author.UserNickname".
func FormatTable(env attrmap.Map, columns []string) string {
	if len(columns) == 0 {
		columns = DefaultColumns
	}

	table := [][]string{columns}

	for _, item := range env.GetList(models.FieldResults) {
		entity, ok := item.(attrmap.Map)
		if !ok {
			continue
		}

		row := make([]string, len(columns))
		for i, col := range columns {
			v, _ := entity.Dig(strings.Split(col, ".")...)
			row[i] = cell(v)
		}

		table = append(table, row)
	}

	return strings.Join(alignTable(table), "\n") + "\n"
}

// cell formats a single value. Entities are shown by Id.
func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return escapeCell(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case attrmap.Map:
		return cell(val.Get(models.FieldID))
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = cell(item)
		}

		return strings.Join(parts, ", ")
	default:
		return escapeCell(fmt.Sprint(val))
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")

	return strings.ReplaceAll(s, "|", `\|`)
}

// alignTable pads every column to its display width and inserts the header
// separator after the first row.
func alignTable(table [][]string) []string {
	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Minimum width for the separator "---".
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	result := make([]string, 0, len(table)+1)

	for i, row := range table {
		result = append(result, renderRow(row, colWidths, false))

		if i == 0 {
			result = append(result, renderRow(nil, colWidths, true))
		}
	}

	return result
}

func renderRow(row []string, colWidths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			// Pad with spaces based on display width
			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
