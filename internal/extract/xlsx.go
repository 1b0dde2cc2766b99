package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxText renders every sheet as a "Sheet: name" header followed by tab-separated rows.
func xlsxText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		var body strings.Builder
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
			if line == "" {
				continue
			}
			body.WriteString(line)
			body.WriteByte('\n')
		}
		if body.Len() == 0 {
			continue
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		b.WriteString(body.String())
	}
	return strings.TrimSpace(b.String()), nil
}
