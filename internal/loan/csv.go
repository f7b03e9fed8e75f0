package loan

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteScheduleCSV writes one line per installment after a header row.
func WriteScheduleCSV(w io.Writer, rows []ScheduleRow) error {
	cw := csv.NewWriter(w)

	header := []string{
		"period",
		"payment",
		"interest",
		"principal",
		"balance",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Period),
			fmtFloat(r.Payment),
			fmtFloat(r.Interest),
			fmtFloat(r.Principal),
			fmtFloat(r.Balance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteScheduleCSVFile creates path (and its directory) and writes rows to it.
func WriteScheduleCSVFile(path string, rows []ScheduleRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteScheduleCSV(f, rows)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
