package monitor

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSVHeader is the first row of exported monitor data.
var CSVHeader = []string{"time", "cpu_percent", "memory_percent", "disk_percent"}

// FileName returns performance_monitor_<YYYYMMDD_HHMMSS>.csv for t.
func FileName(t time.Time) string {
	return "performance_monitor_" + t.Format("20060102_150405") + ".csv"
}

// WriteCSV writes samples with a header row.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.Time.Format(time.RFC3339),
			pct(s.CPU),
			pct(s.Memory),
			pct(s.Disk),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
