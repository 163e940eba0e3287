package report

import (
	"context"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

const defaultSheet = "Sheet1"

// WriteSpreadsheets exports the categories of mode and returns the paths
// written.
func (e *Exporter) WriteSpreadsheets(ctx context.Context, mode Mode, t Tables) ([]string, error) {
	cats := mode.Categories()
	if len(cats) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
	handlers := make([]handler, 0, len(cats))
	for _, c := range cats {
		h, err := handlerFor(c)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}

	var paths []string
	err := e.withLock(ctx, func() error {
		if e.Workbook != "" {
			start := time.Now()
			path, err := e.writeAtomic(e.Workbook, func(w io.Writer) error {
				return writeWorkbook(w, t, handlers...)
			})
			e.track(ctx, "xlsx", path, start, err)
			if err != nil {
				return err
			}
			paths = append(paths, path)
			return nil
		}

		for _, h := range handlers {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			path, err := e.writeAtomic(h.file, func(w io.Writer) error {
				return writeWorkbook(w, t, h)
			})
			e.track(ctx, "xlsx", path, start, err)
			if err != nil {
				return err
			}
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// writeWorkbook writes one sheet per handler. A single handler keeps its
// sheet name so every per-category file looks the same.
func writeWorkbook(w io.Writer, t Tables, handlers ...handler) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, h := range handlers {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, h.sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(h.sheet); err != nil {
			return err
		}
		if err := writeSheet(f, h.sheet, h.headers, h.rows(t), bold); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 24)
}
