package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pratish7991/TablueMeta/internal/index"
	"github.com/pratish7991/TablueMeta/internal/metadata"
)

// Service produces an XLSX catalog of the indexed dashboards.
type Service struct {
	store  *index.Store
	logger *slog.Logger
}

func NewService(store *index.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportCatalogXLSX returns an XLSX workbook (as bytes) listing every
// dashboard in every indexed workbook, one sheet for all of them.
func (s *Service) ExportCatalogXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	workbooks, err := s.store.Workbooks()
	if err != nil {
		return nil, fmt.Errorf("list workbooks: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Dashboards"
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Workbook",
		"Dashboard ID",
		"Name",
		"Description",
		"Tags",
		"KPIs",
		"URL",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	total := 0
	for _, wb := range workbooks {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		_, dashboards, err := s.store.Load(wb)
		if err != nil {
			s.logger.Warn("export.skip_workbook", "workbook", wb, "error", err)
			continue
		}
		for _, d := range dashboards {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			write(1, wb)
			write(2, d.ID)
			write(3, d.Name)
			write(4, truncate(d.Description, 140))
			write(5, strings.Join(d.Tags, ", "))
			write(6, kpiSummary(d.KPIs))
			write(7, d.URL)
			row++
			total++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // workbook
	_ = f.SetColWidth(sheet, "B", "B", 28) // id
	_ = f.SetColWidth(sheet, "C", "C", 30) // name
	_ = f.SetColWidth(sheet, "D", "D", 48) // description
	_ = f.SetColWidth(sheet, "E", "E", 30) // tags
	_ = f.SetColWidth(sheet, "F", "F", 48) // kpis
	_ = f.SetColWidth(sheet, "G", "G", 40) // url

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"workbooks", len(workbooks),
		"rows", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func kpiSummary(kpis []metadata.Kpi) string {
	names := make([]string, 0, len(kpis))
	for _, k := range kpis {
		names = append(names, k.Name)
	}
	return strings.Join(names, "; ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
