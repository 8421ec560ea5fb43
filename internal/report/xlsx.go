// Package report renders analytics reports into downloadable spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Summary"
	SheetDays    = "Days"
	SheetRecords = "Records"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	DaysHeader    = []string{"Date", "Records", "Duration (h)", "Quality", "Anomalous", "Reasons"}
	RecordsHeader = []string{"Record ID", "Date", "Duration (h)", "Efficiency", "Quality", "Bedtime", "Deep (min)", "REM (min)", "Light (min)"}
)

// WriteAnalytics writes rep as an XLSX workbook with a summary sheet, one row
// per day and one row per record. Undefined metrics are left blank.
func WriteAnalytics(w io.Writer, rep *domain.AnalyticsReport) error {
	f := excelize.NewFile()
	defer f.Close()

	summaryIndex, err := f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	for _, name := range []string{SheetDays, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(summaryIndex)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, rep, headerStyle); err != nil {
		return err
	}

	days := make([][]any, len(rep.TrendSummary.Days))
	for i, d := range rep.TrendSummary.Days {
		days[i] = []any{d.Date, d.Records, d.DurationHours, value(d.QualityScore), d.Anomalous, strings.Join(d.Reasons, "; ")}
	}
	if err := writeTable(f, SheetDays, DaysHeader, days, headerStyle); err != nil {
		return err
	}

	records := make([][]any, len(rep.Records))
	for i, m := range rep.Records {
		records[i] = []any{
			m.RecordID.String(), m.Date, m.DurationHours, value(m.Efficiency), value(m.QualityScore),
			text(m.Bedtime), value(m.DeepMinutes), value(m.REMMinutes), value(m.LightMinutes),
		}
	}
	if err := writeTable(f, SheetRecords, RecordsHeader, records, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, rep *domain.AnalyticsReport, headerStyle int) error {
	s := rep.TrendSummary
	var direction, durationDirection any
	if s.Direction != nil {
		direction = string(*s.Direction)
	}
	if s.DurationDirection != nil {
		durationDirection = string(*s.DurationDirection)
	}
	var meanBedtime, bedtimeStd, scheduleScore, scheduleRating any
	if sc := s.ScheduleConsistency; sc != nil {
		meanBedtime, bedtimeStd, scheduleScore, scheduleRating = sc.MeanBedtime, sc.BedtimeStdMinutes, sc.Score, string(sc.Rating)
	}
	var variabilityRatio, variabilityScore, variabilityRating any
	if dv := s.DurationVariability; dv != nil {
		variabilityRatio, variabilityScore, variabilityRating = dv.Ratio, dv.Score, string(dv.Rating)
	}
	rows := [][]any{
		{"User", rep.UserID.String()},
		{"From", s.From.Format(time.RFC3339)},
		{"To", s.To.Format(time.RFC3339)},
		{"Average duration (h)", value(s.AverageDurationHours)},
		{"Average quality", value(s.AverageQualityScore)},
		{"Quality slope (per day)", value(s.QualitySlope)},
		{"Direction", direction},
		{"Duration slope (h per day)", value(s.DurationSlope)},
		{"Duration direction", durationDirection},
		{"Average deep (min)", value(s.AverageDeepMinutes)},
		{"Average REM (min)", value(s.AverageREMMinutes)},
		{"Average light (min)", value(s.AverageLightMinutes)},
		{"Mean bedtime", meanBedtime},
		{"Bedtime std dev (min)", bedtimeStd},
		{"Schedule score", scheduleScore},
		{"Schedule rating", scheduleRating},
		{"Duration variability", variabilityRatio},
		{"Variability score", variabilityScore},
		{"Variability rating", variabilityRating},
		{"Total records", s.TotalRecords},
		{"Date range (days)", s.DateRangeDays},
		{"Anomaly dates", strings.Join(s.AnomalyDates, ", ")},
	}
	if err := writeTable(f, SheetSummary, []string{"Metric", "Value"}, rows, headerStyle); err != nil {
		return err
	}

	start := len(rows) + 3
	cell, _ := excelize.CoordinatesToCellName(1, start)
	if err := f.SetCellValue(SheetSummary, cell, "Recommendations"); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	if err := f.SetCellStyle(SheetSummary, cell, cell, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	for i, msg := range rep.Recommendations {
		cell, _ := excelize.CoordinatesToCellName(1, start+1+i)
		if err := f.SetCellValue(SheetSummary, cell, msg); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 26)
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// value unwraps an optional metric; nil stays nil so the cell is left blank.
func value(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
