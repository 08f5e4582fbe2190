// Package export renders a dashboard as an XLSX workbook with one sheet per
// section.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"rsu/internal/analytics"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names in workbook order.
const (
	SheetSummary       = "Summary"
	SheetPersons       = "Persons"
	SheetVulnerability = "Vulnerability"
	SheetPrograms      = "Programs"
	SheetEnrollments   = "Enrollments"
	SheetPayments      = "Payments"
)

type row []any

type sheet struct {
	name   string
	header []string
	rows   []row
	widths []float64
}

// Render builds the workbook and returns its bytes.
func Render(d *analytics.Dashboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets(d) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", s.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", s.name, err)
	}
	for i, r := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any(r)
		if err := f.SetSheetRow(s.name, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.name, i+2, err)
		}
	}
	for i, w := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return fmt.Errorf("size %s column %s: %w", s.name, col, err)
		}
	}
	return nil
}

func sheets(d *analytics.Dashboard) []sheet {
	summary := sheet{
		name:   SheetSummary,
		header: []string{"Metric", "Value"},
		widths: []float64{32, 24},
		rows: []row{
			{"Generated at", d.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
			{"Persons", d.Persons.Total},
			{"Households", d.Households.Total},
			{"Average household size", d.Households.AverageSize},
			{"Assessed persons", d.Vulnerability.Assessed},
			{"Programs", d.Programs.Total},
			{"Total budget", d.Programs.TotalBudget},
			{"Total spent", d.Programs.TotalSpent},
			{"Budget utilization (%)", d.Programs.Utilization},
			{"Enrollments", d.Enrollments.Total},
			{"Payments", d.Payments.Total},
			{"Payments amount", d.Payments.Amount},
		},
	}

	persons := sheet{
		name:   SheetPersons,
		header: []string{"Breakdown", "Group", "Persons"},
		widths: []float64{16, 24, 12},
	}
	for _, k := range sortedKeys(d.Persons.ByProvince) {
		persons.rows = append(persons.rows, row{"Province", k, d.Persons.ByProvince[k]})
	}
	for _, k := range sortedKeys(d.Persons.ByGender) {
		persons.rows = append(persons.rows, row{"Gender", k, d.Persons.ByGender[k]})
	}
	for _, k := range analytics.AgeBrackets() {
		persons.rows = append(persons.rows, row{"Age bracket", k, d.Persons.ByAgeBracket[k]})
	}

	vulnerability := sheet{
		name:   SheetVulnerability,
		header: []string{"Metric", "Value"},
		widths: []float64{20, 12},
		rows: []row{
			{"Mean score", d.Vulnerability.Mean},
			{"Median score", d.Vulnerability.Median},
			{"Standard deviation", d.Vulnerability.StdDev},
		},
	}
	for _, k := range sortedKeys(d.Vulnerability.ByTier) {
		vulnerability.rows = append(vulnerability.rows, row{"Tier " + k, d.Vulnerability.ByTier[k]})
	}

	programs := countSheet(SheetPrograms, "Programs", d.Programs.ByStatus)
	enrollments := countSheet(SheetEnrollments, "Enrollments", d.Enrollments.ByStatus)

	payments := sheet{
		name:   SheetPayments,
		header: []string{"Status", "Payments", "Amount"},
		widths: []float64{16, 12, 16},
	}
	for _, k := range sortedKeys(d.Payments.ByStatus) {
		sa := d.Payments.ByStatus[k]
		payments.rows = append(payments.rows, row{k, sa.Count, sa.Amount})
	}

	return []sheet{summary, persons, vulnerability, programs, enrollments, payments}
}

func countSheet(name, label string, counts map[string]int) sheet {
	s := sheet{
		name:   name,
		header: []string{"Status", label},
		widths: []float64{16, 12},
	}
	for _, k := range sortedKeys(counts) {
		s.rows = append(s.rows, row{k, counts[k]})
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
