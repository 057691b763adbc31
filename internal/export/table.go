package export

import (
	"fmt"

	"github.com/steiner385/capacinator/internal/reports"
)

// Reports export as flat tables; each format renderer consumes the same
// Table so the three formats cannot drift apart.

type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

type Format string

const (
	FormatExcel Format = "excel"
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
)

// Extension maps a format to its file extension.
func (f Format) Extension() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	default:
		return "csv"
	}
}

// ContentType is the response MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Filename follows the download naming contract: {reportType}-report.{ext}.
func Filename(reportType string, f Format) string {
	return fmt.Sprintf("%s-report.%s", reportType, f.Extension())
}

func CapacityTable(r reports.CapacityReport) Table {
	t := Table{
		Title:   "Capacity Report",
		Headers: []string{"Role", "People", "Capacity (FTE)", "Capacity (hours)"},
	}
	for _, rc := range r.ByRole {
		t.Rows = append(t.Rows, []string{
			rc.Role,
			fmt.Sprintf("%d", rc.People),
			fmt.Sprintf("%.2f", rc.CapacityFTE),
			fmt.Sprintf("%.0f", rc.CapacityHours),
		})
	}
	t.Rows = append(t.Rows, []string{
		"Total",
		fmt.Sprintf("%d", r.TotalPeople),
		fmt.Sprintf("%.2f", r.TotalCapacityFTE),
		fmt.Sprintf("%.0f", r.TotalCapacityHours),
	})
	return t
}

func UtilizationTable(r reports.UtilizationReport) Table {
	t := Table{
		Title:   "Utilization Report",
		Headers: []string{"Name", "Role", "Utilization %", "Allocated (h)", "Available (h)", "Projects", "Status"},
	}
	for _, p := range r.People {
		t.Rows = append(t.Rows, []string{
			p.Name,
			p.Role,
			fmt.Sprintf("%.1f", p.Utilization),
			fmt.Sprintf("%.0f", p.AllocatedHours),
			fmt.Sprintf("%.0f", p.AvailableHours),
			fmt.Sprintf("%d", p.ProjectCount),
			p.StatusLabel,
		})
	}
	return t
}

func DemandTable(r reports.DemandReport) Table {
	t := Table{
		Title:   "Demand Report",
		Headers: []string{"Month", "Demand (hours)", "Demand (FTE)"},
	}
	for _, m := range r.Timeline {
		t.Rows = append(t.Rows, []string{
			m.Month.Format("2006-01"),
			fmt.Sprintf("%.0f", m.Hours),
			fmt.Sprintf("%.2f", m.Hours/reports.HoursPerFTE),
		})
	}
	return t
}

func GapsTable(r reports.GapsReport) Table {
	t := Table{
		Title:   "Capacity Gaps Report",
		Headers: []string{"Role", "Demand (FTE)", "Capacity (FTE)", "Gap (FTE)", "Gap (hours)", "Status"},
	}
	for _, g := range r.Roles {
		t.Rows = append(t.Rows, []string{
			g.Role,
			fmt.Sprintf("%.2f", g.DemandFTE),
			fmt.Sprintf("%.2f", g.CapacityFTE),
			fmt.Sprintf("%.2f", g.GapFTE),
			fmt.Sprintf("%.0f", g.GapHours),
			string(g.Status),
		})
	}
	return t
}
