package handlers

import (
	"fmt"
	"net/http"

	"github.com/steiner385/capacinator/internal/export"
	"github.com/steiner385/capacinator/internal/reports"

	"github.com/gin-gonic/gin"
)

// ExportReport renders a report as a downloadable file. Format defaults
// to csv; the filename contract is {reportType}-report.{ext}.
func ExportReport(c *gin.Context) {
	reportType := c.Param("type")
	format := export.Format(c.DefaultQuery("format", "csv"))
	switch format {
	case export.FormatExcel, export.FormatCSV, export.FormatPDF:
	default:
		jsonError(c, http.StatusBadRequest, "format must be excel, csv or pdf")
		return
	}

	q, msg := parseReportQuery(c)
	if msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	data, err := fetchReportData(q)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load report data")
		return
	}

	var table export.Table
	switch reportType {
	case "capacity":
		rows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
		table = export.CapacityTable(reports.TransformCapacity(rows))
	case "utilization":
		rows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
		table = export.UtilizationTable(reports.TransformUtilization(rows))
	case "demand":
		rows := reports.BuildDemandRows(data.Assignments, q.Start, q.End)
		table = export.DemandTable(reports.TransformDemand(rows))
	case "gaps":
		personRows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
		demandRows := reports.BuildDemandRows(data.Assignments, q.Start, q.End)
		gapRows := reports.BuildGapRows(personRows, demandRows, q.Start, q.End)
		table = export.GapsTable(reports.TransformGaps(gapRows))
	default:
		jsonError(c, http.StatusNotFound, "unknown report type")
		return
	}

	body, err := export.Render(table, format)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to render export")
		return
	}

	filename := export.Filename(reportType, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, format.ContentType(), body)
}
