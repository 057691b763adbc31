package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/models"
	"github.com/steiner385/capacinator/internal/reportcache"
	"github.com/steiner385/capacinator/internal/reports"

	"github.com/gin-gonic/gin"
)

// reportQuery is the normalized filter set shared by all report types.
type reportQuery struct {
	Start         time.Time
	End           time.Time
	ProjectTypeID uint
	LocationID    uint
}

func (q reportQuery) cacheParams() map[string]string {
	params := map[string]string{
		"start": q.Start.Format("2006-01-02"),
		"end":   q.End.Format("2006-01-02"),
	}
	if q.ProjectTypeID > 0 {
		params["project_type_id"] = strconv.FormatUint(uint64(q.ProjectTypeID), 10)
	}
	if q.LocationID > 0 {
		params["location_id"] = strconv.FormatUint(uint64(q.LocationID), 10)
	}
	return params
}

// parseReportQuery reads startDate/endDate/projectTypeId/locationId.
// Missing dates default to the current month.
func parseReportQuery(c *gin.Context) (reportQuery, string) {
	now := time.Now().UTC()
	q := reportQuery{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
	q.End = q.Start.AddDate(0, 1, -1)

	if s := c.Query("startDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return q, "invalid startDate"
		}
		q.Start = t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return q, "invalid endDate"
		}
		q.End = t
	}
	if q.End.Before(q.Start) {
		return q, "endDate before startDate"
	}

	if s := c.Query("projectTypeId"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return q, "invalid projectTypeId"
		}
		q.ProjectTypeID = uint(id)
	}
	if s := c.Query("locationId"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return q, "invalid locationId"
		}
		q.LocationID = uint(id)
	}
	return q, ""
}

// reportData is everything a snapshot computation needs, fetched once.
type reportData struct {
	People      []models.Person
	Assignments []models.Assignment
}

func fetchReportData(q reportQuery) (reportData, error) {
	var data reportData

	peopleQ := database.DB.Preload("Role").Preload("Location").Order("name asc")
	if q.LocationID > 0 {
		peopleQ = peopleQ.Where("location_id = ?", q.LocationID)
	}
	if err := peopleQ.Find(&data.People).Error; err != nil {
		return data, err
	}

	if err := database.DB.
		Preload("Project").
		Preload("Project.ProjectType").
		Preload("Role").
		Where("start_date <= ? AND end_date >= ?", q.End, q.Start).
		Find(&data.Assignments).Error; err != nil {
		return data, err
	}

	if q.ProjectTypeID > 0 || q.LocationID > 0 {
		filtered := data.Assignments[:0]
		for _, a := range data.Assignments {
			if q.ProjectTypeID > 0 && a.Project.ProjectTypeID != q.ProjectTypeID {
				continue
			}
			if q.LocationID > 0 && a.Project.LocationID != q.LocationID {
				continue
			}
			filtered = append(filtered, a)
		}
		data.Assignments = filtered
	}
	return data, nil
}

// serveReport runs the snapshot computation through the report cache.
func serveReport(c *gin.Context, reportType string, compute func(reportData, reportQuery) any) {
	q, msg := parseReportQuery(c)
	if msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	key := reportcache.Key(reportType, q.cacheParams())
	snapshot, err := reportCache.Get(key, func() (any, error) {
		data, err := fetchReportData(q)
		if err != nil {
			return nil, err
		}
		return compute(data, q), nil
	})
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to build report")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func CapacityReport(c *gin.Context) {
	serveReport(c, "capacity", func(data reportData, q reportQuery) any {
		rows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
		return reports.TransformCapacity(rows)
	})
}

func UtilizationReport(c *gin.Context) {
	serveReport(c, "utilization", func(data reportData, q reportQuery) any {
		rows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
		return reports.TransformUtilization(rows)
	})
}

func DemandReport(c *gin.Context) {
	serveReport(c, "demand", func(data reportData, q reportQuery) any {
		rows := reports.BuildDemandRows(data.Assignments, q.Start, q.End)
		return reports.TransformDemand(rows)
	})
}

func GapsReport(c *gin.Context) {
	serveReport(c, "gaps", func(data reportData, q reportQuery) any {
		personRows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
		demandRows := reports.BuildDemandRows(data.Assignments, q.Start, q.End)
		gapRows := reports.BuildGapRows(personRows, demandRows, q.Start, q.End)
		return reports.TransformGaps(gapRows)
	})
}
