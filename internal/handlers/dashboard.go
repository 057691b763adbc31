package handlers

import (
	"net/http"

	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/models"
	"github.com/steiner385/capacinator/internal/reports"

	"github.com/gin-gonic/gin"
)

type dashboardResponse struct {
	People   reports.PeopleSummary        `json:"people"`
	Projects reports.ProjectSummary       `json:"projects"`
	Capacity reports.CapacityStatusCounts `json:"capacity"`

	ResourceEfficiency int `json:"resource_efficiency"`
	ProjectHealth      int `json:"project_health"`
	CapacityBurnRate   int `json:"capacity_burn_rate"`
	AllocationAccuracy int `json:"allocation_accuracy"`
}

// Dashboard aggregates the current month into summary counts and the four
// KPI scores.
func Dashboard(c *gin.Context) {
	q, _ := parseReportQuery(c)

	data, err := fetchReportData(q)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load dashboard data")
		return
	}

	personRows := reports.BuildPersonRows(data.People, data.Assignments, q.Start, q.End)
	utilization := reports.TransformUtilization(personRows)

	people := reports.PeopleSummary{
		TotalPeople:    len(personRows),
		FullyAllocated: utilization.Optimal,
		OverAllocated:  utilization.OverAllocated,
	}

	var projectList []models.Project
	if err := database.DB.Find(&projectList).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load projects")
		return
	}
	projects := reports.ProjectSummary{Total: len(projectList)}
	for _, p := range projectList {
		switch p.Status {
		case models.StatusActive:
			projects.Active++
		case models.StatusPlanning:
			projects.Planning++
		case models.StatusOverdue:
			projects.Overdue++
		}
	}

	demandRows := reports.BuildDemandRows(data.Assignments, q.Start, q.End)
	gapRows := reports.BuildGapRows(personRows, demandRows, q.Start, q.End)
	gaps := reports.TransformGaps(gapRows)

	c.JSON(http.StatusOK, dashboardResponse{
		People:             people,
		Projects:           projects,
		Capacity:           gaps.StatusCounts,
		ResourceEfficiency: reports.ResourceEfficiency(people),
		ProjectHealth:      reports.ProjectHealthScore(projects),
		CapacityBurnRate:   reports.CapacityBurnRate(gaps.StatusCounts),
		AllocationAccuracy: reports.AllocationAccuracy(people),
	})
}
