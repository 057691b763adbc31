package reports

import (
	"testing"
	"time"

	"github.com/steiner385/capacinator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testPerson(id uint, name, role string, availability float64) models.Person {
	return models.Person{
		Model:                  gorm.Model{ID: id},
		Name:                   name,
		Role:                   models.Role{Name: role},
		Location:               models.Location{Name: "London"},
		DefaultHoursPerDay:     8,
		AvailabilityPercentage: availability,
	}
}

func testAssignment(personID, projectID uint, allocation float64, start, end time.Time) models.Assignment {
	return models.Assignment{
		PersonID:             personID,
		ProjectID:            projectID,
		AllocationPercentage: allocation,
		StartDate:            start,
		EndDate:              end,
		Project: models.Project{
			Model:       gorm.Model{ID: projectID},
			Name:        "Project",
			Status:      models.StatusActive,
			ProjectType: models.ProjectType{Name: "Client Delivery"},
		},
		Role: models.Role{Name: "Developer"},
	}
}

func TestMonthlyCapacityHours(t *testing.T) {
	// availability% x hours/day x 20 workdays
	assert.InDelta(t, 160, testPerson(1, "Ada", "Developer", 100).MonthlyCapacityHours(), 0.001)
	assert.InDelta(t, 80, testPerson(2, "Ben", "Developer", 50).MonthlyCapacityHours(), 0.001)
}

func TestBuildPersonRows(t *testing.T) {
	start := month(2026, time.January)
	end := start.AddDate(0, 1, -1)

	people := []models.Person{
		testPerson(1, "Ada", "Developer", 100),
		testPerson(2, "Ben", "Designer", 100),
	}
	assignments := []models.Assignment{
		testAssignment(1, 10, 50, start, end),
		testAssignment(1, 11, 70, start, end),
		// out of window, must not count
		testAssignment(1, 12, 100, start.AddDate(0, 2, 0), end.AddDate(0, 2, 0)),
	}

	rows := BuildPersonRows(people, assignments, start, end)
	require.Len(t, rows, 2)

	ada := rows[0]
	assert.Equal(t, "Ada", ada.Name)
	assert.InDelta(t, 160, ada.AvailableHours, 0.001)
	assert.InDelta(t, 192, ada.AllocatedHours, 0.001) // 120% of 160
	assert.Equal(t, 2, ada.ProjectCount)
	assert.InDelta(t, 120, ada.Utilization(), 0.001)

	ben := rows[1]
	assert.Zero(t, ben.AllocatedHours)
	assert.Zero(t, ben.ProjectCount)
}

func TestBuildDemandRowsSkipsCompletedProjects(t *testing.T) {
	start := month(2026, time.January)
	end := start.AddDate(0, 1, -1)

	active := testAssignment(1, 10, 50, start, end)
	completed := testAssignment(2, 11, 50, start, end)
	completed.Project.Status = models.StatusCompleted

	rows := BuildDemandRows([]models.Assignment{active, completed}, start, end)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(10), rows[0].ProjectID)
	assert.InDelta(t, 80, rows[0].Hours, 0.001) // 50% of one FTE-month
}

func TestBuildDemandRowsSpansMonths(t *testing.T) {
	start := month(2026, time.January)
	end := month(2026, time.March).AddDate(0, 1, -1)

	a := testAssignment(1, 10, 100, month(2026, time.February), month(2026, time.March))
	rows := BuildDemandRows([]models.Assignment{a}, start, end)

	require.Len(t, rows, 2)
	assert.Equal(t, month(2026, time.February), rows[0].Month)
	assert.Equal(t, month(2026, time.March), rows[1].Month)
}

func TestBuildGapRows(t *testing.T) {
	start := month(2026, time.January)
	end := start.AddDate(0, 1, -1)

	personRows := []PersonRow{
		{Role: "Developer", AvailableHours: 160},
		{Role: "Developer", AvailableHours: 160},
	}
	demandRows := []DemandRow{
		{Role: "Developer", Month: start, Hours: 480},
		{Role: "Designer", Month: start, Hours: 160},
	}

	rows := BuildGapRows(personRows, demandRows, start, end)
	require.Len(t, rows, 2)

	byRole := map[string]GapRow{}
	for _, r := range rows {
		byRole[r.Role] = r
	}

	dev := byRole["Developer"]
	assert.InDelta(t, 2.0, dev.CapacityFTE, 0.001)
	assert.InDelta(t, 3.0, dev.DemandFTE, 0.001)

	// demand exists for a role with nobody in it
	designer := byRole["Designer"]
	assert.Zero(t, designer.CapacityFTE)
	assert.InDelta(t, 1.0, designer.DemandFTE, 0.001)
}

func TestMonthsIn(t *testing.T) {
	months := MonthsIn(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.Len(t, months, 3)
	assert.Equal(t, month(2026, time.January), months[0])
	assert.Equal(t, month(2026, time.March), months[2])

	assert.Nil(t, MonthsIn(month(2026, time.March), month(2026, time.January)))
	assert.Len(t, MonthsIn(month(2026, time.January), month(2026, time.January)), 1)
}
