package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestTransformDemandGroups(t *testing.T) {
	rows := []DemandRow{
		{ProjectName: "Atlas", ProjectType: "Client Delivery", Role: "Developer", Month: month(2026, time.January), Hours: 120},
		{ProjectName: "Atlas", ProjectType: "Client Delivery", Role: "Designer", Month: month(2026, time.January), Hours: 40},
		{ProjectName: "Borealis", ProjectType: "R&D", Role: "Developer", Month: month(2026, time.February), Hours: 80},
	}

	report := TransformDemand(rows)

	assert.InDelta(t, 240, report.TotalHours, 0.001)

	require.Len(t, report.ByProjectType, 2)
	assert.Equal(t, "Client Delivery", report.ByProjectType[0].Name)
	assert.InDelta(t, 160, report.ByProjectType[0].Hours, 0.001)
	assert.InDelta(t, 1.0, report.ByProjectType[0].FTE, 0.001)

	require.Len(t, report.ByRole, 2)
	assert.Equal(t, "Developer", report.ByRole[0].Name)
	assert.InDelta(t, 200, report.ByRole[0].Hours, 0.001)
}

func TestTransformDemandTimelineAndPeak(t *testing.T) {
	rows := []DemandRow{
		{Role: "Developer", Month: month(2026, time.March), Hours: 50},
		{Role: "Developer", Month: month(2026, time.January), Hours: 100},
		{Role: "Designer", Month: month(2026, time.February), Hours: 180},
		{Role: "Developer", Month: month(2026, time.February), Hours: 20},
	}

	report := TransformDemand(rows)

	require.Len(t, report.Timeline, 3)
	assert.Equal(t, month(2026, time.January), report.Timeline[0].Month)
	assert.Equal(t, month(2026, time.February), report.Timeline[1].Month)
	assert.Equal(t, month(2026, time.March), report.Timeline[2].Month)

	require.NotNil(t, report.PeakMonth)
	assert.Equal(t, month(2026, time.February), report.PeakMonth.Month)
	assert.InDelta(t, 200, report.PeakMonth.Hours, 0.001)
}

func TestTransformDemandEmpty(t *testing.T) {
	report := TransformDemand(nil)
	assert.Zero(t, report.TotalHours)
	assert.Nil(t, report.PeakMonth)
	assert.Empty(t, report.Timeline)
}
