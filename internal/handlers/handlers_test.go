package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/steiner385/capacinator/internal/config"
	"github.com/steiner385/capacinator/internal/database"
	"github.com/steiner385/capacinator/internal/handlers"
	"github.com/steiner385/capacinator/internal/models"
	"github.com/steiner385/capacinator/internal/recommend"
	"github.com/steiner385/capacinator/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer builds the full router against a file-backed SQLite
// database in a temp dir, so handlers run exactly as in production.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "handlers_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	database.DB = db
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		SessionSecret:  "test-secret",
		ReportCacheTTL: time.Minute,
		ConfirmTTL:     time.Minute,
	}
	router := server.NewRouter(cfg)

	// pin the match-score jitter so rankings are reproducible
	handlers.SetScorer(recommend.NewScorerWithSource(rand.New(rand.NewSource(1))))
	return router
}

func seedUser(t *testing.T, username string, role models.UserRole) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: string(hash), Role: role}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// login returns the session cookie for the user.
func login(t *testing.T, router *gin.Engine, username string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "Password1!"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	res := w.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.NotEmpty(t, cookies, "login set no session cookie")
	return cookies[0]
}

func doJSON(router *gin.Engine, method, path string, cookie *http.Cookie, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type fixtures struct {
	Role     models.Role
	Location models.Location
	Type     models.ProjectType
	Person   models.Person
	Project  models.Project
}

// seedPlanningData creates one person and one active project sharing a
// role and location.
func seedPlanningData(t *testing.T) fixtures {
	t.Helper()

	f := fixtures{
		Role:     models.Role{Name: "Developer"},
		Location: models.Location{Name: "London"},
		Type:     models.ProjectType{Name: "Client Delivery"},
	}
	require.NoError(t, database.DB.Create(&f.Role).Error)
	require.NoError(t, database.DB.Create(&f.Location).Error)
	require.NoError(t, database.DB.Create(&f.Type).Error)

	f.Person = models.Person{
		Name:                   "Ada Lovelace",
		Email:                  "ada@example.com",
		RoleID:                 f.Role.ID,
		LocationID:             f.Location.ID,
		DefaultHoursPerDay:     8,
		AvailabilityPercentage: 100,
	}
	require.NoError(t, database.DB.Create(&f.Person).Error)

	f.Project = models.Project{
		Name:            "Atlas",
		ProjectTypeID:   f.Type.ID,
		LocationID:      f.Location.ID,
		Priority:        models.PriorityHigh,
		Status:          models.StatusActive,
		IncludeInDemand: true,
	}
	require.NoError(t, database.DB.Create(&f.Project).Error)
	return f
}

// seedAssignment spans a wide window so it lands in the default report
// range regardless of today's date.
func seedAssignment(t *testing.T, f fixtures, allocation float64) models.Assignment {
	t.Helper()
	a := models.Assignment{
		PersonID:             f.Person.ID,
		ProjectID:            f.Project.ID,
		RoleID:               f.Role.ID,
		AllocationPercentage: allocation,
		StartDate:            time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
		Billable:             true,
	}
	require.NoError(t, database.DB.Create(&a).Error)
	return a
}

func TestHealthNeedsNoAuth(t *testing.T) {
	router := newTestServer(t)
	w := doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAPIRequiresAuth(t *testing.T) {
	router := newTestServer(t)
	w := doJSON(router, http.MethodGet, "/api/people", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViewerCannotMutate(t *testing.T) {
	router := newTestServer(t)
	seedUser(t, "viewer", models.RoleViewer)
	cookie := login(t, router, "viewer")

	w := doJSON(router, http.MethodPost, "/api/people", cookie, map[string]any{
		"name": "Eve", "email": "eve@example.com", "role_id": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPersonCRUD(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedUser(t, "planner", models.RolePlanner)
	cookie := login(t, router, "planner")

	w := doJSON(router, http.MethodPost, "/api/people", cookie, map[string]any{
		"name":                    "Grace Hopper",
		"email":                   "grace@example.com",
		"role_id":                 f.Role.ID,
		"location_id":             f.Location.ID,
		"availability_percentage": 80,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 80.0, created.AvailabilityPercentage)
	assert.Equal(t, 8.0, created.DefaultHoursPerDay) // defaulted

	w = doJSON(router, http.MethodGet, "/api/people", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var people []models.Person
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &people))
	assert.Len(t, people, 2)

	// bad email rejected
	w = doJSON(router, http.MethodPost, "/api/people", cookie, map[string]any{
		"name": "No Email", "email": "nope", "role_id": f.Role.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentLifecycle(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedUser(t, "planner", models.RolePlanner)
	cookie := login(t, router, "planner")

	w := doJSON(router, http.MethodPost, "/api/assignments", cookie, map[string]any{
		"project_id":            f.Project.ID,
		"person_id":             f.Person.ID,
		"role_id":               f.Role.ID,
		"start_date":            "2026-01-01",
		"end_date":              "2026-06-30",
		"allocation_percentage": 60,
		"billable":              true,
		"notes":                 "ramp up",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Assignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, f.Person.ID, created.PersonID)
	assert.Equal(t, "Atlas", created.Project.Name)

	// mutation was audited
	var audits []models.AuditLog
	require.NoError(t, database.DB.Where("entity = ?", "assignment").Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, "create", audits[0].Action)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/assignments/%d", created.ID), cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/assignments/%d", created.ID), cookie, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// invalid allocation rejected up front
	w = doJSON(router, http.MethodPost, "/api/assignments", cookie, map[string]any{
		"project_id":            f.Project.ID,
		"person_id":             f.Person.ID,
		"role_id":               f.Role.ID,
		"start_date":            "2026-01-01",
		"end_date":              "2026-06-30",
		"allocation_percentage": 150,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUtilizationReportFlagsOverAllocation(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedAssignment(t, f, 70)
	seedAssignment(t, f, 50) // 120% combined
	seedUser(t, "viewer", models.RoleViewer)
	cookie := login(t, router, "viewer")

	w := doJSON(router, http.MethodGet, "/api/reporting/utilization", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		People []struct {
			Utilization float64 `json:"utilization"`
			Status      string  `json:"status"`
			StatusLabel string  `json:"status_label"`
		} `json:"people"`
		Distribution  map[string]int `json:"distribution"`
		OverAllocated int            `json:"over_allocated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	require.Len(t, report.People, 1)
	assert.InDelta(t, 120, report.People[0].Utilization, 0.001)
	assert.Equal(t, "OVER_ALLOCATED", report.People[0].Status)
	assert.Equal(t, "Over-utilized", report.People[0].StatusLabel)
	assert.Equal(t, 1, report.Distribution[">100"])
	assert.Equal(t, 1, report.OverAllocated)
}

func TestReportCacheInvalidatedByMutation(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedUser(t, "planner", models.RolePlanner)
	cookie := login(t, router, "planner")

	w := doJSON(router, http.MethodGet, "/api/reporting/utilization", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allocated_hours":0`)

	seedAssignment(t, f, 50)
	// direct DB seeding bypasses the handlers, so the cached snapshot
	// still shows zero allocation
	w = doJSON(router, http.MethodGet, "/api/reporting/utilization", cookie, nil)
	assert.Contains(t, w.Body.String(), `"allocated_hours":0`)

	// a handler mutation invalidates the snapshot
	w = doJSON(router, http.MethodPost, "/api/assignments", cookie, map[string]any{
		"project_id":            f.Project.ID,
		"person_id":             f.Person.ID,
		"role_id":               f.Role.ID,
		"start_date":            "2020-01-01",
		"end_date":              "2030-12-31",
		"allocation_percentage": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/reporting/utilization", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allocated_hours":128`) // 80% of 160
}

func TestDashboard(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedAssignment(t, f, 80)
	seedUser(t, "viewer", models.RoleViewer)
	cookie := login(t, router, "viewer")

	w := doJSON(router, http.MethodGet, "/api/dashboard", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dash struct {
		People struct {
			TotalPeople    int `json:"total_people"`
			FullyAllocated int `json:"fully_allocated"`
		} `json:"people"`
		ResourceEfficiency int `json:"resource_efficiency"`
		ProjectHealth      int `json:"project_health"`
		AllocationAccuracy int `json:"allocation_accuracy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))

	assert.Equal(t, 1, dash.People.TotalPeople)
	assert.Equal(t, 1, dash.People.FullyAllocated) // 80% is optimal
	assert.Equal(t, 100, dash.ResourceEfficiency)
	assert.Equal(t, 100, dash.ProjectHealth) // single active project
	assert.Equal(t, 100, dash.AllocationAccuracy)
}

func TestRecommendationMatchAndCommit(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedUser(t, "planner", models.RolePlanner)
	cookie := login(t, router, "planner")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/recommendations/matches?person_id=%d", f.Person.ID), cookie, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var matches struct {
		Utilization float64 `json:"utilization"`
		Matches     []struct {
			Project        models.Project `json:"project"`
			Score          float64        `json:"score"`
			EstimatedHours float64        `json:"estimated_hours"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, "Atlas", matches.Matches[0].Project.Name)
	// idle person, high priority: 0.6 x 160 capped at 30
	assert.InDelta(t, 30, matches.Matches[0].EstimatedHours, 0.001)

	// plan the acceptance
	w = doJSON(router, http.MethodPost, "/api/recommendations/plan", cookie, map[string]any{
		"action": "add",
		"assignment": map[string]any{
			"project_id":            f.Project.ID,
			"person_id":             f.Person.ID,
			"role_id":               f.Role.ID,
			"start_date":            "2026-01-01",
			"end_date":              "2026-03-31",
			"allocation_percentage": 20,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var plan struct {
		Token   string `json:"token"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	require.NotEmpty(t, plan.Token)
	assert.Contains(t, plan.Summary, "Ada Lovelace")

	// nothing written until commit
	var count int64
	database.DB.Model(&models.Assignment{}).Count(&count)
	assert.Zero(t, count)

	w = doJSON(router, http.MethodPost, "/api/recommendations/commit", cookie, map[string]string{"token": plan.Token})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	database.DB.Model(&models.Assignment{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// tokens are single use
	w = doJSON(router, http.MethodPost, "/api/recommendations/commit", cookie, map[string]string{"token": plan.Token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommendationRemovalFlow(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	a := seedAssignment(t, f, 40)
	seedAssignment(t, f, 90)
	seedUser(t, "planner", models.RolePlanner)
	cookie := login(t, router, "planner")

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/recommendations/removals?person_id=%d", f.Person.ID), cookie, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var removals struct {
		Status     string `json:"status"`
		Candidates []struct {
			Assignment models.Assignment `json:"assignment"`
			Band       string            `json:"band"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &removals))
	assert.Equal(t, "OVER_ALLOCATED", removals.Status) // 130% combined
	require.Len(t, removals.Candidates, 2)
	// lower allocation ranks first
	assert.Equal(t, 40.0, removals.Candidates[0].Assignment.AllocationPercentage)

	w = doJSON(router, http.MethodPost, "/api/recommendations/plan", cookie, map[string]any{
		"action":        "remove",
		"assignment_id": a.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var plan struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))

	w = doJSON(router, http.MethodPost, "/api/recommendations/commit", cookie, map[string]string{"token": plan.Token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	database.DB.Model(&models.Assignment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestExportReportHeaders(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedAssignment(t, f, 50)
	seedUser(t, "viewer", models.RoleViewer)
	cookie := login(t, router, "viewer")

	w := doJSON(router, http.MethodGet, "/api/export/report/capacity?format=csv", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=capacity-report.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Developer")

	w = doJSON(router, http.MethodGet, "/api/export/report/utilization?format=excel", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=utilization-report.xlsx", w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = doJSON(router, http.MethodGet, "/api/export/report/gaps?format=pdf", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=gaps-report.pdf", w.Header().Get("Content-Disposition"))

	w = doJSON(router, http.MethodGet, "/api/export/report/capacity?format=docx", cookie, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/export/report/unknown?format=csv", cookie, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGapsReportEndpoint(t *testing.T) {
	router := newTestServer(t)
	f := seedPlanningData(t)
	seedAssignment(t, f, 70)
	seedAssignment(t, f, 60) // demand 1.3 FTE vs 1.0 capacity
	seedUser(t, "viewer", models.RoleViewer)
	cookie := login(t, router, "viewer")

	w := doJSON(router, http.MethodGet, "/api/reporting/gaps", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		Roles []struct {
			Role   string  `json:"role"`
			GapFTE float64 `json:"gap_fte"`
			Status string  `json:"status"`
		} `json:"roles"`
		GapPercentage float64 `json:"gap_percentage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	require.Len(t, report.Roles, 1)
	assert.Equal(t, "Developer", report.Roles[0].Role)
	assert.InDelta(t, -0.3, report.Roles[0].GapFTE, 0.001)
	assert.Equal(t, "GAP", report.Roles[0].Status)
	assert.InDelta(t, 30, report.GapPercentage, 0.001)
}
