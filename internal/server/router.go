package server

import (
	"net/http"

	"github.com/steiner385/capacinator/internal/config"
	"github.com/steiner385/capacinator/internal/handlers"
	"github.com/steiner385/capacinator/internal/middleware"
	"github.com/steiner385/capacinator/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handlers.Setup(cfg)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("capacinator_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/api/auth/register", handlers.Register)
	r.POST("/api/auth/login", handlers.Login)
	r.POST("/api/auth/logout", handlers.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())

	// PEOPLE
	api.GET("/people", handlers.ListPeople)
	api.GET("/people/:id", handlers.GetPerson)
	api.POST("/people",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.CreatePerson,
	)
	api.PUT("/people/:id",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.UpdatePerson,
	)
	api.DELETE("/people/:id",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeletePerson,
	)

	// PROJECTS
	api.GET("/projects", handlers.ListProjects)
	api.GET("/projects/:id", handlers.GetProject)
	api.POST("/projects",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.CreateProject,
	)
	api.PUT("/projects/:id",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.UpdateProject,
	)
	api.DELETE("/projects/:id",
		middleware.RequireRole(models.RoleAdmin),
		handlers.DeleteProject,
	)

	// REFERENCE CATALOGS
	api.GET("/roles", handlers.ListRoles)
	api.GET("/project-types", handlers.ListProjectTypes)
	api.GET("/locations", handlers.ListLocations)

	// ASSIGNMENTS
	api.GET("/assignments", handlers.ListAssignments)
	api.POST("/assignments",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.CreateAssignment,
	)
	api.DELETE("/assignments/:id",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.DeleteAssignment,
	)

	// REPORTING
	api.GET("/reporting/capacity", handlers.CapacityReport)
	api.GET("/reporting/utilization", handlers.UtilizationReport)
	api.GET("/reporting/demand", handlers.DemandReport)
	api.GET("/reporting/gaps", handlers.GapsReport)
	api.GET("/dashboard", handlers.Dashboard)

	// RECOMMENDATIONS (plan/commit is the confirmation step)
	api.GET("/recommendations/removals", handlers.RemovalRecommendations)
	api.GET("/recommendations/matches", handlers.MatchRecommendations)
	api.POST("/recommendations/plan",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.PlanRecommendation,
	)
	api.POST("/recommendations/commit",
		middleware.RequireRole(models.RoleAdmin, models.RolePlanner),
		handlers.CommitRecommendation,
	)

	// EXPORT
	api.GET("/export/report/:type", handlers.ExportReport)

	// AUDIT
	api.GET("/audit",
		middleware.RequireRole(models.RoleAdmin, models.RoleViewer),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
