package handler

import (
	"fmt"
	"net/http"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/gin-gonic/gin"
)

// StatsHandler serves the read-only dashboards
type StatsHandler struct {
	stats    usecase.StatsUseCase
	accounts usecase.AccountUseCase
	logger   coreport.Logger
}

// NewStatsHandler creates a new stats handler instance
func NewStatsHandler(stats usecase.StatsUseCase, accounts usecase.AccountUseCase, logger coreport.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, accounts: accounts, logger: logger}
}

// Dashboard handles the GET /api/stats/dashboard endpoint
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.GetDashboardStats(c.Request.Context(), actor(c).ID, c.Query("classId"))
	if err != nil {
		respondError(c, h.logger, "Failed to load dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Student handles the GET /api/stats/student endpoint.
// Students get their own figures; teachers name a student of a class they own.
func (h *StatsHandler) Student(c *gin.Context) {
	ctx := c.Request.Context()
	caller := actor(c)
	studentID, classID := caller.ID, c.Query("classId")

	if caller.IsTeacher() {
		studentID = c.Query("studentId")
		if studentID == "" || classID == "" {
			respondError(c, h.logger, "Invalid student stats query",
				fmt.Errorf("%w: studentId and classId are required", errs.ErrValidation))
			return
		}
		if _, err := h.accounts.ClassScope(ctx, caller, classID); err != nil {
			respondError(c, h.logger, "Failed to load student stats", err)
			return
		}
	}

	stats, err := h.stats.GetStudentStats(ctx, studentID, classID)
	if err != nil {
		respondError(c, h.logger, "Failed to load student stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Class handles the GET /api/stats/classes/:id endpoint
func (h *StatsHandler) Class(c *gin.Context) {
	stats, err := h.stats.GetClassStats(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to load class stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Overview handles the GET /api/stats/overview endpoint
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.stats.GetTeacherOverview(c.Request.Context(), actor(c).ID)
	if err != nil {
		respondError(c, h.logger, "Failed to load teacher overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
