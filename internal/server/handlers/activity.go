package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"guestdesk-system/internal/activity"
	"guestdesk-system/internal/database/models"
)

type ActivityHandler struct {
	repo  *activity.Repository
	cache *redis.Client
}

func NewActivityHandler(repo *activity.Repository, cache *redis.Client) *ActivityHandler {
	return &ActivityHandler{repo: repo, cache: cache}
}

type CheckInRequest struct {
	EmployeeID int64   `json:"employeeId" binding:"required,min=1"`
	GuestName  string  `json:"guestName" binding:"required,min=2,max=100"`
	GuestPhone *string `json:"guestPhone" binding:"omitempty,max=50"`
	GuestEmail *string `json:"guestEmail" binding:"omitempty,email"`
	Purpose    string  `json:"purpose" binding:"required,max=200"`
	Notes      *string `json:"notes" binding:"omitempty,max=500"`
}

type CheckOutRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}

type ListActivityQuery struct {
	EmployeeID int64  `form:"employeeId"`
	Date       string `form:"date"`
	Status     string `form:"status" binding:"omitempty,oneof=checked_in checked_out"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

// LogView flattens a log row with its employee fields for the dashboard.
type LogView struct {
	ID           int64      `json:"id"`
	EmployeeID   int64      `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Department   string     `json:"department"`
	Position     string     `json:"position"`
	GuestName    string     `json:"guestName"`
	GuestPhone   *string    `json:"guestPhone"`
	GuestEmail   *string    `json:"guestEmail"`
	Purpose      string     `json:"purpose"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	Status       string     `json:"status"`
}

func newLogView(l models.ActivityLog) LogView {
	return LogView{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.Employee.Name,
		Department:   l.Employee.Department,
		Position:     l.Employee.Position,
		GuestName:    l.GuestName,
		GuestPhone:   l.GuestPhone,
		GuestEmail:   l.GuestEmail,
		Purpose:      l.Purpose,
		CheckInTime:  l.CheckInTime,
		CheckOutTime: l.CheckOutTime,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		Status:       l.Status(),
	}
}

func newLogViews(logs []models.ActivityLog) []LogView {
	views := make([]LogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, newLogView(l))
	}
	return views
}

func (h *ActivityHandler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	logEntry, err := h.repo.CheckIn(req.EmployeeID, req.GuestName, req.GuestPhone, req.GuestEmail, req.Purpose, req.Notes)
	if err != nil {
		if errors.Is(err, activity.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Employee not found or inactive"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Check-in recorded successfully", newLogView(*logEntry)))
}

func (h *ActivityHandler) CheckOut(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid log ID"))
		return
	}

	// An empty body is a valid check-out with no notes.
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	logEntry, err := h.repo.CheckOut(id, req.Notes)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Active check-in record not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Check-out recorded successfully", newLogView(*logEntry)))
}

func (h *ActivityHandler) List(c *gin.Context) {
	var query ListActivityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	logs, total, err := h.repo.List(activity.ListFilter{
		EmployeeID: query.EmployeeID,
		Date:       query.Date,
		Status:     query.Status,
	}, query.Page, query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, successResponseWithMeta(
		"Activity logs retrieved successfully",
		newLogViews(logs),
		paginationMeta(query.Page, query.Limit, total),
	))
}

func (h *ActivityHandler) Stats(c *gin.Context) {
	period, err := strconv.Atoi(c.DefaultQuery("period", "7"))
	if err != nil || period < 1 || period > 365 {
		c.JSON(http.StatusBadRequest, errorResponse("Period must be between 1 and 365 days"))
		return
	}

	cacheKey := fmt.Sprintf("%s%d", STATS_CACHE_PREFIX, period)
	var stats activity.Stats
	if cacheGet(c.Request.Context(), h.cache, cacheKey, &stats) {
		c.JSON(http.StatusOK, successResponse("Statistics retrieved successfully", stats))
		return
	}

	fresh, err := h.repo.Stats(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	cacheSet(c.Request.Context(), h.cache, cacheKey, fresh, CACHE_TTL_SHORT)
	c.JSON(http.StatusOK, successResponse("Statistics retrieved successfully", fresh))
}

func (h *ActivityHandler) ForEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid employee ID"))
		return
	}

	var query ListActivityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	logs, total, err := h.repo.ForEmployee(id, query.Status, query.Page, query.Limit)
	if err != nil {
		if errors.Is(err, activity.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Employee not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, successResponseWithMeta(
		"Employee visit history retrieved successfully",
		newLogViews(logs),
		paginationMeta(query.Page, query.Limit, total),
	))
}
