package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"guestdesk-system/internal/database/models"
	"guestdesk-system/internal/employee"
	"guestdesk-system/internal/uploads"
)

type EmployeeHandler struct {
	repo   *employee.Repository
	photos *uploads.Store
	cache  *redis.Client
}

func NewEmployeeHandler(repo *employee.Repository, photos *uploads.Store, cache *redis.Client) *EmployeeHandler {
	return &EmployeeHandler{repo: repo, photos: photos, cache: cache}
}

type CreateEmployeeRequest struct {
	Name       string `form:"name" binding:"required,min=2,max=100"`
	Department string `form:"department" binding:"required,max=50"`
	Position   string `form:"position" binding:"required,max=50"`
	Email      string `form:"email" binding:"required,email"`
	Phone      string `form:"phone" binding:"omitempty,max=50"`
	IsActive   *bool  `form:"is_active"`
}

type UpdateEmployeeRequest struct {
	Name       *string `form:"name" binding:"omitempty,min=2,max=100"`
	Department *string `form:"department" binding:"omitempty,max=50"`
	Position   *string `form:"position" binding:"omitempty,max=50"`
	Email      *string `form:"email" binding:"omitempty,email"`
	Phone      *string `form:"phone" binding:"omitempty,max=50"`
	IsActive   *bool   `form:"is_active"`
}

type ListEmployeesQuery struct {
	Department string `form:"department"`
	Active     *bool  `form:"active"`
	Search     string `form:"search"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	var query ListEmployeesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	employees, total, err := h.repo.List(employee.ListFilter{
		Department: query.Department,
		Active:     query.Active,
		Search:     query.Search,
	}, query.Page, query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, successResponseWithMeta(
		"Employees retrieved successfully",
		employees,
		paginationMeta(query.Page, query.Limit, total),
	))
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid employee ID"))
		return
	}

	emp, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Employee not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee retrieved successfully", emp))
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	photoPath, ok := h.savePhoto(c)
	if !ok {
		return
	}

	emp := models.Employee{
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
		Email:      req.Email,
		IsActive:   true,
	}
	if req.Phone != "" {
		emp.Phone = &req.Phone
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	if photoPath != "" {
		emp.Photo = &photoPath
	}

	if err := h.repo.Create(&emp); err != nil {
		// A stored photo must not outlive a failed create.
		if photoPath != "" {
			h.photos.Delete(photoPath)
		}
		if errors.Is(err, employee.ErrEmailTaken) {
			c.JSON(http.StatusConflict, errorResponse("Employee with this email already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	cacheDel(c.Request.Context(), h.cache, DEPARTMENTS_CACHE_KEY)
	c.JSON(http.StatusCreated, successResponse("Employee created successfully", emp))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid employee ID"))
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	existing, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Employee not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	photoPath, ok := h.savePhoto(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if photoPath != "" {
		updates["photo"] = photoPath
	}

	emp, err := h.repo.Update(id, updates)
	if err != nil {
		if photoPath != "" {
			h.photos.Delete(photoPath)
		}
		switch {
		case errors.Is(err, employee.ErrNotFound):
			c.JSON(http.StatusNotFound, errorResponse("Employee not found"))
		case errors.Is(err, employee.ErrEmailTaken):
			c.JSON(http.StatusConflict, errorResponse("Email is already taken by another employee"))
		case errors.Is(err, employee.ErrNoFields):
			c.JSON(http.StatusBadRequest, errorResponse("No fields to update"))
		default:
			c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		}
		return
	}

	// Replacing the photo frees the old file once the row is updated.
	if photoPath != "" && existing.Photo != nil {
		h.photos.Delete(*existing.Photo)
	}

	cacheDel(c.Request.Context(), h.cache, DEPARTMENTS_CACHE_KEY)
	c.JSON(http.StatusOK, successResponse("Employee updated successfully", emp))
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid employee ID"))
		return
	}

	oldPhoto, err := h.repo.Delete(id)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("Employee not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	if oldPhoto != nil {
		h.photos.Delete(*oldPhoto)
	}

	cacheDel(c.Request.Context(), h.cache, DEPARTMENTS_CACHE_KEY)
	c.JSON(http.StatusOK, successResponse("Employee deleted successfully", nil))
}

func (h *EmployeeHandler) Departments(c *gin.Context) {
	var counts []employee.DepartmentCount
	if cacheGet(c.Request.Context(), h.cache, DEPARTMENTS_CACHE_KEY, &counts) {
		c.JSON(http.StatusOK, successResponse("Departments retrieved successfully", counts))
		return
	}

	counts, err := h.repo.DepartmentCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	cacheSet(c.Request.Context(), h.cache, DEPARTMENTS_CACHE_KEY, counts, CACHE_TTL_MEDIUM)
	c.JSON(http.StatusOK, successResponse("Departments retrieved successfully", counts))
}

// savePhoto stores an optional multipart photo. On validation failure it
// writes the error response and reports ok=false.
func (h *EmployeeHandler) savePhoto(c *gin.Context) (path string, ok bool) {
	file, err := c.FormFile("photo")
	if err != nil {
		// No photo field is fine.
		return "", true
	}

	path, err = h.photos.Save(file)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrFileTooLarge):
			c.JSON(http.StatusBadRequest, errorResponse("File too large. Maximum size is 5MB."))
		case errors.Is(err, uploads.ErrInvalidFileType):
			c.JSON(http.StatusBadRequest, errorResponse("Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed."))
		default:
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to store photo"))
		}
		return "", false
	}
	return path, true
}
