package employee

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"guestdesk-system/internal/database/models"
)

var (
	ErrNotFound   = errors.New("employee not found")
	ErrEmailTaken = errors.New("email already in use")
	ErrNoFields   = errors.New("no fields to update")
)

// ListFilter narrows the directory listing. Zero values mean "no filter".
type ListFilter struct {
	Department string
	Active     *bool
	Search     string
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// Repository handles all database operations for the employee directory.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of employees plus the unpaginated total.
func (r *Repository) List(filter ListFilter, page, limit int) ([]models.Employee, int64, error) {
	query := r.db.Model(&models.Employee{})

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(department) LIKE ? OR LOWER(position) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *Repository) GetByID(id int64) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.First(&emp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// Create inserts a new directory entry, rejecting duplicate emails.
func (r *Repository) Create(emp *models.Employee) error {
	var count int64
	if err := r.db.Model(&models.Employee{}).Where("email = ?", emp.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return r.db.Create(emp).Error
}

// Update applies a partial update. Only keys present in updates change.
func (r *Repository) Update(id int64, updates map[string]interface{}) (*models.Employee, error) {
	emp, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return nil, ErrNoFields
	}

	if email, ok := updates["email"].(string); ok && email != emp.Email {
		var count int64
		err := r.db.Model(&models.Employee{}).
			Where("email = ? AND id != ?", email, id).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
	}

	if err := r.db.Model(emp).Updates(updates).Error; err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Delete removes the employee and, via the FK constraint, its activity logs.
// The previous photo path is returned so the caller can remove the file
// after the row is gone.
func (r *Repository) Delete(id int64) (oldPhoto *string, err error) {
	emp, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Cascade explicitly as well: sqlite deployments may run with the
	// foreign_keys pragma off.
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Employee{}, id).Error
	})
	if err != nil {
		return nil, err
	}

	return emp.Photo, nil
}

// SetSlackUserID caches a resolved Slack user id on the employee record.
// Resolving the same email twice overwrites harmlessly.
func (r *Repository) SetSlackUserID(id int64, slackUserID string) error {
	return r.db.Model(&models.Employee{}).
		Where("id = ?", id).
		Update("slack_user_id", slackUserID).Error
}

// ActiveByIDs resolves a bulk-notification target set. Unknown or inactive
// ids are silently dropped.
func (r *Repository) ActiveByIDs(ids []int64) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&employees).Error
	return employees, err
}

// DepartmentCounts groups active employees by department.
func (r *Repository) DepartmentCounts() ([]DepartmentCount, error) {
	var counts []DepartmentCount
	err := r.db.Model(&models.Employee{}).
		Select("department, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("department").
		Order("department").
		Scan(&counts).Error
	return counts, err
}
