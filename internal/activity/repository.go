package activity

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"guestdesk-system/internal/database/models"
)

var (
	ErrNotFound         = errors.New("active check-in record not found")
	ErrEmployeeNotFound = errors.New("employee not found or inactive")
)

const (
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

// ListFilter narrows the visit-log listing. Date matches the calendar date
// of the check-in time.
type ListFilter struct {
	EmployeeID int64
	Date       string
	Status     string
}

type DailyStat struct {
	Date            string `json:"date"`
	Visitors        int64  `json:"visitors"`
	CompletedVisits int64  `json:"completed_visits"`
}

type DepartmentStat struct {
	Department   string `json:"department"`
	VisitorCount int64  `json:"visitor_count"`
}

type StatsSummary struct {
	TodayVisitors       int64 `json:"todayVisitors"`
	ActiveVisitors      int64 `json:"activeVisitors"`
	PeriodVisitors      int64 `json:"periodVisitors"`
	AverageVisitMinutes int64 `json:"averageVisitMinutes"`
}

type Stats struct {
	Summary         StatsSummary     `json:"summary"`
	DailyStats      []DailyStat      `json:"dailyStats"`
	DepartmentStats []DepartmentStat `json:"departmentStats"`
	Period          int              `json:"period"`
}

// Repository handles all database operations for visit logs.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CheckIn records a guest arrival against an active employee.
func (r *Repository) CheckIn(employeeID int64, guestName string, guestPhone, guestEmail *string, purpose string, notes *string) (*models.ActivityLog, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).
		Where("id = ? AND is_active = ?", employeeID, true).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmployeeNotFound
	}

	logEntry := models.ActivityLog{
		EmployeeID:  employeeID,
		GuestName:   guestName,
		GuestPhone:  guestPhone,
		GuestEmail:  guestEmail,
		Purpose:     purpose,
		Notes:       notes,
		CheckInTime: time.Now(),
	}
	if err := r.db.Create(&logEntry).Error; err != nil {
		return nil, err
	}

	return r.getByID(logEntry.ID)
}

// CheckOut closes an open visit. The update is conditional on the row still
// being open, so a second check-out of the same log reports not-found.
func (r *Repository) CheckOut(logID int64, notes *string) (*models.ActivityLog, error) {
	updates := map[string]interface{}{"check_out_time": time.Now()}
	if notes != nil {
		updates["notes"] = *notes
	}

	result := r.db.Model(&models.ActivityLog{}).
		Where("id = ? AND check_out_time IS NULL", logID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.getByID(logID)
}

func (r *Repository) getByID(id int64) (*models.ActivityLog, error) {
	var logEntry models.ActivityLog
	err := r.db.Preload("Employee").First(&logEntry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &logEntry, nil
}

// List returns one page of visit logs, newest check-in first.
func (r *Repository) List(filter ListFilter, page, limit int) ([]models.ActivityLog, int64, error) {
	query := r.db.Model(&models.ActivityLog{})

	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Date != "" {
		query = query.Where("DATE(check_in_time) = ?", filter.Date)
	}
	switch filter.Status {
	case StatusCheckedIn:
		query = query.Where("check_out_time IS NULL")
	case StatusCheckedOut:
		query = query.Where("check_out_time IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	err := query.
		Preload("Employee").
		Order("check_in_time DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// ForEmployee returns one employee's visit history. Unknown employee ids are
// an error even when they would simply produce an empty page.
func (r *Repository) ForEmployee(employeeID int64, status string, page, limit int) ([]models.ActivityLog, int64, error) {
	var count int64
	if err := r.db.Model(&models.Employee{}).Where("id = ?", employeeID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return nil, 0, ErrEmployeeNotFound
	}

	return r.List(ListFilter{EmployeeID: employeeID, Status: status}, page, limit)
}

// Stats aggregates visit activity over the last periodDays days. Counts that
// need per-day or duration math are computed over the fetched rows so the
// same code serves both SQL drivers.
func (r *Repository) Stats(periodDays int) (*Stats, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -periodDays)

	var todayCount int64
	err := r.db.Model(&models.ActivityLog{}).
		Where("DATE(check_in_time) = ?", now.Format("2006-01-02")).
		Count(&todayCount).Error
	if err != nil {
		return nil, err
	}

	var activeCount int64
	err = r.db.Model(&models.ActivityLog{}).
		Where("check_out_time IS NULL").
		Count(&activeCount).Error
	if err != nil {
		return nil, err
	}

	var rows []models.ActivityLog
	err = r.db.Model(&models.ActivityLog{}).
		Select("check_in_time", "check_out_time").
		Where("check_in_time >= ?", cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	daily := make(map[string]*DailyStat)
	var totalMinutes float64
	var completed int64
	for _, row := range rows {
		day := row.CheckInTime.Format("2006-01-02")
		stat, ok := daily[day]
		if !ok {
			stat = &DailyStat{Date: day}
			daily[day] = stat
		}
		stat.Visitors++
		if row.CheckOutTime != nil {
			stat.CompletedVisits++
			completed++
			totalMinutes += row.CheckOutTime.Sub(row.CheckInTime).Minutes()
		}
	}

	dailyStats := make([]DailyStat, 0, len(daily))
	for _, stat := range daily {
		dailyStats = append(dailyStats, *stat)
	}
	sort.Slice(dailyStats, func(i, j int) bool {
		return dailyStats[i].Date > dailyStats[j].Date
	})

	var avgMinutes int64
	if completed > 0 {
		avgMinutes = int64(math.Round(totalMinutes / float64(completed)))
	}

	var departmentStats []DepartmentStat
	err = r.db.Model(&models.ActivityLog{}).
		Select("employees.department, COUNT(activity_logs.id) as visitor_count").
		Joins("JOIN employees ON employees.id = activity_logs.employee_id").
		Where("activity_logs.check_in_time >= ?", cutoff).
		Group("employees.department").
		Order("visitor_count DESC").
		Limit(10).
		Scan(&departmentStats).Error
	if err != nil {
		return nil, err
	}

	return &Stats{
		Summary: StatsSummary{
			TodayVisitors:       todayCount,
			ActiveVisitors:      activeCount,
			PeriodVisitors:      int64(len(rows)),
			AverageVisitMinutes: avgMinutes,
		},
		DailyStats:      dailyStats,
		DepartmentStats: departmentStats,
		Period:          periodDays,
	}, nil
}
