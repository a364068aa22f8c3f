package activity_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"guestdesk-system/internal/activity"
	"guestdesk-system/internal/database/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, name, department string, active bool) models.Employee {
	t.Helper()
	emp := models.Employee{
		Name:       name,
		Department: department,
		Position:   "Engineer",
		Email:      name + "@x.com",
		IsActive:   active,
	}
	require.NoError(t, db.Create(&emp).Error)
	return emp
}

func strPtr(s string) *string {
	return &s
}

func TestCheckInRequiresActiveEmployee(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	inactive := seedEmployee(t, db, "dormant", "Eng", false)

	_, err := repo.CheckIn(inactive.ID, "Ada Lovelace", nil, nil, "Meeting", nil)
	assert.ErrorIs(t, err, activity.ErrEmployeeNotFound)

	_, err = repo.CheckIn(999, "Ada Lovelace", nil, nil, "Meeting", nil)
	assert.ErrorIs(t, err, activity.ErrEmployeeNotFound)
}

func TestCheckInAndCheckOutLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	host := seedEmployee(t, db, "host", "Eng", true)

	logEntry, err := repo.CheckIn(host.ID, "Ada Lovelace", strPtr("+628111"), strPtr("ada@guest.com"), "Interview", nil)
	require.NoError(t, err)
	assert.Equal(t, activity.StatusCheckedIn, logEntry.Status())
	assert.Nil(t, logEntry.CheckOutTime)
	assert.Equal(t, host.Name, logEntry.Employee.Name)

	closed, err := repo.CheckOut(logEntry.ID, strPtr("left a badge"))
	require.NoError(t, err)
	assert.Equal(t, activity.StatusCheckedOut, closed.Status())
	require.NotNil(t, closed.CheckOutTime)
	assert.False(t, closed.CheckOutTime.Before(closed.CheckInTime))
	require.NotNil(t, closed.Notes)
	assert.Equal(t, "left a badge", *closed.Notes)

	// A visit can only be closed once.
	_, err = repo.CheckOut(logEntry.ID, nil)
	assert.ErrorIs(t, err, activity.ErrNotFound)
}

func TestCheckOutKeepsNotesWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	host := seedEmployee(t, db, "host", "Eng", true)

	logEntry, err := repo.CheckIn(host.ID, "Guest", nil, nil, "Delivery", strPtr("fragile package"))
	require.NoError(t, err)

	closed, err := repo.CheckOut(logEntry.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, closed.Notes)
	assert.Equal(t, "fragile package", *closed.Notes)
}

func TestCheckOutUnknownLog(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	_, err := repo.CheckOut(42, nil)
	assert.ErrorIs(t, err, activity.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	host := seedEmployee(t, db, "host", "Eng", true)
	other := seedEmployee(t, db, "other", "Sales", true)

	open, err := repo.CheckIn(host.ID, "Open Guest", nil, nil, "Meeting", nil)
	require.NoError(t, err)
	assert.Equal(t, activity.StatusCheckedIn, open.Status())
	closedEntry, err := repo.CheckIn(host.ID, "Closed Guest", nil, nil, "Meeting", nil)
	require.NoError(t, err)
	_, err = repo.CheckOut(closedEntry.ID, nil)
	require.NoError(t, err)
	_, err = repo.CheckIn(other.ID, "Sales Guest", nil, nil, "Demo", nil)
	require.NoError(t, err)

	logs, total, err := repo.List(activity.ListFilter{Status: activity.StatusCheckedIn}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)

	logs, total, err = repo.List(activity.ListFilter{Status: activity.StatusCheckedOut}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Closed Guest", logs[0].GuestName)

	logs, total, err = repo.List(activity.ListFilter{EmployeeID: other.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Sales Guest", logs[0].GuestName)

	today := time.Now().Format("2006-01-02")
	_, total, err = repo.List(activity.ListFilter{Date: today}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = repo.List(activity.ListFilter{Date: "1999-01-01"}, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	// Newest check-in first.
	logs, _, err = repo.List(activity.ListFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.False(t, logs[0].CheckInTime.Before(logs[2].CheckInTime))
}

func TestForEmployeeUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	_, _, err := repo.ForEmployee(999, "", 1, 10)
	assert.ErrorIs(t, err, activity.ErrEmployeeNotFound)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	eng := seedEmployee(t, db, "eng", "Eng", true)
	sales := seedEmployee(t, db, "sales", "Sales", true)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	lastMonth := now.AddDate(0, 0, -40)

	// Two completed visits of 30 and 60 minutes, one still open, one outside
	// the 7-day window.
	rows := []models.ActivityLog{
		{EmployeeID: eng.ID, GuestName: "A", Purpose: "Meeting", CheckInTime: now.Add(-2 * time.Hour), CheckOutTime: timePtr(now.Add(-90 * time.Minute))},
		{EmployeeID: eng.ID, GuestName: "B", Purpose: "Meeting", CheckInTime: yesterday, CheckOutTime: timePtr(yesterday.Add(time.Hour))},
		{EmployeeID: sales.ID, GuestName: "C", Purpose: "Demo", CheckInTime: now.Add(-time.Hour)},
		{EmployeeID: sales.ID, GuestName: "D", Purpose: "Demo", CheckInTime: lastMonth, CheckOutTime: timePtr(lastMonth.Add(time.Hour))},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	stats, err := repo.Stats(7)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Summary.TodayVisitors)
	assert.Equal(t, int64(1), stats.Summary.ActiveVisitors)
	assert.Equal(t, int64(3), stats.Summary.PeriodVisitors)
	assert.Equal(t, int64(45), stats.Summary.AverageVisitMinutes)
	assert.Equal(t, 7, stats.Period)

	require.Len(t, stats.DailyStats, 2)
	assert.Equal(t, now.Format("2006-01-02"), stats.DailyStats[0].Date)
	assert.Equal(t, int64(2), stats.DailyStats[0].Visitors)
	assert.Equal(t, int64(1), stats.DailyStats[0].CompletedVisits)
	assert.Equal(t, yesterday.Format("2006-01-02"), stats.DailyStats[1].Date)

	require.Len(t, stats.DepartmentStats, 2)
	assert.Equal(t, "Eng", stats.DepartmentStats[0].Department)
	assert.Equal(t, int64(2), stats.DepartmentStats[0].VisitorCount)
	assert.Equal(t, "Sales", stats.DepartmentStats[1].Department)
	assert.Equal(t, int64(1), stats.DepartmentStats[1].VisitorCount)
}

func TestStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := activity.NewRepository(db)

	stats, err := repo.Stats(30)
	require.NoError(t, err)

	assert.Zero(t, stats.Summary.TodayVisitors)
	assert.Zero(t, stats.Summary.ActiveVisitors)
	assert.Zero(t, stats.Summary.PeriodVisitors)
	assert.Zero(t, stats.Summary.AverageVisitMinutes)
	assert.Empty(t, stats.DailyStats)
	assert.Empty(t, stats.DepartmentStats)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
