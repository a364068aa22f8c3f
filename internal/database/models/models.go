package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is an admin/employee dashboard account.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:employee" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Employee is a directory entry shown on the kiosk.
type Employee struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Department  string        `gorm:"size:50;index;not null" json:"department"`
	Position    string        `gorm:"size:50;not null" json:"position"`
	Email       string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone       *string       `gorm:"size:50" json:"phone"`
	Photo       *string       `gorm:"size:255" json:"photo"`
	SlackUserID *string       `gorm:"size:50" json:"-"`
	IsActive    bool          `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Logs        []ActivityLog `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}

// ActivityLog records one guest visit. A null CheckOutTime means the guest
// is still checked in; once set it is never cleared.
type ActivityLog struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID   int64      `gorm:"not null;index" json:"employee_id"`
	Employee     Employee   `gorm:"foreignKey:EmployeeID" json:"-"`
	GuestName    string     `gorm:"size:100;not null" json:"guest_name"`
	GuestPhone   *string    `gorm:"size:50" json:"guest_phone"`
	GuestEmail   *string    `gorm:"size:255" json:"guest_email"`
	Purpose      string     `gorm:"size:200;not null" json:"purpose"`
	CheckInTime  time.Time  `gorm:"not null;index;autoCreateTime" json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        *string    `gorm:"size:500" json:"notes"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Status reports the visit state derived from the check-out timestamp.
func (l ActivityLog) Status() string {
	if l.CheckOutTime != nil {
		return "checked_out"
	}
	return "checked_in"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Employee{},
		&ActivityLog{},
	)
}
