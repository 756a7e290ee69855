package model

import "time"

// Role is the organisational role of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:password;not null"`
	Role           Role      `gorm:"type:varchar(16);not null;default:employee"`
	DepartmentID   *uint64   `gorm:"index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

type Department struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
