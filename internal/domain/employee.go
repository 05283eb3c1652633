package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

type Employee struct {
	ID           int64     `json:"-"`
	EmployeeID   string    `json:"employeeId"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsPriority   bool      `json:"isPriority"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// DirectoryRecord 是员工名单同步时外部名单提供的记录格式，
// 密码只在同步时出现，入库前会被哈希
type DirectoryRecord struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Role       Role   `json:"role" validate:"required,oneof=employee admin"`
	IsPriority bool   `json:"isPriority"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"required"`
}
