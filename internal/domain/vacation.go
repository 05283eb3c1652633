package domain

import "time"

type VacationStatus string

const (
	VacationApproved VacationStatus = "approved"
)

type VacationRequest struct {
	ID         int64          `json:"-"`
	EmployeeID string         `json:"employeeId"`
	Date       time.Time      `json:"date"`
	Status     VacationStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}
