package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

// UpdateEmployeePriority 修改员工的优先标记。
// 优先标记只是元数据，预约引擎不会用它做任何判断
func (h *Handler) UpdateEmployeePriority(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	var req struct {
		IsPriority *bool `json:"isPriority" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee.IsPriority = *req.IsPriority

	if err := h.repository.UpdateEmployeePriority(employee); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "员工信息更新成功", employee)
}

// SyncDirectory 接收一份员工名单快照并插入缺失的员工，
// 返回本次新增的员工编号。密码在入库前被哈希
func (h *Handler) SyncDirectory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Users []domain.DirectoryRecord `json:"users" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employees := make([]*domain.Employee, 0, len(req.Users))
	for _, record := range req.Users {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(record.Password), bcrypt.DefaultCost)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		employees = append(employees, &domain.Employee{
			EmployeeID:   record.EmployeeID,
			PasswordHash: string(passwordHash),
			Name:         record.Name,
			Role:         record.Role,
			IsPriority:   record.IsPriority,
			Email:        record.Email,
		})
	}

	added, err := h.repository.SyncDirectory(employees)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "员工名单同步成功", map[string]any{
		"added": added,
	})
}

// ResetEmployeeMonth 同时清空员工当月的班次和休假记录
func (h *Handler) ResetEmployeeMonth(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	month, ok := h.monthFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.repository.ResetSchedule(employee.EmployeeID, month); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.repository.ResetVacation(employee.EmployeeID, month); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateAvailabilityCache(month)

	h.successResponse(w, r, "员工当月记录已重置", nil)
}
