package handler

import (
	"net/http"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// RequestVacation 为员工登记一组休假日期，按日期幂等。
// 休假没有容量限制，也不占用任何槽位
func (h *Handler) RequestVacation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string   `json:"employeeId" validate:"required"`
		Dates      []string `json:"dates" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	sub := r.Context().Value(SubCtxKey).(string)
	if role != domain.RoleAdmin && req.EmployeeID != sub {
		h.errorResponse(w, r, "权限不足")
		return
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, d := range req.Dates {
		date, err := time.Parse(domain.DateLayout, d)
		if err != nil {
			h.errorResponse(w, r, "日期 "+d+" 格式错误")
			return
		}
		dates = append(dates, date)
	}

	if err := h.repository.RequestVacation(req.EmployeeID, dates); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "休假登记成功", nil)
}

func (h *Handler) GetEmployeeVacations(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	month, ok := h.monthFromQuery(w, r)
	if !ok {
		return
	}

	vacations, err := h.repository.GetEmployeeVacations(employee.EmployeeID, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	dates := make([]string, 0, len(vacations))
	for _, v := range vacations {
		dates = append(dates, v.Date.Format(domain.DateLayout))
	}

	h.successResponse(w, r, "获取休假日期成功", dates)
}

func (h *Handler) ResetEmployeeVacation(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	month, ok := h.monthFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.repository.ResetVacation(employee.EmployeeID, month); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "休假重置成功", nil)
}
