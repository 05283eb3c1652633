package handler

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
	"github.com/Pro-fish0/my-shift/backend/internal/scheduling"
)

// SubmitSchedule 提交一名员工的月度班次选择。
// 员工只能为自己提交，校验和写入全部由预约引擎在一个事务内完成
func (h *Handler) SubmitSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string            `json:"employeeId" validate:"required"`
		Shifts     []scheduling.Pick `json:"shifts" validate:"required,dive"`
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

	employee, err := h.repository.GetEmployeeByEmployeeID(req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.engine.SubmitSchedule(r.Context(), req.EmployeeID, req.Shifts); err != nil {
		var (
			vErr   *scheduling.ValidationError
			cErr   *scheduling.ConflictError
			capErr *scheduling.CapacityExceededError
			nErr   *scheduling.NotFoundError
		)
		switch {
		case errors.As(err, &vErr), errors.As(err, &cErr), errors.As(err, &capErr), errors.As(err, &nErr):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 提交成功后失效涉及月份的余量缓存
	months := make(map[domain.Month]struct{})
	for _, pick := range req.Shifts {
		if date, err := time.Parse(domain.DateLayout, pick.Date); err == nil {
			months[domain.MonthOf(date)] = struct{}{}
		}
	}
	for month := range months {
		h.invalidateAvailabilityCache(month)
	}

	// 有邮箱的员工会收到一封确认邮件，发不出去不影响提交结果
	if employee.Email != "" {
		for month := range months {
			h.publishScheduleSubmittedMail(r, employee, month, len(req.Shifts))
			break
		}
	}

	h.successResponse(w, r, "班次提交成功", nil)
}

func (h *Handler) publishScheduleSubmittedMail(r *http.Request, employee *domain.Employee, month domain.Month, shiftCount int) {
	mailMessage := domain.MailMessage{
		Type: "schedule_submitted",
		To:   employee.Email,
		Data: domain.ScheduleSubmittedMailData{
			Name:       employee.Name,
			Month:      month.String(),
			ShiftCount: shiftCount,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.logInternalServerError(r, err)
	}
}

// GetEmployeeSchedule 返回员工当月的课表视图，
// 同一天既有班次又有休假时只返回休假项
func (h *Handler) GetEmployeeSchedule(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		h.errorResponse(w, r, "缺少 date 参数")
		return
	}
	date, err := time.Parse(domain.DateLayout, dateParam)
	if err != nil {
		h.errorResponse(w, r, "date 参数格式错误")
		return
	}
	month := domain.MonthOf(date)

	selections, err := h.repository.GetEmployeeSelections(employee.EmployeeID, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	vacations, err := h.repository.GetEmployeeVacations(employee.EmployeeID, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取课表成功", scheduling.MergeSchedule(selections, vacations))
}

func (h *Handler) ResetEmployeeSchedule(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	month, ok := h.monthFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.repository.ResetSchedule(employee.EmployeeID, month); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateAvailabilityCache(month)

	h.successResponse(w, r, "班次重置成功", nil)
}

// ExportMonthSchedule 导出当月班表，格式为 CSV，
// 表头为 Employee_ID,1,...,31
func (h *Handler) ExportMonthSchedule(w http.ResponseWriter, r *http.Request) {
	month, ok := h.monthFromQuery(w, r)
	if !ok {
		return
	}

	selections, err := h.repository.GetMonthSelections(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	vacations, err := h.repository.GetMonthVacations(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	grid := scheduling.BuildMonthGrid(selections, vacations)

	header := make([]string, 0, 32)
	header = append(header, "Employee_ID")
	for day := 1; day <= 31; day++ {
		header = append(header, strconv.Itoa(day))
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=schedule_"+month.String()+".csv")

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		h.logInternalServerError(r, err)
		return
	}
	for _, row := range grid {
		record := make([]string, 0, 32)
		record = append(record, row.EmployeeID)
		record = append(record, row.Codes[:]...)
		if err := writer.Write(record); err != nil {
			h.logInternalServerError(r, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) monthFromQuery(w http.ResponseWriter, r *http.Request) (domain.Month, bool) {
	yearParam := r.URL.Query().Get("year")
	monthParam := r.URL.Query().Get("month")

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		h.errorResponse(w, r, "year 参数无效")
		return domain.Month{}, false
	}
	monthNum, err := strconv.Atoi(monthParam)
	if err != nil {
		h.errorResponse(w, r, "month 参数无效")
		return domain.Month{}, false
	}

	month, err := domain.NewMonth(year, monthNum)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return domain.Month{}, false
	}

	return month, true
}
