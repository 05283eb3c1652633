package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

func availabilityCacheKey(month domain.Month) string {
	return fmt.Sprintf("availability_%s", month)
}

// invalidateAvailabilityCache 在任何影响余量的写入之后删除当月的缓存。
// 缓存只服务读路径，删除失败不影响写入本身，记一条日志即可
func (h *Handler) invalidateAvailabilityCache(month domain.Month) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(ctx, availabilityCacheKey(month)).Err(); err != nil {
		slog.Error("无法删除余量缓存", "month", month.String(), "error", err)
	}
}

// GetMonthCapacities 返回 date 参数所在月份的所有槽位余量，
// 键为 "{日}_{班次}"。结果带一层短 TTL 的 redis 缓存
func (h *Handler) GetMonthCapacities(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, availabilityCacheKey(month)).Result()
	if err == nil {
		availability := domain.MonthAvailability{}
		if err := json.Unmarshal([]byte(cached), &availability); err == nil {
			h.successResponse(w, r, "获取余量成功", availability)
			return
		}
		// 缓存内容坏了就当缓存不存在，照常查库
	} else if err != redis.Nil {
		slog.Error("无法读取余量缓存", "month", month.String(), "error", err)
	}

	availability, err := h.repository.GetAvailabilityForMonth(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if data, err := json.Marshal(availability); err == nil {
		expiration := time.Duration(h.config.Cache.AvailabilityExpiration) * time.Second
		if err := h.redisClient.Set(ctx, availabilityCacheKey(month), data, expiration).Err(); err != nil {
			slog.Error("无法写入余量缓存", "month", month.String(), "error", err)
		}
	}

	h.successResponse(w, r, "获取余量成功", availability)
}

func (h *Handler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string `json:"date" validate:"required"`
		ShiftType string `json:"shift_type" validate:"required,oneof=Morning Evening Night"`
		Capacity  int32  `json:"capacity" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		h.errorResponse(w, r, "date 参数格式错误")
		return
	}

	sc, err := h.repository.SetCapacity(date, domain.ShiftType(req.ShiftType), req.Capacity)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateAvailabilityCache(domain.MonthOf(date))

	h.successResponse(w, r, "容量设置成功", sc)
}
