package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/Pro-fish0/my-shift/backend/internal/config"
	"github.com/Pro-fish0/my-shift/backend/internal/domain"
	"github.com/Pro-fish0/my-shift/backend/internal/repository"
	"github.com/Pro-fish0/my-shift/backend/internal/scheduling"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	engine      *scheduling.Engine
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, engine *scheduling.Engine, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		engine:      engine,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/capacity", h.GetMonthCapacities)
			r.Post("/select", h.SubmitSchedule)
			r.Route("/employee/{employeeId}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Use(h.requireSelfOrAdmin)
				r.Get("/", h.GetEmployeeSchedule)
			})
			r.Route("/reset/{employeeId}", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Use(h.employeeInfo)
				r.Delete("/", h.ResetEmployeeSchedule)
			})
		})

		r.Route("/vacation", func(r chi.Router) {
			r.Post("/request", h.RequestVacation)
			r.Route("/reset/{employeeId}", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Use(h.employeeInfo)
				r.Delete("/", h.ResetEmployeeVacation)
			})
			r.Route("/{employeeId}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Use(h.requireSelfOrAdmin)
				r.Get("/", h.GetEmployeeVacations)
			})
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/export/schedule", h.ExportMonthSchedule)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/capacity", h.SetCapacity)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.GetAllEmployees)
				r.Post("/sync", h.SyncDirectory)
				r.Route("/{employeeId}", func(r chi.Router) {
					r.Use(h.employeeInfo)
					r.Patch("/", h.UpdateEmployeePriority)
					r.Post("/reset", h.ResetEmployeeMonth)
				})
			})
		})
	})
}
