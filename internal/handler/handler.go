package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/nova-maldives/the-hub/backend/internal/assistant"
	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/config"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/nova-maldives/the-hub/backend/internal/guestrequest"
	"github.com/nova-maldives/the-hub/backend/internal/repository"
	"github.com/nova-maldives/the-hub/backend/internal/session"
	"github.com/redis/go-redis/v9"
)

// MailPublisher 把邮件投递到队列，由 mail worker 发送
type MailPublisher interface {
	Publish(msg domain.MailMessage) error
}

type WeatherProvider interface {
	Current(ctx context.Context) string
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailer      MailPublisher
	redisClient *redis.Client
	sessions    *session.Store
	shifts      *checklist.Manager
	requests    *guestrequest.Service
	assistant   *assistant.Assistant
	weather     WeatherProvider
	now         func() time.Time

	Mux *chi.Mux
}

// NewHandler 中 now 返回度假村时区的当前时间，营业日和默认班次都依赖它
func NewHandler(cfg *config.Config, repo *repository.Repository, mailer MailPublisher, rdb *redis.Client, asst *assistant.Assistant, weather WeatherProvider, now func() time.Time) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if now == nil {
		now = time.Now
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailer:      mailer,
		redisClient: rdb,
		sessions: session.NewStore(rdb,
			time.Duration(cfg.Session.Expiration)*time.Second,
			time.Duration(cfg.Redis.OperationExpiration)*time.Second,
		),
		shifts:    checklist.NewManager(repo, now),
		requests:  guestrequest.NewService(repo, now),
		assistant: asst,
		weather:   weather,
		now:       now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	managers := h.RequiredRole(domain.ManagerRoles)
	fom := h.RequiredRole([]domain.Role{domain.RoleFrontOfficeManager})

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 登录页面需要显示应用名称和 logo
	h.Mux.Get("/settings", h.GetSettings)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.With(fom).Put("/settings", h.UpdateSettings)

		r.Route("/users", func(r chi.Router) {
			r.With(fom).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(fom).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(fom).Delete("/", h.DeleteUser)
				r.With(fom).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Get("/shift-types", h.GetShiftTypes)

		r.Route("/task-templates", func(r chi.Router) {
			r.Get("/", h.GetAllTaskTemplates)
			r.With(managers).Post("/", h.CreateTaskTemplate)
			r.With(managers).Delete("/{id}", h.DeleteTaskTemplate)
		})

		r.Route("/task-categories", func(r chi.Router) {
			r.Get("/", h.GetTaskCategories)
			r.With(managers).Post("/", h.CreateTaskCategory)
			r.With(managers).Delete("/{name}", h.DeleteTaskCategory)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Route("/current", func(r chi.Router) {
				r.Use(h.session)
				r.Get("/", h.GetCurrentShift)
				r.Patch("/tasks/{taskID}", h.ToggleTask)
				r.Put("/notes", h.UpdateShiftNotes)
				r.Post("/draft", h.SaveShiftDraft)
				r.Post("/submit", h.SubmitShift)
				r.Get("/handover-summary", h.GetHandoverSummary)
			})
			r.With(h.session).Post("/reopen", h.ReopenShift)
			r.Get("/history", h.GetShiftHistory)
			r.Get("/history/export", h.ExportShiftHistory)
		})

		r.Route("/roster", func(r chi.Router) {
			r.Get("/", h.GetRoster)
			r.With(managers).Post("/", h.CreateShiftAssignment)
			r.With(managers).Delete("/{id}", h.DeleteShiftAssignment)
		})

		r.With(h.session).Get("/dashboard", h.GetDashboard)

		r.Route("/occupancy", func(r chi.Router) {
			r.Get("/", h.GetOccupancyWeek)
			r.Get("/forecast", h.GetOccupancyForecast)
			r.With(managers).Put("/", h.UpdateOccupancy)
			r.With(managers).Post("/import", h.ImportOccupancy)
		})

		r.Route("/guest-requests", func(r chi.Router) {
			r.Get("/", h.GetGuestRequests)
			r.Post("/", h.CreateGuestRequest)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.guestRequest)
				r.Get("/", h.GetGuestRequest)
				r.Patch("/", h.UpdateGuestRequest)
			})
		})
	})
}
