package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/tabiplan/internal/metrics"
	"github.com/hitoshi/tabiplan/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger

	// メトリクス
	Metrics     metrics.MetricsCollector
	MetricsGath prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// プロジェクト
	ProjectService ProjectServiceInterface

	// 旅行
	TravelService TravelServiceInterface

	// タスク
	TaskService TaskServiceInterface

	// プロフィール
	ProfileService ProfileServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → CSRF → Session
//
// 認証ルート（/auth/*）、/health、/metricsはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.AuthConfig)
	projectHandler := NewProjectHandler(deps.ProjectService)
	travelHandler := NewTravelHandler(deps.TravelService, deps.Metrics)
	taskHandler := NewTaskHandler(deps.TaskService)
	profileHandler := NewProfileHandler(deps.ProfileService, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	if deps.MetricsGath != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGath).ServeHTTP)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// CSRFトークン取得（セッション確立前にも呼べる）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: CSRF → Session
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))

		// プロジェクト管理
		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)

				// 子コレクション型タスク
				r.Route("/tasks", func(r chi.Router) {
					r.Get("/", taskHandler.ListTasks)
					r.Post("/", taskHandler.AddTask)

					r.Route("/{taskID}", func(r chi.Router) {
						r.Patch("/", taskHandler.RenameTask)
						r.Post("/toggle", taskHandler.ToggleTask)
						r.Delete("/", taskHandler.DeleteTask)
					})
				})
			})
		})

		// 旅行管理
		r.Route("/api/travels", func(r chi.Router) {
			r.Get("/", travelHandler.ListTravels)
			r.Post("/", travelHandler.CreateTravel)
			r.Delete("/{id}", travelHandler.DeleteTravel)
		})

		// ジオコーディング
		r.Post("/api/geocode", travelHandler.Geocode)

		// プロフィール管理
		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetProfile)
			r.Patch("/", profileHandler.UpdateProfile)
			r.Put("/password", profileHandler.ChangePassword)
			r.Post("/avatar", profileHandler.UploadAvatar)
		})
	})

	return r
}
