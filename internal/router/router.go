package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/codementor/codementor-api/internal/achievement"
	"github.com/codementor/codementor-api/internal/auth"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/middlewares"
	"github.com/codementor/codementor-api/internal/progress"
	"github.com/codementor/codementor-api/internal/user"
)

type RouterConfig struct {
	UserHandler        *user.Handler
	CourseHandler      *course.Handler
	ProgressHandler    *progress.Handler
	AchievementHandler *achievement.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Mount("/courses", course.Routes(cfg.CourseHandler))
	r.Mount("/achievements", achievement.Routes(cfg.AchievementHandler))
	r.Mount("/learning", progress.Routes(cfg.ProgressHandler))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
	})
	return r
}
