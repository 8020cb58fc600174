package course

import (
	"github.com/go-chi/chi/v5"

	"github.com/codementor/codementor-api/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.OptionalAuthMiddleware)

	r.Get("/", h.ListCourses)
	r.Get("/{slug}", h.GetCourseDetail)
	return r
}
