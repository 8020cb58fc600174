package progress

import (
	"github.com/go-chi/chi/v5"

	"github.com/codementor/codementor-api/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware)

	r.Get("/", h.ListCourseProgress)
	r.Route("/{slug}", func(r chi.Router) {
		r.Post("/enroll", h.Enroll)
		r.Get("/progress", h.GetCourseProgress)
		r.Route("/lessons/{lessonID}", func(r chi.Router) {
			r.Get("/", h.GetLessonDetail)
			r.Post("/materials/{materialID}/complete", h.CompleteMaterial)
			r.Post("/surveys/{surveyID}/answers", h.SubmitSurveyAnswers)
		})
	})
	return r
}
