package api

import (
	"net/http"

	"github.com/JaimeStill/campus/pkg/middleware"
	"github.com/JaimeStill/campus/pkg/routes"
)

// jsonBodyLimit caps bodies on endpoints that never accept files.
const jsonBodyLimit = 1 << 20

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	uploadLimit := middleware.BodyLimit(runtime.MaxUploadSize)

	announcementRoutes := domain.Announcements.Handler().Routes()
	announcementRoutes.Middleware = append(announcementRoutes.Middleware, uploadLimit)

	quizRoutes := domain.Quizzes.Handler().Routes()
	quizRoutes.Middleware = append(quizRoutes.Middleware, middleware.BodyLimit(jsonBodyLimit))

	uploadRoutes := NewUploadHandler(runtime.Storage, runtime.Logger).Routes()
	uploadRoutes.Middleware = append(uploadRoutes.Middleware, uploadLimit)

	routes.Register(mux, announcementRoutes, quizRoutes, uploadRoutes)
}
