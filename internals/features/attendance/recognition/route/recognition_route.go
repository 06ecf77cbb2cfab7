package route

import (
	recognitionController "hadirku_backend/internals/features/attendance/recognition/controller"

	"github.com/gofiber/fiber/v2"
)

// RecognitionRoutes: boundary ingest event recognition (group /api/i,
// dibatasi IngestRateLimiter di router induk).
func RecognitionRoutes(r fiber.Router, ctrl *recognitionController.RecognitionIngestController) {
	r.Post("/recognitions", ctrl.Ingest)
}
