package route

import (
	sessionController "hadirku_backend/internals/features/attendance/sessions/controller"

	"github.com/gofiber/fiber/v2"
)

// AttendanceSessionRoutes: operasi sesi untuk guru/mentor (group sudah
// dibungkus AuthJWT di router induk).
func AttendanceSessionRoutes(r fiber.Router, ctrl *sessionController.AttendanceSessionController) {
	sessions := r.Group("/attendance-sessions")

	sessions.Post("/", ctrl.Start)
	sessions.Get("/active", ctrl.GetActive)

	sessions.Post("/:id/end", ctrl.End)
	sessions.Post("/:id/cancel", ctrl.Cancel)
	sessions.Post("/:id/records/manual", ctrl.MarkManual)
	sessions.Get("/:id/records", ctrl.Records)
	sessions.Get("/:id/stats", ctrl.Stats)
}
