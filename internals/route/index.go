// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	recognitionController "hadirku_backend/internals/features/attendance/recognition/controller"
	recognitionRoute "hadirku_backend/internals/features/attendance/recognition/route"
	recordService "hadirku_backend/internals/features/attendance/records/service"
	sessionController "hadirku_backend/internals/features/attendance/sessions/controller"
	sessionRoute "hadirku_backend/internals/features/attendance/sessions/route"
	sessionService "hadirku_backend/internals/features/attendance/sessions/service"
	"hadirku_backend/internals/middlewares"
	authMiddleware "hadirku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, manager *sessionService.SessionManagerService, ledger *recordService.AttendanceLedgerService) {
	BaseRoutes(app)

	// ===================== PRIVATE (USER) =====================
	// Operasi guru/mentor — butuh JWT (actor untuk mark manual & terminasi).
	log.Println("[INFO] Setting up PRIVATE group /api/u ...")
	private := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	sessionRoute.AttendanceSessionRoutes(private, sessionController.NewAttendanceSessionController(manager, ledger))

	// ===================== INGEST =====================
	// Boundary event recognition (Edge Agent) — rate limited.
	log.Println("[INFO] Setting up INGEST group /api/i ...")
	ingest := app.Group("/api/i", middlewares.IngestRateLimiter())
	recognitionRoute.RecognitionRoutes(ingest, recognitionController.NewRecognitionIngestController(manager))
}
