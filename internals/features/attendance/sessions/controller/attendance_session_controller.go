package controller

import (
	"errors"
	"strings"

	helper "hadirku_backend/internals/helpers"

	recordDTO "hadirku_backend/internals/features/attendance/records/dto"
	recordModel "hadirku_backend/internals/features/attendance/records/model"
	recordService "hadirku_backend/internals/features/attendance/records/service"
	sessionDTO "hadirku_backend/internals/features/attendance/sessions/dto"
	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"
	sessionService "hadirku_backend/internals/features/attendance/sessions/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ===============================
   Controller & Constructor
=============================== */

type AttendanceSessionController struct {
	Manager  *sessionService.SessionManagerService
	Ledger   *recordService.AttendanceLedgerService
	Validate *validator.Validate
}

func NewAttendanceSessionController(manager *sessionService.SessionManagerService, ledger *recordService.AttendanceLedgerService) *AttendanceSessionController {
	return &AttendanceSessionController{
		Manager:  manager,
		Ledger:   ledger,
		Validate: validator.New(),
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" wajib diisi")
	}
	return uuid.Parse(idStr)
}

// writeEngineError: mapping taksonomi error engine → status HTTP.
// Pelanggaran invariant selalu disurface, tidak pernah di-retry diam-diam.
func writeEngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sessionService.ErrSessionAlreadyActive):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, sessionService.ErrSessionNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, recordService.ErrRecordNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, sessionModel.ErrInvalidStateTransition):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

/* ===============================
   START
=============================== */

// POST /api/u/attendance-sessions
func (ctrl *AttendanceSessionController) Start(c *fiber.Ctx) error {
	var req sessionDTO.StartAttendanceSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorDetails(err))
	}

	session, err := ctrl.Manager.StartSession(c.UserContext(), req.ToInput())
	if err != nil {
		return writeEngineError(c, err)
	}

	return helper.JsonCreated(c, "Sesi kehadiran dimulai", sessionDTO.FromAttendanceSessionModel(session))
}

/* ===============================
   END / CANCEL
=============================== */

// POST /api/u/attendance-sessions/:id/end
func (ctrl *AttendanceSessionController) End(c *fiber.Ctx) error {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	session, err := ctrl.Manager.EndSession(c.UserContext(), sessionID, actor)
	if err != nil {
		return writeEngineError(c, err)
	}

	return helper.JsonUpdated(c, "Sesi kehadiran diakhiri", sessionDTO.FromAttendanceSessionModel(session))
}

// POST /api/u/attendance-sessions/:id/cancel
func (ctrl *AttendanceSessionController) Cancel(c *fiber.Ctx) error {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	session, err := ctrl.Manager.CancelSession(c.UserContext(), sessionID, actor)
	if err != nil {
		return writeEngineError(c, err)
	}

	return helper.JsonUpdated(c, "Sesi kehadiran dibatalkan", sessionDTO.FromAttendanceSessionModel(session))
}

/* ===============================
   MARK MANUAL
=============================== */

// POST /api/u/attendance-sessions/:id/records/manual
func (ctrl *AttendanceSessionController) MarkManual(c *fiber.Ctx) error {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req recordDTO.ManualMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorDetails(err))
	}

	status, ok := recordModel.ParseAttendanceStatus(req.AttendanceRecordStatus)
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Status kehadiran tidak dikenal")
	}

	record, err := ctrl.Manager.MarkManual(c.UserContext(), sessionID, req.AttendanceRecordStudentID, status, actor, req.AttendanceRecordReason)
	if err != nil {
		return writeEngineError(c, err)
	}

	return helper.JsonUpdated(c, "Kehadiran dicatat manual", recordDTO.FromAttendanceRecordModel(record))
}

/* ===============================
   QUERY
=============================== */

// GET /api/u/attendance-sessions/active?class_id=...
// Kelas tanpa sesi aktif bukan error — data null.
func (ctrl *AttendanceSessionController) GetActive(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Query("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
	}

	session, err := ctrl.Manager.GetActiveSession(c.UserContext(), classID)
	if err != nil {
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			return helper.JsonOK(c, "Tidak ada sesi aktif", nil)
		}
		return writeEngineError(c, err)
	}

	return helper.JsonOK(c, "ok", sessionDTO.FromAttendanceSessionModel(session))
}

// GET /api/u/attendance-sessions/:id/records
func (ctrl *AttendanceSessionController) Records(c *fiber.Ctx) error {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	if _, err := ctrl.Manager.GetSession(c.UserContext(), sessionID); err != nil {
		return writeEngineError(c, err)
	}

	records, err := ctrl.Ledger.GetRecords(c.UserContext(), sessionID)
	if err != nil {
		return writeEngineError(c, err)
	}

	items := recordDTO.FromAttendanceRecordModels(records)
	return helper.JsonList(c, "ok", items, len(items))
}

// GET /api/u/attendance-sessions/:id/stats
func (ctrl *AttendanceSessionController) Stats(c *fiber.Ctx) error {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	if _, err := ctrl.Manager.GetSession(c.UserContext(), sessionID); err != nil {
		return writeEngineError(c, err)
	}

	stats, err := ctrl.Ledger.GetStats(c.UserContext(), sessionID)
	if err != nil {
		return writeEngineError(c, err)
	}

	return helper.JsonOK(c, "ok", stats)
}
