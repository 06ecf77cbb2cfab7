package controller

import (
	"errors"

	helper "hadirku_backend/internals/helpers"

	recognitionDTO "hadirku_backend/internals/features/attendance/recognition/dto"
	recordDTO "hadirku_backend/internals/features/attendance/records/dto"
	recordService "hadirku_backend/internals/features/attendance/records/service"
	sessionService "hadirku_backend/internals/features/attendance/sessions/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type RecognitionIngestController struct {
	Manager  *sessionService.SessionManagerService
	Validate *validator.Validate
}

func NewRecognitionIngestController(manager *sessionService.SessionManagerService) *RecognitionIngestController {
	return &RecognitionIngestController{
		Manager:  manager,
		Validate: validator.New(),
	}
}

// POST /api/i/recognitions
// Boundary ingest: menerima tuple (session, student, confidence, timestamp).
// Penolakan window / record terkunci = hasil bisnis (200 + accepted=false),
// bukan kegagalan sistem. Identitas tak terdaftar = 404 eksplisit.
func (ctrl *RecognitionIngestController) Ingest(c *fiber.Ctx) error {
	var req recognitionDTO.RecognitionEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorDetails(err))
	}

	outcome, err := ctrl.Manager.MarkAutomatic(
		c.UserContext(),
		req.RecognitionSessionID,
		req.RecognitionStudentID,
		req.RecognitionConfidence,
		req.RecognitionTimestamp,
	)
	if err != nil {
		switch {
		case errors.Is(err, sessionService.ErrSessionNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, recordService.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	resp := recognitionDTO.RecognitionIngestResponse{
		Accepted: outcome.Accepted,
		Reason:   outcome.Reason,
	}
	if outcome.Record != nil {
		mapped := recordDTO.FromAttendanceRecordModel(*outcome.Record)
		resp.Record = &mapped
	}

	if !outcome.Accepted {
		return helper.JsonOK(c, "Event ditolak", resp)
	}
	return helper.JsonOK(c, "Kehadiran tercatat", resp)
}
