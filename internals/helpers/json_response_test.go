package helper

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationErrorDetails(t *testing.T) {
	type payload struct {
		StudentID string `validate:"required"`
		Status    string `validate:"required,oneof=present absent late excused"`
	}

	validate := validator.New()

	t.Run("error validator per field", func(t *testing.T) {
		err := validate.Struct(payload{Status: "hadir"})
		if err == nil {
			t.Fatalf("payload invalid harus gagal validasi")
		}
		details := ValidationErrorDetails(err)
		if len(details["StudentID"]) == 0 {
			t.Errorf("field required yang kosong harus muncul: %v", details)
		}
		if len(details["Status"]) == 0 {
			t.Errorf("pelanggaran oneof harus muncul: %v", details)
		}
	})

	t.Run("error non-validator", func(t *testing.T) {
		details := ValidationErrorDetails(errors.New("payload rusak"))
		if got := details["_"]; len(got) != 1 || got[0] != "payload rusak" {
			t.Errorf("details = %v, want pesan error di key _", details)
		}
	})

	t.Run("payload valid", func(t *testing.T) {
		err := validate.Struct(payload{StudentID: "abc", Status: "present"})
		if err != nil {
			t.Fatalf("payload valid: %v", err)
		}
		if details := ValidationErrorDetails(err); len(details) != 0 {
			t.Errorf("tanpa error harus kosong: %v", details)
		}
	})
}

func TestStatusToErrorCode(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{400, "BAD_REQUEST"},
		{401, "UNAUTHORIZED"},
		{404, "NOT_FOUND"},
		{409, "CONFLICT"},
		{422, "VALIDATION_ERROR"},
		{500, "INTERNAL_ERROR"},
		{503, "INTERNAL_ERROR"},
		{418, "ERROR"},
	}
	for _, tc := range cases {
		if got := statusToErrorCode(tc.status); got != tc.want {
			t.Errorf("statusToErrorCode(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
