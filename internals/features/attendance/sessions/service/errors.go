package service

import "errors"

var (
	// ErrSessionAlreadyActive: startSession saat kelas masih punya sesi Active.
	// Caller-recoverable (409).
	ErrSessionAlreadyActive = errors.New("kelas masih memiliki sesi kehadiran aktif")

	// ErrSessionNotFound: operasi merujuk id sesi yang tidak ada.
	ErrSessionNotFound = errors.New("sesi kehadiran tidak ditemukan")

	// ErrSessionNotOverdue: guard AutoTimeout — sesi belum melewati
	// durasi maksimumnya.
	ErrSessionNotOverdue = errors.New("sesi belum melewati durasi maksimum")
)
