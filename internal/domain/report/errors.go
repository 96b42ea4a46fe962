package report

import "github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"

var (
	ErrUnknownUser = attendance.ErrUnknownUser
)
