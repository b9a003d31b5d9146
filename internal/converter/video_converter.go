package converter

import (
	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/domain/entity"
)

// VideoSessionToResponse converts a VideoSession to its response DTO
func VideoSessionToResponse(session *entity.VideoSession) *dto.VideoSessionResponse {
	if session == nil {
		return nil
	}
	return &dto.VideoSessionResponse{
		ID:                session.ID,
		AppointmentID:     session.AppointmentID,
		State:             string(session.State),
		HostParticipantID: session.HostParticipantID,
		StartedAt:         session.StartedAt,
		EndedAt:           session.EndedAt,
	}
}
