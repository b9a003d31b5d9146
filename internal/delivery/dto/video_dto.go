package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type VideoSessionResponse struct {
	ID                uuid.UUID  `json:"id"`
	AppointmentID     uuid.UUID  `json:"appointment_id"`
	State             string     `json:"state"`
	HostParticipantID uuid.UUID  `json:"host_participant_id"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
}

// CanJoinResponse tells the UI whether the participant may enter the call and,
// when not, why, so it can show an accurate countdown.
type CanJoinResponse struct {
	CanJoin bool   `json:"can_join"`
	Reason  string `json:"reason,omitempty"`
}
