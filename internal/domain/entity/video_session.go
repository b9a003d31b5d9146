package entity

import (
	"time"

	"github.com/google/uuid"
)

// VideoSessionState is the lifecycle of a call attached to an appointment
type VideoSessionState string

const (
	VideoSessionStateNotStarted VideoSessionState = "not-started"
	VideoSessionStateActive     VideoSessionState = "active"
	VideoSessionStateEnded      VideoSessionState = "ended"
)

// VideoSession is the ephemeral call record for a video appointment. It is not
// a database row: the redis session store holds it with a max-duration TTL, so
// an abandoned call expires on its own. At most one active session exists per
// appointment.
type VideoSession struct {
	ID                uuid.UUID         `json:"id"`
	AppointmentID     uuid.UUID         `json:"appointment_id"`
	State             VideoSessionState `json:"state"`
	HostParticipantID uuid.UUID         `json:"host_participant_id"`
	StartedAt         time.Time         `json:"started_at"`
	EndedAt           *time.Time        `json:"ended_at,omitempty"`
}

// IsActive checks if the session is live
func (s *VideoSession) IsActive() bool {
	return s.State == VideoSessionStateActive
}
