package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Recipient roles for notification events
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Event kinds emitted by the lifecycle. Dotted action names, one per
// transition plus the call-ended fact.
const (
	EventAppointmentScheduled = "appointment.scheduled"
	EventAppointmentConfirmed = "appointment.confirmed"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"
	EventAppointmentNoShow    = "appointment.no_show"
	EventPaymentFailed        = "payment.failed"
	EventVideoCallEnded       = "video.call.ended"
)

// Event is a lifecycle notification for the external dispatcher
type Event struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Kind          string    `json:"kind"`
	RecipientRole string    `json:"recipient_role"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NotificationSink receives lifecycle events best-effort. Emit errors are
// logged by callers and never propagated back into the state machine.
type NotificationSink interface {
	Emit(ctx context.Context, event Event) error
}

// LogSink writes events to the application log. Used in development and as
// the fallback when no dispatcher channel is configured.
type LogSink struct {
	log *logrus.Logger
}

func NewLogSink(log *logrus.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(_ context.Context, event Event) error {
	s.log.WithFields(logrus.Fields{
		"appointment_id": event.AppointmentID,
		"kind":           event.Kind,
		"recipient_role": event.RecipientRole,
	}).Info("notification event")
	return nil
}

// RedisSink publishes events as JSON on a redis pub/sub channel the external
// notification dispatcher subscribes to.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}
