package service

import (
	"context"
	"sync"
	"time"

	"go-teleconsult-booking/internal/gateway"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// How long a single notification emit may take before it is abandoned
const notifyTimeout = 5 * time.Second

// NotifierService is the lifecycle notification trigger. Emits are best-effort
// and detached from the request context: dispatch happens on a goroutine, so a
// slow or dead sink never blocks or fails a state transition.
type NotifierService struct {
	sink gateway.NotificationSink
	log  *logrus.Logger
	wg   sync.WaitGroup
}

func NewNotifierService(sink gateway.NotificationSink, log *logrus.Logger) *NotifierService {
	return &NotifierService{
		sink: sink,
		log:  log,
	}
}

// Notify emits one event per recipient role for the appointment. It returns
// immediately; the emits run in the background and failures are only logged.
func (n *NotifierService) Notify(appointmentID uuid.UUID, kind string, roles ...string) {
	occurredAt := time.Now().UTC()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		for _, role := range roles {
			event := gateway.Event{
				AppointmentID: appointmentID,
				Kind:          kind,
				RecipientRole: role,
				OccurredAt:    occurredAt,
			}
			if err := n.sink.Emit(ctx, event); err != nil {
				n.log.Warnf("Failed to emit %s notification for appointment %s (non-fatal): %+v", kind, appointmentID, err)
			}
		}
	}()
}

// Drain blocks until every dispatched emit has finished. Called on shutdown
// so in-flight notifications are not dropped.
func (n *NotifierService) Drain() {
	n.wg.Wait()
}

// NotifyBoth emits the event for both parties of the appointment
func (n *NotifierService) NotifyBoth(appointmentID uuid.UUID, kind string) {
	n.Notify(appointmentID, kind, gateway.RolePatient, gateway.RoleDoctor)
}
