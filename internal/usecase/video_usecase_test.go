package usecase

import (
	"context"
	"testing"
	"time"

	"go-teleconsult-booking/config"
	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoTestConfig() config.VideoConfig {
	return config.VideoConfig{
		JoinBefore:  10 * time.Minute,
		JoinAfter:   30 * time.Minute,
		MaxDuration: 2 * time.Hour,
	}
}

type videoFixture struct {
	usecase         *videoUsecase
	appointmentRepo *fakeAppointmentRepo
	sink            *captureSink
	appointmentID   uuid.UUID
	doctorID        uuid.UUID
	patientID       uuid.UUID
	appointmentAt   time.Time
}

func newVideoFixture(t *testing.T) *videoFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &videoFixture{
		appointmentRepo: newFakeAppointmentRepo(),
		doctorID:        uuid.New(),
		patientID:       uuid.New(),
		appointmentAt:   time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
	}

	appointment := f.appointmentRepo.add(&entity.Appointment{
		PatientID:        f.patientID,
		DoctorID:         f.doctorID,
		AppointmentDate:  f.appointmentAt,
		DurationMinutes:  30,
		ConsultationType: entity.ConsultationTypeVideo,
		Status:           entity.AppointmentStatusConfirmed,
	})
	f.appointmentID = appointment.ID

	notifier, sink := newTestNotifier()
	f.sink = sink

	sessions := service.NewVideoSessionStore(client, videoTestConfig().MaxDuration)
	f.usecase = NewVideoUsecase(newTestDB(), newTestLogger(), f.appointmentRepo, sessions, notifier, videoTestConfig()).(*videoUsecase)
	f.setNow(f.appointmentAt)
	return f
}

func (f *videoFixture) setNow(at time.Time) {
	f.usecase.now = func() time.Time { return at }
}

func TestCanJoinWindow(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		at      time.Time
		canJoin bool
		reason  string
	}{
		{"nine minutes early", f.appointmentAt.Add(-9 * time.Minute), true, ""},
		{"window opens exactly", f.appointmentAt.Add(-10 * time.Minute), true, ""},
		{"eleven minutes early", f.appointmentAt.Add(-11 * time.Minute), false, AdmissionReasonTooEarly},
		{"at the appointment time", f.appointmentAt, true, ""},
		{"window closes exactly", f.appointmentAt.Add(30 * time.Minute), true, ""},
		{"thirty-one minutes late", f.appointmentAt.Add(31 * time.Minute), false, AdmissionReasonTooLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.setNow(tc.at)
			resp, err := f.usecase.CanJoin(ctx, f.appointmentID, f.patientID)
			require.NoError(t, err)
			assert.Equal(t, tc.canJoin, resp.CanJoin)
			assert.Equal(t, tc.reason, resp.Reason)
		})
	}
}

func TestCanJoinRequiresConfirmedVideoAppointment(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	phone := f.appointmentRepo.add(&entity.Appointment{
		PatientID:        f.patientID,
		DoctorID:         f.doctorID,
		AppointmentDate:  f.appointmentAt,
		ConsultationType: entity.ConsultationTypePhone,
		Status:           entity.AppointmentStatusConfirmed,
	})
	resp, err := f.usecase.CanJoin(ctx, phone.ID, f.patientID)
	require.NoError(t, err)
	assert.False(t, resp.CanJoin)
	assert.Equal(t, AdmissionReasonNotVideo, resp.Reason)

	unpaid := f.appointmentRepo.add(&entity.Appointment{
		PatientID:        f.patientID,
		DoctorID:         f.doctorID,
		AppointmentDate:  f.appointmentAt,
		ConsultationType: entity.ConsultationTypeVideo,
		Status:           entity.AppointmentStatusScheduled,
	})
	resp, err = f.usecase.CanJoin(ctx, unpaid.ID, f.patientID)
	require.NoError(t, err)
	assert.False(t, resp.CanJoin)
	assert.Equal(t, AdmissionReasonNotConfirmed, resp.Reason)
}

func TestCanJoinStrangerRefused(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.usecase.CanJoin(context.Background(), f.appointmentID, uuid.New())
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestStartCall(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	resp, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.VideoSessionStateActive), resp.State)
	assert.Equal(t, f.doctorID, resp.HostParticipantID)

	// Starting again returns the same session.
	again, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)
}

func TestStartCallAfterEndOpensFreshSession(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	first, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	_, err = f.usecase.EndCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)

	// A reconnect inside the window gets a live session, not the ended one.
	second, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.VideoSessionStateActive), second.State)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, second.EndedAt)

	// The patient can join the reopened call.
	joined, err := f.usecase.JoinCall(ctx, f.appointmentID, f.patientID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, joined.ID)
}

func TestStartCallOnlyHost(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.usecase.StartCall(context.Background(), f.appointmentID, f.patientID)
	assert.ErrorIs(t, err, ErrNotCallHost)
}

func TestStartCallOutsideWindow(t *testing.T) {
	f := newVideoFixture(t)
	f.setNow(f.appointmentAt.Add(-time.Hour))

	_, err := f.usecase.StartCall(context.Background(), f.appointmentID, f.doctorID)

	var admissionErr *AdmissionError
	require.ErrorAs(t, err, &admissionErr)
	assert.Equal(t, AdmissionReasonTooEarly, admissionErr.Reason)
}

func TestJoinCall(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	started, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)

	joined, err := f.usecase.JoinCall(ctx, f.appointmentID, f.patientID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, joined.ID)
}

func TestJoinCallWithoutSession(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.usecase.JoinCall(context.Background(), f.appointmentID, f.patientID)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestLeaveCallKeepsSessionActive(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	_, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	_, err = f.usecase.JoinCall(ctx, f.appointmentID, f.patientID)
	require.NoError(t, err)

	require.NoError(t, f.usecase.LeaveCall(ctx, f.appointmentID, f.patientID))

	resp, err := f.usecase.JoinCall(ctx, f.appointmentID, f.patientID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.VideoSessionStateActive), resp.State)
}

func TestEndCall(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	_, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)

	resp, err := f.usecase.EndCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.VideoSessionStateEnded), resp.State)
	assert.NotNil(t, resp.EndedAt)
	assert.Contains(t, f.sink.kinds(), gateway.EventVideoCallEnded)

	// Ending an already ended call stays ended and does not re-notify.
	before := len(f.sink.snapshot())
	resp, err = f.usecase.EndCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.VideoSessionStateEnded), resp.State)
	assert.Len(t, f.sink.snapshot(), before)
}

func TestEndCallOnlyHost(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	_, err := f.usecase.StartCall(ctx, f.appointmentID, f.doctorID)
	require.NoError(t, err)

	_, err = f.usecase.EndCall(ctx, f.appointmentID, f.patientID)
	assert.ErrorIs(t, err, ErrNotCallHost)
}

func TestEndCallWithoutSession(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.usecase.EndCall(context.Background(), f.appointmentID, f.doctorID)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
