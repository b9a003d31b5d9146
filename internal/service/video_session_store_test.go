package service

import (
	"context"
	"testing"
	"time"

	"go-teleconsult-booking/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*VideoSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewVideoSessionStore(client, 2*time.Hour), mr
}

func TestVideoSessionStoreStart(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	appointmentID := uuid.New()
	hostID := uuid.New()

	session, created, err := store.Start(ctx, appointmentID, hostID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, created)
	assert.Equal(t, appointmentID, session.AppointmentID)
	assert.Equal(t, hostID, session.HostParticipantID)
	assert.Equal(t, entity.VideoSessionStateActive, session.State)
	assert.Nil(t, session.EndedAt)

	// The host is recorded as a participant.
	participants, err := store.Participants(ctx, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, []string{hostID.String()}, participants)
}

func TestVideoSessionStoreStartIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	appointmentID := uuid.New()
	hostID := uuid.New()

	first, created, err := store.Start(ctx, appointmentID, hostID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := store.Start(ctx, appointmentID, hostID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestVideoSessionStoreStartReplacesEndedSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	appointmentID := uuid.New()
	hostID := uuid.New()
	patientID := uuid.New()

	first, created, err := store.Start(ctx, appointmentID, hostID)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, store.AddParticipant(ctx, appointmentID, patientID))

	_, applied, err := store.End(ctx, appointmentID)
	require.NoError(t, err)
	require.True(t, applied)

	// The ended record does not block a reconnect: a fresh session replaces it.
	second, created, err := store.Start(ctx, appointmentID, hostID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, entity.VideoSessionStateActive, second.State)
	assert.Nil(t, second.EndedAt)

	// Participants from the ended call are gone; only the host is back in.
	participants, err := store.Participants(ctx, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, []string{hostID.String()}, participants)
}

func TestVideoSessionStoreGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	session, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestVideoSessionStoreEnd(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	appointmentID := uuid.New()

	_, _, err := store.Start(ctx, appointmentID, uuid.New())
	require.NoError(t, err)

	session, applied, err := store.End(ctx, appointmentID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entity.VideoSessionStateEnded, session.State)
	require.NotNil(t, session.EndedAt)

	// A second end loses the compare-and-swap but still reads back the session.
	session, applied, err = store.End(ctx, appointmentID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, entity.VideoSessionStateEnded, session.State)
}

func TestVideoSessionStoreEndMissing(t *testing.T) {
	store, _ := newTestStore(t)

	session, applied, err := store.End(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, session)
}

func TestVideoSessionStoreParticipants(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	appointmentID := uuid.New()
	hostID := uuid.New()
	patientID := uuid.New()

	_, _, err := store.Start(ctx, appointmentID, hostID)
	require.NoError(t, err)
	require.NoError(t, store.AddParticipant(ctx, appointmentID, patientID))

	participants, err := store.Participants(ctx, appointmentID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)

	require.NoError(t, store.RemoveParticipant(ctx, appointmentID, patientID))

	participants, err = store.Participants(ctx, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, []string{hostID.String()}, participants)
}

func TestVideoSessionStoreExpiresAfterMaxDuration(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	appointmentID := uuid.New()

	_, _, err := store.Start(ctx, appointmentID, uuid.New())
	require.NoError(t, err)

	mr.FastForward(2*time.Hour + time.Second)

	session, err := store.Get(ctx, appointmentID)
	require.NoError(t, err)
	assert.Nil(t, session)
}
