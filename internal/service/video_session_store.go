package service

import (
	"context"
	"fmt"
	"time"

	"go-teleconsult-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefixes for the video session store
	videoSessionKeyPrefix      = "video:session:"
	videoParticipantsKeySuffix = ":participants"
)

// startSessionScript creates the session hash unless an active session
// already exists for the appointment. Two near-simultaneous start calls race
// through here and exactly one wins; the loser reads the stored session back.
// An ended session left behind by an earlier call is discarded together with
// its participant set, so the host can reopen the call inside the admission
// window. The go-redis client upgrades to EVALSHA automatically after the
// first call.
var startSessionScript = redis.NewScript(`
	if redis.call('HGET', KEYS[1], 'state') == 'active' then
		return 0
	end
	redis.call('DEL', KEYS[1], KEYS[2])
	redis.call('HSET', KEYS[1], 'id', ARGV[1], 'appointment_id', ARGV[2], 'host', ARGV[3], 'state', 'active', 'started_at', ARGV[4])
	redis.call('PEXPIRE', KEYS[1], ARGV[5])
	return 1
`)

// endSessionScript flips active -> ended only while the session is active, so
// concurrent end calls converge on a single transition.
var endSessionScript = redis.NewScript(`
	if redis.call('HGET', KEYS[1], 'state') ~= 'active' then
		return 0
	end
	redis.call('HSET', KEYS[1], 'state', 'ended', 'ended_at', ARGV[1])
	return 1
`)

// VideoSessionStore keeps the ephemeral video sessions in redis. The TTL is
// the maximum call duration: an abandoned session expires on its own, no
// cleanup job needed.
type VideoSessionStore struct {
	client      *redis.Client
	maxDuration time.Duration
}

func NewVideoSessionStore(client *redis.Client, maxDuration time.Duration) *VideoSessionStore {
	return &VideoSessionStore{
		client:      client,
		maxDuration: maxDuration,
	}
}

func (s *VideoSessionStore) sessionKey(appointmentID uuid.UUID) string {
	return fmt.Sprintf("%s%s", videoSessionKeyPrefix, appointmentID)
}

// Start creates the session for the appointment, or returns the existing one
// when a session is already active. An ended session does not count: it is
// replaced by a fresh one. The second return value reports whether this call
// created the session.
func (s *VideoSessionStore) Start(ctx context.Context, appointmentID, hostID uuid.UUID) (*entity.VideoSession, bool, error) {
	key := s.sessionKey(appointmentID)
	startedAt := time.Now().UTC()

	created, err := startSessionScript.Run(ctx, s.client, []string{key, key + videoParticipantsKeySuffix},
		uuid.New().String(),
		appointmentID.String(),
		hostID.String(),
		startedAt.Format(time.RFC3339Nano),
		s.maxDuration.Milliseconds(),
	).Int()
	if err != nil {
		return nil, false, fmt.Errorf("start session for appointment %s: %w", appointmentID, err)
	}

	session, err := s.Get(ctx, appointmentID)
	if err != nil {
		return nil, false, err
	}
	if session == nil {
		// Expired between the script and the read; treat as not started.
		return nil, false, nil
	}

	if created == 1 {
		if err := s.AddParticipant(ctx, appointmentID, hostID); err != nil {
			return nil, false, err
		}
	}
	return session, created == 1, nil
}

// Get returns the session for the appointment, or nil when none exists
func (s *VideoSessionStore) Get(ctx context.Context, appointmentID uuid.UUID) (*entity.VideoSession, error) {
	fields, err := s.client.HGetAll(ctx, s.sessionKey(appointmentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session for appointment %s: %w", appointmentID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return sessionFromFields(fields)
}

// End flips the session to ended. Returns the session and whether this call
// applied the transition; (nil, false) when no session exists at all.
func (s *VideoSessionStore) End(ctx context.Context, appointmentID uuid.UUID) (*entity.VideoSession, bool, error) {
	key := s.sessionKey(appointmentID)

	applied, err := endSessionScript.Run(ctx, s.client, []string{key},
		time.Now().UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return nil, false, fmt.Errorf("end session for appointment %s: %w", appointmentID, err)
	}

	session, err := s.Get(ctx, appointmentID)
	if err != nil {
		return nil, false, err
	}
	return session, applied == 1, nil
}

// AddParticipant records a participant joining the call
func (s *VideoSessionStore) AddParticipant(ctx context.Context, appointmentID, participantID uuid.UUID) error {
	key := s.sessionKey(appointmentID) + videoParticipantsKeySuffix
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, participantID.String())
	pipe.Expire(ctx, key, s.maxDuration)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveParticipant drops a participant without ending the session. The
// session stays active until the host ends it or the TTL elapses.
func (s *VideoSessionStore) RemoveParticipant(ctx context.Context, appointmentID, participantID uuid.UUID) error {
	key := s.sessionKey(appointmentID) + videoParticipantsKeySuffix
	return s.client.SRem(ctx, key, participantID.String()).Err()
}

// Participants lists the ids currently in the call
func (s *VideoSessionStore) Participants(ctx context.Context, appointmentID uuid.UUID) ([]string, error) {
	key := s.sessionKey(appointmentID) + videoParticipantsKeySuffix
	return s.client.SMembers(ctx, key).Result()
}

func sessionFromFields(fields map[string]string) (*entity.VideoSession, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session id: %w", err)
	}
	appointmentID, err := uuid.Parse(fields["appointment_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session appointment id: %w", err)
	}
	hostID, err := uuid.Parse(fields["host"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session host id: %w", err)
	}
	startedAt, err := time.Parse(time.RFC3339Nano, fields["started_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt session timestamp: %w", err)
	}

	session := &entity.VideoSession{
		ID:                id,
		AppointmentID:     appointmentID,
		State:             entity.VideoSessionState(fields["state"]),
		HostParticipantID: hostID,
		StartedAt:         startedAt,
	}
	if raw, ok := fields["ended_at"]; ok && raw != "" {
		endedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt session timestamp: %w", err)
		}
		session.EndedAt = &endedAt
	}
	return session, nil
}
