// services/redis_store.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/services/repositories"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// RedisSessionStore is the remote multi-tenant document store: one hash per
// session, one hash field per logical session field. Narrow patches only
// touch the fields they own, so concurrent child/guardian writes to disjoint
// fields never clobber each other. Full-document writes run under WATCH with
// a revision precondition and surface shared.ErrConflict when it fails.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

const (
	sessionKeyPrefix     = "nissekomm:session:"
	sessionRevisionField = "revision"
	sessionUpdatedField  = "last_updated"
)

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisSessionStore) ReadSession(ctx context.Context, sessionID string) (*model.Session, error) {
	raw, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	if len(raw) == 0 {
		return nil, shared.ErrSessionNotFound
	}
	return hashToSession(sessionID, raw)
}

func (s *RedisSessionStore) WriteSession(ctx context.Context, sess *model.Session) error {
	key := sessionKey(sess.SessionID)
	fields, err := sessionToHash(sess)
	if err != nil {
		return err
	}

	txn := func(tx *redis.Tx) error {
		stored, err := tx.HGet(ctx, key, sessionRevisionField).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		var revision int64
		if err != redis.Nil {
			revision, _ = strconv.ParseInt(stored, 10, 64)
		}
		if revision != sess.Revision {
			return shared.ErrConflict
		}

		fields[sessionRevisionField] = strconv.FormatInt(revision+1, 10)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txn, key)
	switch {
	case err == nil:
		sess.Revision++
		return nil
	case errors.Is(err, shared.ErrConflict), errors.Is(err, redis.TxFailedErr):
		return shared.ErrConflict
	default:
		return fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
}

func (s *RedisSessionStore) PatchSessionFields(ctx context.Context, sessionID string, fields map[string]interface{}) error {
	key := sessionKey(sessionID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	if exists == 0 {
		return shared.ErrSessionNotFound
	}

	values := make(map[string]interface{}, len(fields)+1)
	for name, value := range fields {
		blob, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal field %s: %w", name, err)
		}
		values[name] = string(blob)
	}
	values[sessionUpdatedField] = time.Now().UTC().Format(time.RFC3339Nano)

	if err := s.client.HSet(ctx, key, values).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	return nil
}

// ==================== HASH (DE)SERIALIZATION ====================

func sessionToHash(sess *model.Session) (map[string]interface{}, error) {
	out := map[string]interface{}{
		"session_id":        sess.SessionID,
		sessionUpdatedField: sess.LastUpdated.UTC().Format(time.RFC3339Nano),
	}

	fields := map[string]interface{}{
		"submitted_codes":      sess.SubmittedCodes,
		"viewed_emails":        sess.ViewedEmails,
		"viewed_bonus_emails":  sess.ViewedBonusEmails,
		"topic_unlocks":        sess.TopicUnlocks,
		"unlocked_files":       sess.UnlockedFiles,
		"unlocked_modules":     sess.UnlockedModules,
		"collected_symbols":    sess.CollectedSymbols,
		"solved_decryptions":   sess.SolvedDecryptions,
		"decryption_attempts":  sess.DecryptionAttempts,
		"failed_attempts":      sess.FailedAttempts,
		"crisis_status":        sess.CrisisStatus,
		"earned_badges":        sess.EarnedBadges,
		"bonus_oppdrag_badges": sess.BonusOppdragBadges,
		"eventyr_badges":       sess.EventyrBadges,
		"player_names":         sess.PlayerNames,
		"friend_names":         sess.FriendNames,
	}
	for name, value := range fields {
		blob, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %s: %w", name, err)
		}
		out[name] = string(blob)
	}

	return out, nil
}

func hashToSession(sessionID string, raw map[string]string) (*model.Session, error) {
	sess := &model.Session{SessionID: sessionID}

	fields := map[string]interface{}{
		"submitted_codes":      &sess.SubmittedCodes,
		"viewed_emails":        &sess.ViewedEmails,
		"viewed_bonus_emails":  &sess.ViewedBonusEmails,
		"topic_unlocks":        &sess.TopicUnlocks,
		"unlocked_files":       &sess.UnlockedFiles,
		"unlocked_modules":     &sess.UnlockedModules,
		"collected_symbols":    &sess.CollectedSymbols,
		"solved_decryptions":   &sess.SolvedDecryptions,
		"decryption_attempts":  &sess.DecryptionAttempts,
		"failed_attempts":      &sess.FailedAttempts,
		"crisis_status":        &sess.CrisisStatus,
		"earned_badges":        &sess.EarnedBadges,
		"bonus_oppdrag_badges": &sess.BonusOppdragBadges,
		"eventyr_badges":       &sess.EventyrBadges,
		"player_names":         &sess.PlayerNames,
		"friend_names":         &sess.FriendNames,
	}
	for name, dest := range fields {
		value, ok := raw[name]
		if !ok || value == "" {
			continue
		}
		if err := repositories.DecodeBlob(json.RawMessage(value), dest); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
	}

	if value, ok := raw[sessionUpdatedField]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
			sess.LastUpdated = ts
		}
	}
	if value, ok := raw[sessionRevisionField]; ok {
		sess.Revision, _ = strconv.ParseInt(value, 10, 64)
	}

	sess.Normalize()
	return sess, nil
}
