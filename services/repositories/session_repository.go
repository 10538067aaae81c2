package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// SessionRepository persists session documents as rows with JSON text blob
// columns. The read path tolerates both structured blobs and the
// double-encoded strings some historical rows carry, normalizing on read.
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return SessionRepository{NewBaseRepository(db)}
}

func (r *SessionRepository) Get(sessionID string) (*model.Session, error) {
	var record model.SessionRecord
	if err := r.db.First(&record, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return recordToSession(&record)
}

func (r *SessionRepository) Upsert(sess *model.Session) error {
	record, err := sessionToRecord(sess)
	if err != nil {
		return err
	}
	return r.db.Save(record).Error
}

// PatchFields updates only the named JSON field columns.
func (r *SessionRepository) PatchFields(sessionID string, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for name, value := range fields {
		column, err := patchColumn(name)
		if err != nil {
			return err
		}
		blob, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal field %s: %w", name, err)
		}
		updates[column] = json.RawMessage(blob)
	}
	updates["last_updated"] = time.Now()

	result := r.db.Model(&model.SessionRecord{}).
		Where("session_id = ?", sessionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func patchColumn(field string) (string, error) {
	switch field {
	case "viewed_emails", "viewed_bonus_emails", "failed_attempts",
		"player_names", "friend_names":
		return field, nil
	default:
		return "", fmt.Errorf("field %s is not patchable", field)
	}
}

// ==================== BLOB (DE)SERIALIZATION ====================

func sessionToRecord(sess *model.Session) (*model.SessionRecord, error) {
	record := &model.SessionRecord{
		SessionID:   sess.SessionID,
		LastUpdated: sess.LastUpdated,
	}

	fields := []struct {
		dest *json.RawMessage
		src  interface{}
	}{
		{&record.SubmittedCodes, sess.SubmittedCodes},
		{&record.ViewedEmails, sess.ViewedEmails},
		{&record.ViewedBonusEmails, sess.ViewedBonusEmails},
		{&record.TopicUnlocks, sess.TopicUnlocks},
		{&record.UnlockedFiles, sess.UnlockedFiles},
		{&record.UnlockedModules, sess.UnlockedModules},
		{&record.CollectedSymbols, sess.CollectedSymbols},
		{&record.SolvedDecryptions, sess.SolvedDecryptions},
		{&record.DecryptionAttempts, sess.DecryptionAttempts},
		{&record.FailedAttempts, sess.FailedAttempts},
		{&record.CrisisStatus, sess.CrisisStatus},
		{&record.EarnedBadges, sess.EarnedBadges},
		{&record.BonusOppdragBadges, sess.BonusOppdragBadges},
		{&record.EventyrBadges, sess.EventyrBadges},
		{&record.PlayerNames, sess.PlayerNames},
		{&record.FriendNames, sess.FriendNames},
	}
	for _, f := range fields {
		blob, err := json.Marshal(f.src)
		if err != nil {
			return nil, err
		}
		*f.dest = blob
	}

	return record, nil
}

func recordToSession(record *model.SessionRecord) (*model.Session, error) {
	sess := &model.Session{
		SessionID:   record.SessionID,
		LastUpdated: record.LastUpdated,
	}

	fields := []struct {
		raw  json.RawMessage
		dest interface{}
	}{
		{record.SubmittedCodes, &sess.SubmittedCodes},
		{record.ViewedEmails, &sess.ViewedEmails},
		{record.ViewedBonusEmails, &sess.ViewedBonusEmails},
		{record.TopicUnlocks, &sess.TopicUnlocks},
		{record.UnlockedFiles, &sess.UnlockedFiles},
		{record.UnlockedModules, &sess.UnlockedModules},
		{record.CollectedSymbols, &sess.CollectedSymbols},
		{record.SolvedDecryptions, &sess.SolvedDecryptions},
		{record.DecryptionAttempts, &sess.DecryptionAttempts},
		{record.FailedAttempts, &sess.FailedAttempts},
		{record.CrisisStatus, &sess.CrisisStatus},
		{record.EarnedBadges, &sess.EarnedBadges},
		{record.BonusOppdragBadges, &sess.BonusOppdragBadges},
		{record.EventyrBadges, &sess.EventyrBadges},
		{record.PlayerNames, &sess.PlayerNames},
		{record.FriendNames, &sess.FriendNames},
	}
	for _, f := range fields {
		if err := DecodeBlob(f.raw, f.dest); err != nil {
			return nil, err
		}
	}

	sess.Normalize()
	return sess, nil
}

// DecodeBlob unmarshals a JSON blob column, accepting both the structured
// shape and the legacy double-encoded string-of-JSON shape. Empty blobs
// leave dest at its zero value.
func DecodeBlob(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, dest); err == nil {
		return nil
	}

	var legacy string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return errors.New("blob is neither structured JSON nor a legacy serialized string")
	}
	if legacy == "" {
		return nil
	}
	return json.Unmarshal([]byte(legacy), dest)
}
