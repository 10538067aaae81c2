// services/store.go
package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// SessionStore is the persistence port for progression state, keyed by
// session id. Two interchangeable implementations exist: the gorm-backed
// local store (SqliteService) and the Redis-backed remote multi-tenant
// document store (RedisSessionStore). Callers never branch on which backend
// is active after selection.
//
// Failures: shared.ErrSessionNotFound when no session exists for the id,
// shared.ErrBackendUnavailable on transient I/O failure (retry belongs to
// the caller), shared.ErrConflict when the remote store's expected-revision
// precondition fails (re-read and retry, never silently overwrite).
type SessionStore interface {
	// ReadSession loads the full session document.
	ReadSession(ctx context.Context, sessionID string) (*model.Session, error)

	// WriteSession upserts the full document as a single atomic write.
	// Reserved for session creation and read-modify-write re-derivation;
	// narrow high-frequency updates go through PatchSessionFields.
	WriteSession(ctx context.Context, sess *model.Session) error

	// PatchSessionFields updates only the named fields (JSON field names),
	// leaving concurrently-mutated unrelated fields untouched.
	PatchSessionFields(ctx context.Context, sessionID string, fields map[string]interface{}) error
}

// Patchable session field names shared by both backends.
const (
	FieldViewedEmails      = "viewed_emails"
	FieldViewedBonusEmails = "viewed_bonus_emails"
	FieldFailedAttempts    = "failed_attempts"
	FieldPlayerNames       = "player_names"
	FieldFriendNames       = "friend_names"
)

// storeEngine resolves the configured backend selector once at start.
func storeEngine() (string, error) {
	engine := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_ENGINE")))
	switch engine {
	case "", shared.StoreEngineLocal:
		return shared.StoreEngineLocal, nil
	case shared.StoreEngineRemote:
		return shared.StoreEngineRemote, nil
	default:
		return "", fmt.Errorf("unsupported store engine: %s", engine)
	}
}
