package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/services/repositories"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// memoryStore is an in-memory SessionStore with failure injection.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session

	writeErr      error
	conflictsLeft int
	patched       []map[string]interface{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*model.Session)}
}

func copySession(sess *model.Session) *model.Session {
	raw, _ := json.Marshal(sess)
	var out model.Session
	_ = json.Unmarshal(raw, &out)
	out.Revision = sess.Revision
	return &out
}

func (m *memoryStore) ReadSession(ctx context.Context, sessionID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (m *memoryStore) WriteSession(ctx context.Context, sess *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.conflictsLeft > 0 {
		m.conflictsLeft--
		return shared.ErrConflict
	}
	stored := copySession(sess)
	// Real backends persist submitted facts only; derived state must be
	// rebuilt on every read.
	stored.CompletedDays = nil
	stored.RevealedSymbols = nil
	m.sessions[sess.SessionID] = stored
	return nil
}

func (m *memoryStore) PatchSessionFields(ctx context.Context, sessionID string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return shared.ErrSessionNotFound
	}
	m.patched = append(m.patched, fields)

	for name, value := range fields {
		switch name {
		case FieldViewedEmails:
			sess.ViewedEmails = value.([]int)
		case FieldViewedBonusEmails:
			sess.ViewedBonusEmails = value.([]int)
		case FieldFailedAttempts:
			sess.FailedAttempts = value.(map[int]int)
		case FieldPlayerNames:
			sess.PlayerNames = value.([]string)
		case FieldFriendNames:
			sess.FriendNames = value.([]string)
		}
	}
	return nil
}

func newTestProgression(t *testing.T, store SessionStore, calendarDay int) *ProgressionService {
	t.Helper()
	return &ProgressionService{
		store:       store,
		catalogSvc:  newTestCatalog(t),
		clockSvc:    fixedClock(2025, time.December, calendarDay),
		notifierSvc: newTestNotifier(),
		mediaSvc:    &MediaService{},
	}
}

func seedSession(store *memoryStore, sessionID string) *model.Session {
	sess := model.NewSession(sessionID)
	store.sessions[sessionID] = sess
	return sess
}

func TestSubmitCodeAccepted(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	resp, err := svc.SubmitCode(context.Background(), "s1", "snokrystall")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resp.Accepted || resp.AlreadySubmitted || resp.Day != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	stored := store.sessions["s1"]
	if len(stored.SubmittedCodes) != 1 || stored.SubmittedCodes[0].Code != "SNOKRYSTALL" {
		t.Fatalf("submitted codes = %+v, want one normalized entry", stored.SubmittedCodes)
	}

	days, err := svc.GetCompletedDays(context.Background(), "s1")
	if err != nil {
		t.Fatalf("completed days: %v", err)
	}
	if len(days) != 1 || days[0] != 1 {
		t.Fatalf("completed days = %v, want [1]", days)
	}
}

func TestSubmitCodeUnknown(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	resp, err := svc.SubmitCode(context.Background(), "s1", "FEILKODE")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Accepted {
		t.Fatal("unknown code accepted")
	}
	if len(store.sessions["s1"].SubmittedCodes) != 0 {
		t.Fatal("unknown code was persisted")
	}
}

func TestSubmitCodeIdempotent(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	if _, err := svc.SubmitCode(context.Background(), "s1", "SNOKRYSTALL"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	resp, err := svc.SubmitCode(context.Background(), "s1", "SNOKRYSTALL")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !resp.Accepted || !resp.AlreadySubmitted {
		t.Fatalf("resp = %+v, want accepted no-op", resp)
	}
	if got := len(store.sessions["s1"].SubmittedCodes); got != 1 {
		t.Fatalf("submitted codes grew to %d", got)
	}
}

func TestSubmitCodeDateGated(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 4)

	resp, err := svc.SubmitCode(context.Background(), "s1", "REINSDYR5")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Accepted {
		t.Fatal("day 5 code accepted on calendar day 4")
	}
	if len(store.sessions["s1"].SubmittedCodes) != 0 {
		t.Fatal("rejected code was persisted")
	}
}

func TestSubmitCodeRequirementGated(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	// Day 8 needs day 3 first.
	resp, err := svc.SubmitCode(context.Background(), "s1", "KISTELOKK")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Accepted {
		t.Fatal("day 8 accepted without its prerequisite")
	}

	if _, err := svc.SubmitCode(context.Background(), "s1", "STJERNEKART"); err != nil {
		t.Fatalf("prerequisite submit: %v", err)
	}
	resp, err = svc.SubmitCode(context.Background(), "s1", "KISTELOKK")
	if err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if !resp.Accepted {
		t.Fatal("day 8 still rejected after completing day 3")
	}
}

func TestSubmitCodeDiscardedOnWriteFailure(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	store.writeErr = shared.ErrBackendUnavailable
	svc := newTestProgression(t, store, 24)

	_, err := svc.SubmitCode(context.Background(), "s1", "SNOKRYSTALL")
	if !errors.Is(err, shared.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want backend unavailable", err)
	}
	if len(store.sessions["s1"].SubmittedCodes) != 0 {
		t.Fatal("failed write left partial state behind")
	}
}

func TestMutateRetriesOnConflict(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	store.conflictsLeft = 2
	svc := newTestProgression(t, store, 24)

	resp, err := svc.SubmitCode(context.Background(), "s1", "SNOKRYSTALL")
	if err != nil {
		t.Fatalf("submit after conflicts: %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("resp = %+v", resp)
	}
	if len(store.sessions["s1"].SubmittedCodes) != 1 {
		t.Fatal("mutation lost after conflict retries")
	}
}

func TestMutateGivesUpAfterRepeatedConflicts(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	store.conflictsLeft = conflictRetries + 5
	svc := newTestProgression(t, store, 24)

	_, err := svc.SubmitCode(context.Background(), "s1", "SNOKRYSTALL")
	if !errors.Is(err, shared.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestAttemptDecryptionCountsAndFreezes(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	wrong := []string{"symbol-klokke", "symbol-stjerne", "symbol-nokkel"}
	right := []string{"symbol-stjerne", "symbol-klokke", "symbol-nokkel"}

	for want := 1; want <= 3; want++ {
		resp, err := svc.AttemptDecryption(context.Background(), "s1", "dekryptering-8", wrong)
		if err != nil {
			t.Fatalf("attempt %d: %v", want, err)
		}
		if resp.Solved || resp.Attempts != want {
			t.Fatalf("attempt %d: resp = %+v", want, resp)
		}
	}

	resp, err := svc.AttemptDecryption(context.Background(), "s1", "dekryptering-8", right)
	if err != nil {
		t.Fatalf("solving attempt: %v", err)
	}
	if !resp.Solved || resp.Attempts != 3 {
		t.Fatalf("solving resp = %+v, want solved at 3 prior attempts", resp)
	}

	// Solved challenges ignore further attempts and keep the counter.
	resp, err = svc.AttemptDecryption(context.Background(), "s1", "dekryptering-8", wrong)
	if err != nil {
		t.Fatalf("post-solve attempt: %v", err)
	}
	if !resp.Solved || resp.Attempts != 3 {
		t.Fatalf("post-solve resp = %+v, counter must stay frozen", resp)
	}
}

func TestAttemptDecryptionUnknownChallenge(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	_, err := svc.AttemptDecryption(context.Background(), "s1", "dekryptering-99", []string{"symbol-mane"})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 app error", err)
	}
}

func TestResolveCrisisValidatesCode(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	err := svc.ResolveCrisis(context.Background(), "s1", "antenne", "FEILKODE", model.RoleChild)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 app error", err)
	}
	if store.sessions["s1"].CrisisStatus["antenne"] {
		t.Fatal("crisis flagged despite wrong code")
	}

	if err := svc.ResolveCrisis(context.Background(), "s1", "antenne", "antennefikser", model.RoleChild); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !store.sessions["s1"].CrisisStatus["antenne"] {
		t.Fatal("crisis not flagged after correct code")
	}

	// Idempotent.
	if err := svc.ResolveCrisis(context.Background(), "s1", "antenne", "ANTENNEFIKSER", model.RoleChild); err != nil {
		t.Fatalf("repeat resolve: %v", err)
	}
}

func TestResolveCrisisGuardianOnly(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	err := svc.ResolveCrisis(context.Background(), "s1", "generator", "", model.RoleChild)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 app error", err)
	}

	if err := svc.ResolveCrisis(context.Background(), "s1", "generator", "", model.RoleGuardian); err != nil {
		t.Fatalf("guardian resolve: %v", err)
	}
	if !store.sessions["s1"].CrisisStatus["generator"] {
		t.Fatal("generator crisis not flagged")
	}
}

func TestResolveCrisisUnknownKey(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	err := svc.ResolveCrisis(context.Background(), "s1", "pepperkaker", "", model.RoleChild)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 app error", err)
	}
}

func TestCrisisBadgePublishedOnAward(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	earned := make(chan model.EarnedBadge, 4)
	svc.notifierSvc.Subscribe(func(sessionID string, badge model.EarnedBadge) {
		earned <- badge
	})

	if _, err := svc.SubmitCode(context.Background(), "s1", "STORMNATT"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.ResolveCrisis(context.Background(), "s1", "antenne", "ANTENNEFIKSER", model.RoleChild); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	select {
	case badge := <-earned:
		if badge.BadgeID != "bonus-antenne" {
			t.Fatalf("published badge %q, want bonus-antenne", badge.BadgeID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("badge award never published")
	}
}

func TestMarkEmailViewedUsesNarrowPatch(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	if err := svc.MarkEmailViewed(context.Background(), "s1", 3, false); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if err := svc.MarkEmailViewed(context.Background(), "s1", 3, false); err != nil {
		t.Fatalf("repeat mark viewed: %v", err)
	}

	sess := store.sessions["s1"]
	if len(sess.ViewedEmails) != 1 || sess.ViewedEmails[0] != 3 {
		t.Fatalf("ViewedEmails = %v, want [3]", sess.ViewedEmails)
	}

	for _, fields := range store.patched {
		if len(fields) != 1 {
			t.Fatalf("patch touched %d fields, want 1: %v", len(fields), fields)
		}
		if _, ok := fields[FieldViewedEmails]; !ok {
			t.Fatalf("patch touched unexpected fields: %v", fields)
		}
	}

	if err := svc.MarkEmailViewed(context.Background(), "s1", 6, true); err != nil {
		t.Fatalf("mark bonus viewed: %v", err)
	}
	if len(sess.ViewedBonusEmails) != 1 || sess.ViewedBonusEmails[0] != 6 {
		t.Fatalf("ViewedBonusEmails = %v, want [6]", sess.ViewedBonusEmails)
	}
}

func TestRecordFailedAttemptIncrements(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	for want := 1; want <= 3; want++ {
		count, err := svc.RecordFailedAttempt(context.Background(), "s1", 5)
		if err != nil {
			t.Fatalf("record attempt: %v", err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
	}

	if got := store.sessions["s1"].FailedAttempts[5]; got != 3 {
		t.Fatalf("stored failed attempts = %d, want 3", got)
	}
}

func TestUpdateNamesPatchOnlyNamedField(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 24)

	if err := svc.UpdatePlayerNames(context.Background(), "s1", []string{"Emma", "Jonas"}); err != nil {
		t.Fatalf("update players: %v", err)
	}
	if err := svc.UpdateFriendNames(context.Background(), "s1", []string{"Ola"}); err != nil {
		t.Fatalf("update friends: %v", err)
	}

	sess := store.sessions["s1"]
	if len(sess.PlayerNames) != 2 || len(sess.FriendNames) != 1 {
		t.Fatalf("names = %v / %v", sess.PlayerNames, sess.FriendNames)
	}

	if len(store.patched) != 2 {
		t.Fatalf("expected 2 narrow patches, got %d", len(store.patched))
	}
	if _, ok := store.patched[0][FieldPlayerNames]; !ok {
		t.Fatalf("first patch missing player names: %v", store.patched[0])
	}
	if _, ok := store.patched[1][FieldFriendNames]; !ok {
		t.Fatalf("second patch missing friend names: %v", store.patched[1])
	}
}

func TestReadsOfMissingSession(t *testing.T) {
	store := newMemoryStore()
	svc := newTestProgression(t, store, 24)

	if _, err := svc.GetProgress(context.Background(), "finnes-ikke"); !errors.Is(err, shared.ErrSessionNotFound) {
		t.Fatalf("err = %v, want session not found", err)
	}
	if _, err := svc.SubmitCode(context.Background(), "finnes-ikke", "SNOKRYSTALL"); !errors.Is(err, shared.ErrSessionNotFound) {
		t.Fatalf("err = %v, want session not found", err)
	}
}

func TestGetCalendarHidesUnreachedTitles(t *testing.T) {
	store := newMemoryStore()
	seedSession(store, "s1")
	svc := newTestProgression(t, store, 10)

	cal, err := svc.GetCalendar(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get calendar: %v", err)
	}
	if cal.CurrentDay != 10 {
		t.Fatalf("current day = %d, want 10", cal.CurrentDay)
	}
	if len(cal.Days) != 24 {
		t.Fatalf("calendar has %d doors, want 24", len(cal.Days))
	}

	for _, day := range cal.Days {
		if day.Day <= 10 && day.Title == "" {
			t.Fatalf("reached day %d has no title", day.Day)
		}
		if day.Day > 10 && day.Title != "" {
			t.Fatalf("unreached day %d leaks title %q", day.Day, day.Title)
		}
	}
}

func TestInitializeSessionWritesDefaults(t *testing.T) {
	store := newMemoryStore()
	svc := newTestProgression(t, store, 24)

	if err := svc.InitializeSession(context.Background(), "fresh"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	sess := store.sessions["fresh"]
	if sess == nil {
		t.Fatal("session not written")
	}
	if len(sess.CompletedDays) != 0 || len(sess.EarnedBadges) != 0 {
		t.Fatalf("fresh session carries state: %+v", sess)
	}
}

func newSqliteBackedStore(t *testing.T) *SqliteService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.SessionRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &SqliteService{db: db, sessions: repositories.NewSessionRepository(db)}
}

// Session rows never store derived state, so prerequisite checks must
// survive a full persistence round trip.
func TestSubmitCodePrerequisiteThroughSqliteStore(t *testing.T) {
	store := newSqliteBackedStore(t)
	svc := newTestProgression(t, store, 24)
	ctx := context.Background()

	if err := svc.InitializeSession(ctx, "s1"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// Day 8 needs day 3 first.
	resp, err := svc.SubmitCode(ctx, "s1", "STJERNEKART")
	if err != nil || !resp.Accepted {
		t.Fatalf("day 3 submit: resp = %+v, err = %v", resp, err)
	}
	resp, err = svc.SubmitCode(ctx, "s1", "KISTELOKK")
	if err != nil {
		t.Fatalf("day 8 submit: %v", err)
	}
	if !resp.Accepted {
		t.Fatalf("day 8 rejected although day 3 is completed: resp = %+v", resp)
	}
}

func TestSubmitCodeIdempotentThroughSqliteStore(t *testing.T) {
	store := newSqliteBackedStore(t)
	svc := newTestProgression(t, store, 24)
	ctx := context.Background()

	if err := svc.InitializeSession(ctx, "s1"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if _, err := svc.SubmitCode(ctx, "s1", "SNOKRYSTALL"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	resp, err := svc.SubmitCode(ctx, "s1", "SNOKRYSTALL")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !resp.Accepted || !resp.AlreadySubmitted {
		t.Fatalf("resp = %+v, want accepted no-op", resp)
	}

	sess, err := store.ReadSession(ctx, "s1")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := len(sess.SubmittedCodes); got != 1 {
		t.Fatalf("submitted code log grew to %d entries", got)
	}
}

func TestSubmitCodeRejectionReportsFailedAttempts(t *testing.T) {
	store := newMemoryStore()
	sess := seedSession(store, "s1")
	sess.FailedAttempts[8] = 2
	svc := newTestProgression(t, store, 24)

	resp, err := svc.SubmitCode(context.Background(), "s1", "KISTELOKK")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Accepted {
		t.Fatal("day 8 accepted without its prerequisite")
	}
	if resp.FailedAttempts != 2 {
		t.Fatalf("failed attempts = %d, want 2", resp.FailedAttempts)
	}
}
