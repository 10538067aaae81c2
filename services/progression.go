// services/progression.go
package services

import (
	stdContext "context"
	"errors"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Starefossen/NisseKomm-sub003/dto"
	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// ProgressionService is the single entry point for every read and mutation
// of a session's progression state. Mutations follow read -> mutate in
// memory -> resolve -> persist -> notify; when persistence fails the
// in-memory mutation is discarded and no partial success is surfaced.
type ProgressionService struct {
	context.DefaultService

	store       SessionStore
	catalogSvc  *CatalogService
	clockSvc    *ClockService
	notifierSvc *BadgeNotifierService
	mediaSvc    *MediaService

	engine string
}

const PROGRESSION_SVC = "progression_svc"

// Full-document writes retry this many times on a remote revision conflict
// before giving up; each retry re-reads and re-applies the mutation.
const conflictRetries = 3

func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Configure(ctx *context.Context) error {
	engine, err := storeEngine()
	if err != nil {
		return err
	}
	svc.engine = engine
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressionService) Start() error {
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.clockSvc = svc.Service(CLOCK_SVC).(*ClockService)
	svc.notifierSvc = svc.Service(BADGE_NOTIFIER_SVC).(*BadgeNotifierService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)

	switch svc.engine {
	case shared.StoreEngineRemote:
		redisSvc := svc.Service(REDIS_SVC).(*RedisService)
		svc.store = NewRedisSessionStore(redisSvc.GetClient())
	default:
		svc.store = svc.Service(SQLITE_SVC).(*SqliteService)
	}

	log.WithField("engine", svc.engine).Info("Progression engine started")
	return nil
}

// Store exposes the configured persistence port (used by the seed tool).
func (svc *ProgressionService) Store() SessionStore {
	return svc.store
}

// InitializeSession creates the all-defaults session at registration time.
func (svc *ProgressionService) InitializeSession(ctx stdContext.Context, sessionID string) error {
	sess := model.NewSession(sessionID)
	return svc.store.WriteSession(ctx, sess)
}

// mutate runs one read-modify-resolve-write cycle, retrying on remote
// revision conflicts, and publishes newly-earned badges after the write
// lands. apply must be re-runnable: it is re-applied to a fresh read on
// every retry.
func (svc *ProgressionService) mutate(ctx stdContext.Context, sessionID string, apply func(*model.Session) error) (*model.Session, error) {
	var lastErr error

	for attempt := 0; attempt <= conflictRetries; attempt++ {
		sess, err := svc.store.ReadSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		// Stores hold only submitted facts; completed days and reveals are
		// rebuilt from them before apply consults the session.
		newly := ResolveProgress(sess, svc.catalogSvc, time.Now())

		if err := apply(sess); err != nil {
			return nil, err
		}

		newly = append(newly, ResolveProgress(sess, svc.catalogSvc, time.Now())...)
		sess.LastUpdated = time.Now()

		if err := svc.store.WriteSession(ctx, sess); err != nil {
			if errors.Is(err, shared.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		for _, badge := range newly {
			badgesAwardedTotal.WithLabelValues(badge.BadgeID).Inc()
			svc.notifierSvc.Publish(sessionID, badge)
		}
		return sess, nil
	}

	return nil, lastErr
}

// ==================== CODE SUBMISSION ====================

// SubmitCode appends an accepted mission code. Unknown codes and codes for
// inaccessible missions are rejected; re-submitting an already-accepted code
// succeeds as a no-op so double-clicks and retries stay harmless.
func (svc *ProgressionService) SubmitCode(ctx stdContext.Context, sessionID, code string) (*dto.SubmitCodeResponse, error) {
	mission := svc.catalogSvc.MissionForCode(code)
	if mission == nil {
		codeSubmissionsTotal.WithLabelValues("unknown").Inc()
		return &dto.SubmitCodeResponse{Accepted: false}, nil
	}

	var resp dto.SubmitCodeResponse
	_, err := svc.mutate(ctx, sessionID, func(sess *model.Session) error {
		resp = dto.SubmitCodeResponse{Day: mission.Day}

		if sess.HasCompletedDay(mission.Day) {
			resp.Accepted = true
			resp.AlreadySubmitted = true
			return nil
		}

		if !MissionAccessible(sess, mission, svc.clockSvc.CalendarDay()) {
			resp.Accepted = false
			resp.FailedAttempts = sess.FailedAttempts[mission.Day]
			return nil
		}

		sess.SubmittedCodes = append(sess.SubmittedCodes, model.SubmittedCode{
			Code:        NormalizeCode(code),
			SubmittedAt: time.Now(),
		})
		resp.Accepted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Accepted && !resp.AlreadySubmitted {
		codeSubmissionsTotal.WithLabelValues("accepted").Inc()
	} else if !resp.Accepted {
		codeSubmissionsTotal.WithLabelValues("rejected").Inc()
	}
	return &resp, nil
}

// RecordFailedAttempt bumps the per-day wrong-guess counter feeding the
// progressive hint mechanism. Written as a narrow patch so it never races
// full-document mutations from the other device.
func (svc *ProgressionService) RecordFailedAttempt(ctx stdContext.Context, sessionID string, day int) (int, error) {
	sess, err := svc.store.ReadSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	sess.FailedAttempts[day]++
	count := sess.FailedAttempts[day]

	err = svc.store.PatchSessionFields(ctx, sessionID, map[string]interface{}{
		FieldFailedAttempts: sess.FailedAttempts,
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ==================== SYMBOLS & DECRYPTION ====================

// RecordSymbolCollected unions the scanned symbol into the collection;
// re-scanning is a no-op.
func (svc *ProgressionService) RecordSymbolCollected(ctx stdContext.Context, sessionID, symbolID, icon, description string) error {
	_, err := svc.mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HasSymbol(symbolID) {
			return nil
		}
		sess.CollectedSymbols = append(sess.CollectedSymbols, model.CollectedSymbol{
			SymbolID:    symbolID,
			Icon:        icon,
			Description: description,
		})
		return nil
	})
	return err
}

// AttemptDecryption checks a proposed symbol ordering against the
// challenge's correct sequence. Attempts are unlimited; the counter freezes
// once solved, and re-solving an already-solved challenge is a silent
// success.
func (svc *ProgressionService) AttemptDecryption(ctx stdContext.Context, sessionID, challengeID string, sequence []string) (*dto.AttemptDecryptionResponse, error) {
	challenge := svc.catalogSvc.DecryptionChallengeByID(challengeID)
	if challenge == nil {
		return nil, shared.NewNotFoundError(nil, "Unknown decryption challenge")
	}

	var resp dto.AttemptDecryptionResponse
	_, err := svc.mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HasSolvedDecryption(challengeID) {
			resp = dto.AttemptDecryptionResponse{Solved: true, Attempts: sess.DecryptionAttempts[challengeID]}
			return nil
		}

		if sequencesEqual(sequence, challenge.CorrectSequence) {
			sess.SolvedDecryptions = append(sess.SolvedDecryptions, challengeID)
			resp = dto.AttemptDecryptionResponse{Solved: true, Attempts: sess.DecryptionAttempts[challengeID]}
			return nil
		}

		sess.DecryptionAttempts[challengeID]++
		decryptionAttemptsTotal.WithLabelValues("incorrect").Inc()
		resp = dto.AttemptDecryptionResponse{Solved: false, Attempts: sess.DecryptionAttempts[challengeID]}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Solved {
		decryptionAttemptsTotal.WithLabelValues("solved").Inc()
	}
	return &resp, nil
}

func sequencesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ==================== CRISES ====================

// ResolveCrisis flips the named crisis flag. Code-validated crises require
// the bonus quest's secondary code; guardian-only crises require the
// guardian role. Idempotent.
func (svc *ProgressionService) ResolveCrisis(ctx stdContext.Context, sessionID, crisisKey, code, role string) error {
	bonus := svc.bonusQuestByKey(crisisKey)
	if bonus == nil {
		return shared.NewNotFoundError(nil, "Unknown crisis")
	}
	if bonus.GuardianOnly && role != model.RoleGuardian {
		return shared.NewForbiddenError(nil, "This side-quest needs a grown-up to confirm")
	}
	if bonus.Code != "" && NormalizeCode(code) != NormalizeCode(bonus.Code) {
		return shared.NewBadRequestError(nil, "Wrong repair code")
	}

	_, err := svc.mutate(ctx, sessionID, func(sess *model.Session) error {
		sess.CrisisStatus[crisisKey] = true
		return nil
	})
	return err
}

func (svc *ProgressionService) bonusQuestByKey(crisisKey string) *model.BonusQuest {
	for _, mission := range svc.catalogSvc.AllMissions() {
		if mission.Bonus != nil && mission.Bonus.CrisisKey == crisisKey {
			return mission.Bonus
		}
	}
	return nil
}

// ==================== NARRATIVE & PERSONALIZATION ====================

// MarkEmailViewed records that the narrative content for a day was opened.
// UI tracking only, never gating; written as a narrow patch.
func (svc *ProgressionService) MarkEmailViewed(ctx stdContext.Context, sessionID string, day int, bonus bool) error {
	sess, err := svc.store.ReadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if bonus {
		sess.ViewedBonusEmails = unionInts(sess.ViewedBonusEmails, day)
		return svc.store.PatchSessionFields(ctx, sessionID, map[string]interface{}{
			FieldViewedBonusEmails: sess.ViewedBonusEmails,
		})
	}

	sess.ViewedEmails = unionInts(sess.ViewedEmails, day)
	return svc.store.PatchSessionFields(ctx, sessionID, map[string]interface{}{
		FieldViewedEmails: sess.ViewedEmails,
	})
}

func unionInts(existing []int, value int) []int {
	for _, have := range existing {
		if have == value {
			return existing
		}
	}
	return append(existing, value)
}

// UpdatePlayerNames replaces the personalization names. Narrow patch: only
// the named field is touched so a concurrent guardian edit elsewhere in the
// document survives.
func (svc *ProgressionService) UpdatePlayerNames(ctx stdContext.Context, sessionID string, names []string) error {
	return svc.store.PatchSessionFields(ctx, sessionID, map[string]interface{}{
		FieldPlayerNames: names,
	})
}

// UpdateFriendNames replaces the friend list the stories are woven around.
func (svc *ProgressionService) UpdateFriendNames(ctx stdContext.Context, sessionID string, names []string) error {
	return svc.store.PatchSessionFields(ctx, sessionID, map[string]interface{}{
		FieldFriendNames: names,
	})
}

// ==================== READ PROJECTIONS ====================

// readResolved loads a session and recomputes its derived state. Derived
// fields are not stored by the local backend, and legacy rows may predate
// the resolver, so projections never trust the stored shape.
func (svc *ProgressionService) readResolved(ctx stdContext.Context, sessionID string) (*model.Session, error) {
	sess, err := svc.store.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ResolveProgress(sess, svc.catalogSvc, time.Now())
	return sess, nil
}

func (svc *ProgressionService) GetCompletedDays(ctx stdContext.Context, sessionID string) ([]int, error) {
	sess, err := svc.readResolved(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.CompletedDays, nil
}

func (svc *ProgressionService) GetVisibleContent(ctx stdContext.Context, sessionID string) (*dto.VisibleContentResponse, error) {
	sess, err := svc.readResolved(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	topics := make([]string, 0, len(sess.TopicUnlocks))
	for topic := range sess.TopicUnlocks {
		topics = append(topics, topic)
	}

	return &dto.VisibleContentResponse{
		Topics:  topics,
		Files:   sess.UnlockedFiles,
		Modules: sess.UnlockedModules,
		Symbols: sess.RevealedSymbols,
	}, nil
}

func (svc *ProgressionService) GetProgress(ctx stdContext.Context, sessionID string) (*dto.ProgressResponse, error) {
	sess, err := svc.readResolved(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	topics := make([]string, 0, len(sess.TopicUnlocks))
	for topic := range sess.TopicUnlocks {
		topics = append(topics, topic)
	}

	symbols := make([]dto.SymbolResponse, len(sess.CollectedSymbols))
	for i, sym := range sess.CollectedSymbols {
		symbols[i] = dto.SymbolResponse{
			SymbolID:    sym.SymbolID,
			Icon:        sym.Icon,
			Description: sym.Description,
			ArtworkURL:  svc.mediaSvc.ArtworkURL(fmt.Sprintf("symbols/%s.png", sym.SymbolID)),
		}
	}

	return &dto.ProgressResponse{
		SessionID:          sess.SessionID,
		CompletedDays:      sess.CompletedDays,
		ViewedEmails:       sess.ViewedEmails,
		ViewedBonusEmails:  sess.ViewedBonusEmails,
		Topics:             topics,
		Files:              sess.UnlockedFiles,
		Modules:            sess.UnlockedModules,
		Symbols:            symbols,
		SolvedDecryptions:  sess.SolvedDecryptions,
		DecryptionAttempts: sess.DecryptionAttempts,
		FailedAttempts:     sess.FailedAttempts,
		CrisisStatus:       sess.CrisisStatus,
		Badges:             svc.badgeProjection(sess),
		PlayerNames:        sess.PlayerNames,
		FriendNames:        sess.FriendNames,
		LastUpdated:        sess.LastUpdated,
	}, nil
}

// GetBadges lists every badge definition with earned state for the session.
func (svc *ProgressionService) GetBadges(ctx stdContext.Context, sessionID string) ([]dto.BadgeResponse, error) {
	sess, err := svc.readResolved(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return svc.badgeProjection(sess), nil
}

func (svc *ProgressionService) badgeProjection(sess *model.Session) []dto.BadgeResponse {
	earnedAt := make(map[string]time.Time, len(sess.EarnedBadges))
	for _, earned := range sess.EarnedBadges {
		earnedAt[earned.BadgeID] = earned.EarnedAt
	}

	badges := make([]dto.BadgeResponse, 0, len(svc.catalogSvc.AllBadges()))
	for _, badge := range svc.catalogSvc.AllBadges() {
		resp := dto.BadgeResponse{
			BadgeID:     badge.BadgeID,
			Name:        badge.Name,
			Description: badge.Description,
			Kind:        badge.Condition.Kind,
			ArtworkURL:  svc.mediaSvc.ArtworkURL(badge.ArtworkKey),
		}
		if ts, ok := earnedAt[badge.BadgeID]; ok {
			t := ts
			resp.EarnedAt = &t
		}
		badges = append(badges, resp)
	}
	return badges
}

// GetCalendar projects the 24 doors with reachability, accessibility and
// completion for the session.
func (svc *ProgressionService) GetCalendar(ctx stdContext.Context, sessionID string) (*dto.CalendarResponse, error) {
	sess, err := svc.readResolved(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	currentDay := svc.clockSvc.CalendarDay()
	days := make([]dto.CalendarDayResponse, 0, len(svc.catalogSvc.AllMissions()))

	for _, mission := range svc.catalogSvc.AllMissions() {
		day := dto.CalendarDayResponse{
			Day:        mission.Day,
			Reachable:  currentDay >= mission.Day,
			Accessible: MissionAccessible(sess, mission, currentDay),
			Completed:  sess.HasCompletedDay(mission.Day),
			HasBonus:   mission.Bonus != nil,
			HasPuzzle:  mission.Decryption != nil,
			ArcID:      mission.StoryArcID,
			ArcPhase:   mission.ArcPhase,
		}
		// Titles of unreached doors stay hidden so peeking at the payload
		// spoils nothing.
		if day.Reachable {
			day.Title = mission.Title
		}
		days = append(days, day)
	}

	return &dto.CalendarResponse{CurrentDay: currentDay, Days: days}, nil
}
