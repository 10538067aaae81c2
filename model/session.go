// model/session.go
package model

import (
	"encoding/json"
	"time"
)

// SubmittedCode is one accepted mission-code submission. The log is
// append-only; duplicates are tolerated and ignored by the resolver.
type SubmittedCode struct {
	Code        string    `json:"code"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CollectedSymbol is a decryption symbol gathered via out-of-band scanning.
type CollectedSymbol struct {
	SymbolID    string `json:"symbol_id"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// EarnedBadge records a badge award. Awards are idempotent and permanent.
type EarnedBadge struct {
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// Session is the full progression record for one player/family, keyed by
// SessionID across both storage backends. All unlock collections are
// monotonically non-decreasing for the lifetime of the session.
type Session struct {
	SessionID string `json:"session_id"`

	SubmittedCodes []SubmittedCode `json:"submitted_codes"`
	CompletedDays  []int           `json:"completed_days"` // derived from SubmittedCodes

	ViewedEmails      []int `json:"viewed_emails"`
	ViewedBonusEmails []int `json:"viewed_bonus_emails"`

	TopicUnlocks    map[string]int `json:"topic_unlocks"` // topic -> day first unlocked
	UnlockedFiles   []string       `json:"unlocked_files"`
	UnlockedModules []string       `json:"unlocked_modules"`
	RevealedSymbols []string       `json:"revealed_symbols"` // derived from completed missions

	CollectedSymbols   []CollectedSymbol `json:"collected_symbols"`
	SolvedDecryptions  []string          `json:"solved_decryptions"`
	DecryptionAttempts map[string]int    `json:"decryption_attempts"` // frozen once solved

	FailedAttempts map[int]int     `json:"failed_attempts"` // day -> wrong guesses, for progressive hints
	CrisisStatus   map[string]bool `json:"crisis_status"`

	EarnedBadges       []EarnedBadge `json:"earned_badges"`
	BonusOppdragBadges []string      `json:"bonus_oppdrag_badges"` // display grouping, kept in sync
	EventyrBadges      []string      `json:"eventyr_badges"`

	PlayerNames []string `json:"player_names"`
	FriendNames []string `json:"friend_names"`

	LastUpdated time.Time `json:"last_updated"`

	// Revision is the remote store's optimistic-concurrency counter, set on
	// read and checked on full-document writes. The local store ignores it.
	Revision int64 `json:"-"`
}

// NewSession returns an all-defaults session for a fresh registration.
func NewSession(sessionID string) *Session {
	now := time.Now()
	return &Session{
		SessionID:          sessionID,
		SubmittedCodes:     []SubmittedCode{},
		CompletedDays:      []int{},
		ViewedEmails:       []int{},
		ViewedBonusEmails:  []int{},
		TopicUnlocks:       map[string]int{},
		UnlockedFiles:      []string{},
		UnlockedModules:    []string{},
		RevealedSymbols:    []string{},
		CollectedSymbols:   []CollectedSymbol{},
		SolvedDecryptions:  []string{},
		DecryptionAttempts: map[string]int{},
		FailedAttempts:     map[int]int{},
		CrisisStatus:       map[string]bool{},
		EarnedBadges:       []EarnedBadge{},
		BonusOppdragBadges: []string{},
		EventyrBadges:      []string{},
		PlayerNames:        []string{},
		FriendNames:        []string{},
		LastUpdated:        now,
	}
}

// Normalize replaces nil collections with empty ones so the resolver is total
// over any stored shape.
func (s *Session) Normalize() {
	if s.SubmittedCodes == nil {
		s.SubmittedCodes = []SubmittedCode{}
	}
	if s.CompletedDays == nil {
		s.CompletedDays = []int{}
	}
	if s.ViewedEmails == nil {
		s.ViewedEmails = []int{}
	}
	if s.ViewedBonusEmails == nil {
		s.ViewedBonusEmails = []int{}
	}
	if s.TopicUnlocks == nil {
		s.TopicUnlocks = map[string]int{}
	}
	if s.UnlockedFiles == nil {
		s.UnlockedFiles = []string{}
	}
	if s.UnlockedModules == nil {
		s.UnlockedModules = []string{}
	}
	if s.RevealedSymbols == nil {
		s.RevealedSymbols = []string{}
	}
	if s.CollectedSymbols == nil {
		s.CollectedSymbols = []CollectedSymbol{}
	}
	if s.SolvedDecryptions == nil {
		s.SolvedDecryptions = []string{}
	}
	if s.DecryptionAttempts == nil {
		s.DecryptionAttempts = map[string]int{}
	}
	if s.FailedAttempts == nil {
		s.FailedAttempts = map[int]int{}
	}
	if s.CrisisStatus == nil {
		s.CrisisStatus = map[string]bool{}
	}
	if s.EarnedBadges == nil {
		s.EarnedBadges = []EarnedBadge{}
	}
	if s.BonusOppdragBadges == nil {
		s.BonusOppdragBadges = []string{}
	}
	if s.EventyrBadges == nil {
		s.EventyrBadges = []string{}
	}
	if s.PlayerNames == nil {
		s.PlayerNames = []string{}
	}
	if s.FriendNames == nil {
		s.FriendNames = []string{}
	}
}

// HasBadge reports whether the badge was already awarded.
func (s *Session) HasBadge(badgeID string) bool {
	for _, b := range s.EarnedBadges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// HasSolvedDecryption reports whether the challenge is already solved.
func (s *Session) HasSolvedDecryption(challengeID string) bool {
	for _, id := range s.SolvedDecryptions {
		if id == challengeID {
			return true
		}
	}
	return false
}

// HasSymbol reports whether the symbol was already collected.
func (s *Session) HasSymbol(symbolID string) bool {
	for _, sym := range s.CollectedSymbols {
		if sym.SymbolID == symbolID {
			return true
		}
	}
	return false
}

// HasCompletedDay reports whether at least one accepted code exists for day.
func (s *Session) HasCompletedDay(day int) bool {
	for _, d := range s.CompletedDays {
		if d == day {
			return true
		}
	}
	return false
}

// SessionRecord is the gorm row backing the local store. Collection fields
// are stored as JSON text columns; some historical rows carry double-encoded
// blobs, which the store normalizes on read.
type SessionRecord struct {
	SessionID string `gorm:"primaryKey;type:text;not null"`

	SubmittedCodes     json.RawMessage `gorm:"type:text"`
	ViewedEmails       json.RawMessage `gorm:"type:text"`
	ViewedBonusEmails  json.RawMessage `gorm:"type:text"`
	TopicUnlocks       json.RawMessage `gorm:"type:text"`
	UnlockedFiles      json.RawMessage `gorm:"type:text"`
	UnlockedModules    json.RawMessage `gorm:"type:text"`
	CollectedSymbols   json.RawMessage `gorm:"type:text"`
	SolvedDecryptions  json.RawMessage `gorm:"type:text"`
	DecryptionAttempts json.RawMessage `gorm:"type:text"`
	FailedAttempts     json.RawMessage `gorm:"type:text"`
	CrisisStatus       json.RawMessage `gorm:"type:text"`
	EarnedBadges       json.RawMessage `gorm:"type:text"`
	BonusOppdragBadges json.RawMessage `gorm:"type:text"`
	EventyrBadges      json.RawMessage `gorm:"type:text"`
	PlayerNames        json.RawMessage `gorm:"type:text"`
	FriendNames        json.RawMessage `gorm:"type:text"`

	LastUpdated time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (SessionRecord) TableName() string {
	return "sessions"
}
