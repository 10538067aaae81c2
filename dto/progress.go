package dto

import "time"

// ==================== PROGRESSION REQUEST DTOs ====================

type SubmitCodeRequest struct {
	Code string `json:"code" validate:"required,mission_code" example:"REINSDYR7"`
}

func (s SubmitCodeRequest) Validate() error {
	return GetValidator().Struct(s)
}

type CollectSymbolRequest struct {
	SymbolID    string `json:"symbol_id" validate:"required,min=1,max=64" example:"symbol-stjerne"`
	Icon        string `json:"icon" validate:"required,max=16" example:"⭐"`
	Description string `json:"description" validate:"max=200" example:"Stjernen fra taket i fjøset"`
}

func (c CollectSymbolRequest) Validate() error {
	return GetValidator().Struct(c)
}

type AttemptDecryptionRequest struct {
	ChallengeID string   `json:"challenge_id" validate:"required,min=1,max=64" example:"dekryptering-12"`
	Sequence    []string `json:"sequence" validate:"required,min=1,dive,min=1,max=64"`
}

func (a AttemptDecryptionRequest) Validate() error {
	return GetValidator().Struct(a)
}

type ResolveCrisisRequest struct {
	CrisisKey string `json:"crisis_key" validate:"required,oneof=antenne generator" example:"antenne"`
	Code      string `json:"code,omitempty" validate:"omitempty,mission_code"`
}

func (r ResolveCrisisRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MarkEmailViewedRequest struct {
	Day   int  `json:"day" validate:"required,gte=1,lte=24" example:"5"`
	Bonus bool `json:"bonus,omitempty"`
}

func (m MarkEmailViewedRequest) Validate() error {
	return GetValidator().Struct(m)
}

type RecordFailedAttemptRequest struct {
	Day int `json:"day" validate:"required,gte=1,lte=24" example:"5"`
}

func (r RecordFailedAttemptRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateNamesRequest struct {
	Names []string `json:"names" validate:"required,max=12,dive,min=1,max=40"`
}

func (u UpdateNamesRequest) Validate() error {
	return GetValidator().Struct(u)
}

// ==================== PROGRESSION RESPONSE DTOs ====================

type SubmitCodeResponse struct {
	Accepted         bool `json:"accepted"`
	Day              int  `json:"day,omitempty"`
	AlreadySubmitted bool `json:"already_submitted,omitempty"`
	FailedAttempts   int  `json:"failed_attempts,omitempty"`
}

type AttemptDecryptionResponse struct {
	Solved   bool `json:"solved"`
	Attempts int  `json:"attempts"`
}

type VisibleContentResponse struct {
	Topics  []string `json:"topics"`
	Files   []string `json:"files"`
	Modules []string `json:"modules"`
	Symbols []string `json:"symbols"`
}

type SymbolResponse struct {
	SymbolID    string `json:"symbol_id"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
}

type BadgeResponse struct {
	BadgeID     string     `json:"badge_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	ArtworkURL  string     `json:"artwork_url,omitempty"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

type ProgressResponse struct {
	SessionID          string           `json:"session_id"`
	CompletedDays      []int            `json:"completed_days"`
	ViewedEmails       []int            `json:"viewed_emails"`
	ViewedBonusEmails  []int            `json:"viewed_bonus_emails"`
	Topics             []string         `json:"topics"`
	Files              []string         `json:"files"`
	Modules            []string         `json:"modules"`
	Symbols            []SymbolResponse `json:"symbols"`
	SolvedDecryptions  []string         `json:"solved_decryptions"`
	DecryptionAttempts map[string]int   `json:"decryption_attempts"`
	FailedAttempts     map[int]int      `json:"failed_attempts"`
	CrisisStatus       map[string]bool  `json:"crisis_status"`
	Badges             []BadgeResponse  `json:"badges"`
	PlayerNames        []string         `json:"player_names"`
	FriendNames        []string         `json:"friend_names"`
	LastUpdated        time.Time        `json:"last_updated"`
}

// ==================== CALENDAR DTOs ====================

type CalendarDayResponse struct {
	Day        int    `json:"day"`
	Title      string `json:"title,omitempty"`
	Reachable  bool   `json:"reachable"`  // calendar date reached
	Accessible bool   `json:"accessible"` // reachable and requirements satisfied
	Completed  bool   `json:"completed"`
	HasBonus   bool   `json:"has_bonus"`
	HasPuzzle  bool   `json:"has_puzzle"`
	ArcID      string `json:"arc_id,omitempty"`
	ArcPhase   int    `json:"arc_phase,omitempty"`
}

type CalendarResponse struct {
	CurrentDay int                   `json:"current_day"`
	Days       []CalendarDayResponse `json:"days"`
}
