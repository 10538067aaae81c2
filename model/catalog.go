// model/catalog.go
package model

// RevealSet is the content a completed mission unions into the session's
// unlocked collections.
type RevealSet struct {
	Topics            []string `json:"topics"`
	Files             []string `json:"files"`
	Modules           []string `json:"modules"`
	DecryptionSymbols []string `json:"decryption_symbols"`
}

// RequirementSet gates a mission's accessibility independent of the calendar:
// all listed topics must be unlocked and all listed days completed before the
// mission's code may be submitted.
type RequirementSet struct {
	Topics        []string `json:"topics"`
	CompletedDays []int    `json:"completed_days"`
}

// BonusQuest is an optional side-quest attached to a mission, validated
// either by a secondary code or by guardian confirmation. Resolving it flips
// the named crisis flag.
type BonusQuest struct {
	CrisisKey    string `json:"crisis_key"`
	Code         string `json:"code,omitempty"` // empty -> guardian confirmation
	Description  string `json:"description"`
	GuardianOnly bool   `json:"guardian_only"`
}

// DecryptionChallenge is a puzzle requiring a correct ordering of previously
// collected symbols. Attempts are unlimited; the counter feeds progressive
// hinting outside this engine.
type DecryptionChallenge struct {
	ChallengeID     string   `json:"challenge_id"`
	CorrectSequence []string `json:"correct_sequence"`
	Hint            string   `json:"hint,omitempty"`
}

// Mission is one calendar day's puzzle unit.
type Mission struct {
	Day      int            `json:"day"`
	Title    string         `json:"title"`
	Code     string         `json:"code"` // matched case-normalized
	Reveals  RevealSet      `json:"reveals"`
	Requires RequirementSet `json:"requires"`

	Bonus      *BonusQuest          `json:"bonus,omitempty"`
	Decryption *DecryptionChallenge `json:"decryption,omitempty"`

	StoryArcID string `json:"story_arc_id,omitempty"`
	ArcPhase   int    `json:"arc_phase,omitempty"`
}

// StoryArc is a multi-phase narrative spanning several missions; it completes
// when every member mission's day is completed.
type StoryArc struct {
	ArcID string `json:"arc_id"`
	Title string `json:"title"`
	Days  []int  `json:"days"` // member mission days, one per phase
}

// Badge condition kinds.
const (
	BadgeKindBonusOppdrag = "bonusoppdrag"   // crisis flag for a day resolved
	BadgeKindEventyr      = "eventyr"        // story arc fully completed
	BadgeKindDecryptions  = "dekrypteringer" // set of challenges solved
	BadgeKindSymbols      = "symboler"       // symbol count reached
	BadgeKindAllQuests    = "oppdrag"        // completed-day count reached
)

// BadgeCondition describes when a badge unlocks. Exactly one branch is used
// per Kind; conditions referencing unknown catalog ids never award.
type BadgeCondition struct {
	Kind         string   `json:"kind"`
	Day          int      `json:"day,omitempty"`
	ArcID        string   `json:"arc_id,omitempty"`
	ChallengeIDs []string `json:"challenge_ids,omitempty"`
	SymbolCount  int      `json:"symbol_count,omitempty"`
	QuestCount   int      `json:"quest_count,omitempty"`
}

// Badge is an achievement definition. Awards are idempotent and never revoked.
type Badge struct {
	BadgeID     string         `json:"badge_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ArtworkKey  string         `json:"artwork_key,omitempty"` // object key in the artwork bucket
	Condition   BadgeCondition `json:"condition"`
}
