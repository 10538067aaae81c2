package shared

const (
	SessionID = "session_id"
	Role      = "role"

	// Store engine selector values.
	StoreEngineLocal  = "local"
	StoreEngineRemote = "remote"

	// Crisis flags used by the bonusoppdrag side-quests.
	CrisisAntenne   = "antenne"
	CrisisGenerator = "generator"

	// Advent calendar bounds.
	FirstMissionDay = 1
	LastMissionDay  = 24
)
