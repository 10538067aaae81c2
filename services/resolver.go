// services/resolver.go
package services

import (
	"time"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// ResolveProgress recomputes all derived state on sess and awards any badge
// whose condition has become true. It is deterministic for fixed inputs,
// touches nothing outside sess, and is total over any well-formed session;
// running it twice with no new input is a no-op. Returns the badges that
// were newly earned by this pass, in catalog order.
//
// Wall-clock time never participates here: date-gating decides which days
// are reachable, not what a completed day unlocks.
func ResolveProgress(sess *model.Session, catalog *CatalogService, now time.Time) []model.EarnedBadge {
	sess.Normalize()

	resolveCompletedDays(sess, catalog)
	resolveReveals(sess, catalog)
	return resolveBadges(sess, catalog, now)
}

// resolveCompletedDays maps every submitted code to its owning mission.
// Unmatched codes are inert; duplicates collapse into one day entry.
func resolveCompletedDays(sess *model.Session, catalog *CatalogService) {
	seen := make(map[int]bool, len(sess.SubmittedCodes))
	days := make([]int, 0, len(sess.SubmittedCodes))

	for _, submitted := range sess.SubmittedCodes {
		mission := catalog.MissionForCode(submitted.Code)
		if mission == nil || seen[mission.Day] {
			continue
		}
		seen[mission.Day] = true
		days = append(days, mission.Day)
	}

	sess.CompletedDays = days
}

// resolveReveals unions every completed mission's reveal set into the
// session's unlocked collections. Already-present entries are unaffected;
// topic unlocks record the unlocking day only on first insertion.
func resolveReveals(sess *model.Session, catalog *CatalogService) {
	for _, day := range sess.CompletedDays {
		mission := catalog.MissionForDay(day)
		if mission == nil {
			continue
		}

		for _, topic := range mission.Reveals.Topics {
			if _, ok := sess.TopicUnlocks[topic]; !ok {
				sess.TopicUnlocks[topic] = day
			}
		}
		sess.UnlockedFiles = unionStrings(sess.UnlockedFiles, mission.Reveals.Files)
		sess.UnlockedModules = unionStrings(sess.UnlockedModules, mission.Reveals.Modules)
		sess.RevealedSymbols = unionStrings(sess.RevealedSymbols, mission.Reveals.DecryptionSymbols)
	}
}

func unionStrings(existing []string, add []string) []string {
	for _, candidate := range add {
		present := false
		for _, have := range existing {
			if have == candidate {
				present = true
				break
			}
		}
		if !present {
			existing = append(existing, candidate)
		}
	}
	return existing
}

func resolveBadges(sess *model.Session, catalog *CatalogService, now time.Time) []model.EarnedBadge {
	var newly []model.EarnedBadge

	for _, badge := range catalog.AllBadges() {
		if sess.HasBadge(badge.BadgeID) {
			continue
		}
		if !badgeConditionMet(sess, catalog, badge.Condition) {
			continue
		}

		earned := model.EarnedBadge{BadgeID: badge.BadgeID, EarnedAt: now}
		sess.EarnedBadges = append(sess.EarnedBadges, earned)
		newly = append(newly, earned)

		switch badge.Condition.Kind {
		case model.BadgeKindBonusOppdrag:
			sess.BonusOppdragBadges = unionStrings(sess.BonusOppdragBadges, []string{badge.BadgeID})
		case model.BadgeKindEventyr:
			sess.EventyrBadges = unionStrings(sess.EventyrBadges, []string{badge.BadgeID})
		}
	}

	return newly
}

// badgeConditionMet evaluates one condition against the resolved session.
// Conditions referencing unknown catalog ids are permanently unsatisfiable.
func badgeConditionMet(sess *model.Session, catalog *CatalogService, cond model.BadgeCondition) bool {
	switch cond.Kind {
	case model.BadgeKindBonusOppdrag:
		mission := catalog.MissionForDay(cond.Day)
		if mission == nil || mission.Bonus == nil {
			return false
		}
		return sess.CrisisStatus[mission.Bonus.CrisisKey]

	case model.BadgeKindEventyr:
		arc := catalog.StoryArcByID(cond.ArcID)
		if arc == nil || len(arc.Days) == 0 {
			return false
		}
		for _, day := range arc.Days {
			if !sess.HasCompletedDay(day) {
				return false
			}
		}
		return true

	case model.BadgeKindDecryptions:
		if len(cond.ChallengeIDs) == 0 {
			return false
		}
		for _, id := range cond.ChallengeIDs {
			if !sess.HasSolvedDecryption(id) {
				return false
			}
		}
		return true

	case model.BadgeKindSymbols:
		return cond.SymbolCount > 0 && len(sess.CollectedSymbols) >= cond.SymbolCount

	case model.BadgeKindAllQuests:
		return cond.QuestCount > 0 && len(sess.CompletedDays) >= cond.QuestCount
	}

	return false
}

// MissionAccessible reports whether the mission may be attempted: the
// calendar day is reached and every requirement is already satisfied. The
// resolver only classifies; rejecting submissions is the engine's job.
func MissionAccessible(sess *model.Session, mission *model.Mission, currentDay int) bool {
	if mission == nil || currentDay < mission.Day {
		return false
	}
	for _, topic := range mission.Requires.Topics {
		if _, ok := sess.TopicUnlocks[topic]; !ok {
			return false
		}
	}
	for _, day := range mission.Requires.CompletedDays {
		if !sess.HasCompletedDay(day) {
			return false
		}
	}
	return true
}
