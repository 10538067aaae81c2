package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

func submitted(codes ...string) []model.SubmittedCode {
	out := make([]model.SubmittedCode, len(codes))
	for i, code := range codes {
		out[i] = model.SubmittedCode{Code: code, SubmittedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)}
	}
	return out
}

func symbols(n int) []model.CollectedSymbol {
	ids := []string{
		"symbol-stjerne", "symbol-klokke", "symbol-nokkel",
		"symbol-snofnugg", "symbol-lanterne", "symbol-bjelle",
		"symbol-kompass", "symbol-slede", "symbol-mane",
	}
	out := make([]model.CollectedSymbol, n)
	for i := 0; i < n; i++ {
		out[i] = model.CollectedSymbol{SymbolID: ids[i]}
	}
	return out
}

func TestResolveCompletedDaysFromCodes(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("SNOKRYSTALL", "RADIOROM", "REINSDYR5")

	ResolveProgress(sess, catalog, time.Now())

	want := []int{1, 2, 5}
	if !reflect.DeepEqual(sess.CompletedDays, want) {
		t.Fatalf("CompletedDays = %v, want %v", sess.CompletedDays, want)
	}
}

func TestResolveCollapsesDuplicateCodes(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("REINSDYR5", "SNOKRYSTALL", "REINSDYR5", "SNOKRYSTALL")

	ResolveProgress(sess, catalog, time.Now())

	want := []int{5, 1}
	if !reflect.DeepEqual(sess.CompletedDays, want) {
		t.Fatalf("CompletedDays = %v, want %v", sess.CompletedDays, want)
	}
}

func TestResolveIgnoresUnknownCodes(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("SNOKRYSTALL", "TULLEKODE", "RADIOROM")

	ResolveProgress(sess, catalog, time.Now())

	want := []int{1, 2}
	if !reflect.DeepEqual(sess.CompletedDays, want) {
		t.Fatalf("CompletedDays = %v, want %v", sess.CompletedDays, want)
	}
}

func TestResolveIdempotent(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("SNOKRYSTALL", "RADIOROM", "STJERNEKART", "STORMNATT")
	sess.CrisisStatus["antenne"] = true
	sess.CollectedSymbols = symbols(3)

	first := ResolveProgress(sess, catalog, time.Now())
	if len(first) == 0 {
		t.Fatal("first pass should award the antenne badge")
	}

	snapshot := *sess
	snapshotBadges := append([]model.EarnedBadge{}, sess.EarnedBadges...)

	second := ResolveProgress(sess, catalog, time.Now())
	if len(second) != 0 {
		t.Fatalf("second pass awarded %d badges, want 0", len(second))
	}
	if !reflect.DeepEqual(sess.EarnedBadges, snapshotBadges) {
		t.Fatalf("badges changed across a no-input resolve: %v -> %v", snapshotBadges, sess.EarnedBadges)
	}
	if !reflect.DeepEqual(sess.CompletedDays, snapshot.CompletedDays) {
		t.Fatal("completed days changed across a no-input resolve")
	}
}

func TestResolveRevealsUnionAndFirstUnlockDay(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("SNOKRYSTALL", "RADIOROM")

	ResolveProgress(sess, catalog, time.Now())

	if day, ok := sess.TopicUnlocks["morsekode"]; !ok || day != 2 {
		t.Fatalf("morsekode unlock day = %d (present %v), want 2", day, ok)
	}
	if len(sess.UnlockedFiles) == 0 {
		t.Fatal("day 1 should have revealed a file")
	}

	// A topic already unlocked keeps its original unlock day.
	sess.TopicUnlocks["morsekode"] = 1
	ResolveProgress(sess, catalog, time.Now())
	if day := sess.TopicUnlocks["morsekode"]; day != 1 {
		t.Fatalf("existing unlock day overwritten: got %d, want 1", day)
	}
}

func TestResolveRevealsDecryptionSymbols(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("STJERNEKART", "REINSDYR5")

	ResolveProgress(sess, catalog, time.Now())

	want := []string{"symbol-stjerne", "symbol-klokke"}
	if !reflect.DeepEqual(sess.RevealedSymbols, want) {
		t.Fatalf("RevealedSymbols = %v, want %v", sess.RevealedSymbols, want)
	}

	// Revealed symbols are availability, not collection.
	if len(sess.CollectedSymbols) != 0 {
		t.Fatalf("reveals leaked into CollectedSymbols: %v", sess.CollectedSymbols)
	}

	ResolveProgress(sess, catalog, time.Now())
	if !reflect.DeepEqual(sess.RevealedSymbols, want) {
		t.Fatalf("second resolve changed RevealedSymbols: %v", sess.RevealedSymbols)
	}
}

func TestBonusBadgeRequiresCrisisResolved(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("STORMNATT")

	ResolveProgress(sess, catalog, time.Now())
	if sess.HasBadge("bonus-antenne") {
		t.Fatal("badge awarded before the crisis was resolved")
	}

	sess.CrisisStatus["antenne"] = true
	newly := ResolveProgress(sess, catalog, time.Now())

	if !sess.HasBadge("bonus-antenne") {
		t.Fatal("badge not awarded after crisis resolution")
	}
	if len(newly) != 1 || newly[0].BadgeID != "bonus-antenne" {
		t.Fatalf("newly = %v, want exactly bonus-antenne", newly)
	}
	if !reflect.DeepEqual(sess.BonusOppdragBadges, []string{"bonus-antenne"}) {
		t.Fatalf("BonusOppdragBadges = %v", sess.BonusOppdragBadges)
	}
}

func TestEventyrBadgeNeedsWholeArc(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SubmittedCodes = submitted("STJERNEKART", "PRIKKSTREK")

	ResolveProgress(sess, catalog, time.Now())
	if sess.HasBadge("eventyr-julestjernen") {
		t.Fatal("arc badge awarded with one chapter missing")
	}

	sess.SubmittedCodes = append(sess.SubmittedCodes, submitted("STJERNESKINN")...)
	ResolveProgress(sess, catalog, time.Now())

	if !sess.HasBadge("eventyr-julestjernen") {
		t.Fatal("arc badge missing after all three chapters")
	}
	if !reflect.DeepEqual(sess.EventyrBadges, []string{"eventyr-julestjernen"}) {
		t.Fatalf("EventyrBadges = %v", sess.EventyrBadges)
	}
}

func TestDecryptionBadgeNeedsAllChallenges(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.SolvedDecryptions = []string{"dekryptering-8", "dekryptering-14"}

	ResolveProgress(sess, catalog, time.Now())
	if sess.HasBadge("kodeknekker") {
		t.Fatal("badge awarded with one decryption unsolved")
	}

	sess.SolvedDecryptions = append(sess.SolvedDecryptions, "dekryptering-22")
	ResolveProgress(sess, catalog, time.Now())
	if !sess.HasBadge("kodeknekker") {
		t.Fatal("badge missing after all decryptions solved")
	}
}

func TestSymbolBadgeAtNinthSymbol(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	sess.CollectedSymbols = symbols(8)

	ResolveProgress(sess, catalog, time.Now())
	if sess.HasBadge("symboljeger") {
		t.Fatal("badge awarded at eight symbols")
	}

	sess.CollectedSymbols = symbols(9)
	newly := ResolveProgress(sess, catalog, time.Now())

	if len(newly) != 1 || newly[0].BadgeID != "symboljeger" {
		t.Fatalf("newly = %v, want exactly symboljeger", newly)
	}

	// Ninth symbol only ever produces a single award event.
	if again := ResolveProgress(sess, catalog, time.Now()); len(again) != 0 {
		t.Fatalf("repeat resolve re-awarded: %v", again)
	}
}

func TestKalendermesterAtAllDays(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := model.NewSession("s1")
	for _, mission := range catalog.AllMissions() {
		sess.SubmittedCodes = append(sess.SubmittedCodes, model.SubmittedCode{Code: mission.Code})
	}

	ResolveProgress(sess, catalog, time.Now())
	if !sess.HasBadge("kalendermester") {
		t.Fatal("kalendermester missing after all 24 days")
	}
}

func TestMissionAccessibleDateGate(t *testing.T) {
	catalog := newTestCatalog(t)
	sess := model.NewSession("s1")

	day5 := catalog.MissionForDay(5)

	if MissionAccessible(sess, day5, 4) {
		t.Fatal("day 5 accessible on calendar day 4")
	}
	if !MissionAccessible(sess, day5, 5) {
		t.Fatal("day 5 not accessible on its own day")
	}
	if !MissionAccessible(sess, day5, 20) {
		t.Fatal("past days must stay accessible")
	}
	if MissionAccessible(sess, day5, 0) {
		t.Fatal("nothing is accessible before the calendar opens")
	}
}

func TestMissionAccessibleRequirements(t *testing.T) {
	catalog := newTestCatalog(t)

	// Day 8 requires day 3 to be completed.
	day8 := catalog.MissionForDay(8)

	sess := model.NewSession("s1")
	if MissionAccessible(sess, day8, 10) {
		t.Fatal("day 8 accessible without its prerequisite")
	}

	sess.SubmittedCodes = submitted("STJERNEKART")
	ResolveProgress(sess, catalog, time.Now())
	if !MissionAccessible(sess, day8, 10) {
		t.Fatal("day 8 blocked although day 3 is completed")
	}

	// Day 7 requires the morsekode topic from day 2.
	day7 := catalog.MissionForDay(7)
	blank := model.NewSession("s2")
	if MissionAccessible(blank, day7, 10) {
		t.Fatal("day 7 accessible without the morsekode topic")
	}

	blank.SubmittedCodes = submitted("RADIOROM")
	ResolveProgress(blank, catalog, time.Now())
	if !MissionAccessible(blank, day7, 10) {
		t.Fatal("day 7 blocked although morsekode is unlocked")
	}
}

func TestUnknownBadgeReferencesNeverSatisfy(t *testing.T) {
	catalog := newTestCatalog(t)
	sess := model.NewSession("s1")
	sess.CrisisStatus["antenne"] = true

	conds := []model.BadgeCondition{
		{Kind: model.BadgeKindBonusOppdrag, Day: 99},
		{Kind: model.BadgeKindEventyr, ArcID: "finnes-ikke"},
		{Kind: model.BadgeKindDecryptions},
		{Kind: model.BadgeKindSymbols, SymbolCount: 0},
		{Kind: model.BadgeKindAllQuests, QuestCount: 0},
		{Kind: "ukjent"},
	}
	for _, cond := range conds {
		if badgeConditionMet(sess, catalog, cond) {
			t.Fatalf("condition %+v should be unsatisfiable", cond)
		}
	}
}

func TestResolveTotalOverNilCollections(t *testing.T) {
	catalog := newTestCatalog(t)

	sess := &model.Session{SessionID: "legacy"}
	newly := ResolveProgress(sess, catalog, time.Now())

	if len(newly) != 0 {
		t.Fatalf("blank legacy session earned badges: %v", newly)
	}
	if sess.CompletedDays == nil || sess.TopicUnlocks == nil {
		t.Fatal("resolver must normalize nil collections")
	}
}
