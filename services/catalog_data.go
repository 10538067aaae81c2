// services/catalog_data.go
package services

import "github.com/Starefossen/NisseKomm-sub003/model"

// Static content definitions for the 24-day calendar. The catalog is frozen
// at build time; editorial changes ship as a new release.

var calendarMissions = []model.Mission{
	{
		Day: 1, Title: "Brevet fra Nordpolen", Code: "SNOKRYSTALL",
		Reveals: model.RevealSet{
			Topics: []string{"nordlys"},
			Files:  []string{"brev-fra-nissen-1"},
		},
	},
	{
		Day: 2, Title: "Den hemmelige senderen", Code: "RADIOROM",
		Reveals: model.RevealSet{
			Topics:  []string{"morsekode"},
			Modules: []string{"modul-morse"},
		},
	},
	{
		Day: 3, Title: "Stjernen som forsvant", Code: "STJERNEKART",
		Reveals: model.RevealSet{
			Topics:            []string{"stjernehimmel"},
			DecryptionSymbols: []string{"symbol-stjerne"},
		},
		StoryArcID: "jakten-paa-julestjernen", ArcPhase: 1,
	},
	{
		Day: 4, Title: "Verkstedets port", Code: "VERKSTED4",
		Reveals: model.RevealSet{
			Topics: []string{"verksted"},
			Files:  []string{"verkstedkart"},
		},
	},
	{
		Day: 5, Title: "Reinsdyrspor i snøen", Code: "REINSDYR5",
		Reveals: model.RevealSet{
			Topics:            []string{"reinsdyr"},
			DecryptionSymbols: []string{"symbol-klokke"},
		},
	},
	{
		Day: 6, Title: "Antennen i stormen", Code: "STORMNATT",
		Reveals: model.RevealSet{
			Files: []string{"vaktrapport-6"},
		},
		Bonus: &model.BonusQuest{
			CrisisKey:   "antenne",
			Code:        "ANTENNEFIKSER",
			Description: "Radioantennen har blåst ned. Finn reservedelene og send reparasjonskoden.",
		},
	},
	{
		Day: 7, Title: "Morsemeldingen", Code: "PRIKKSTREK",
		Requires: model.RequirementSet{Topics: []string{"morsekode"}},
		Reveals: model.RevealSet{
			Modules:           []string{"modul-koder"},
			DecryptionSymbols: []string{"symbol-nokkel"},
		},
		StoryArcID: "jakten-paa-julestjernen", ArcPhase: 2,
	},
	{
		Day: 8, Title: "Den låste kisten", Code: "KISTELOKK",
		Requires: model.RequirementSet{CompletedDays: []int{3}},
		Reveals: model.RevealSet{
			Files: []string{"kistens-hemmelighet"},
		},
		Decryption: &model.DecryptionChallenge{
			ChallengeID:     "dekryptering-8",
			CorrectSequence: []string{"symbol-stjerne", "symbol-klokke", "symbol-nokkel"},
			Hint:            "Se på rekkefølgen symbolene ble funnet i.",
		},
	},
	{
		Day: 9, Title: "Snøfallvarselet", Code: "SNOFALL9",
		Reveals: model.RevealSet{
			Topics:            []string{"snøfall"},
			DecryptionSymbols: []string{"symbol-snofnugg"},
		},
	},
	{
		Day: 10, Title: "Lanternen i vinduet", Code: "LYKTESKINN",
		Reveals: model.RevealSet{
			DecryptionSymbols: []string{"symbol-lanterne"},
			Files:             []string{"brev-fra-nissen-10"},
		},
	},
	{
		Day: 11, Title: "Julestjernen funnet", Code: "STJERNESKINN",
		Requires: model.RequirementSet{Topics: []string{"stjernehimmel"}},
		Reveals: model.RevealSet{
			Files: []string{"stjernens-kart"},
		},
		StoryArcID: "jakten-paa-julestjernen", ArcPhase: 3,
	},
	{
		Day: 12, Title: "Bjellene på sleden", Code: "BJELLEKLANG",
		Reveals: model.RevealSet{
			DecryptionSymbols: []string{"symbol-bjelle"},
		},
	},
	{
		Day: 13, Title: "Kompasset som snurret", Code: "KOMPASS13",
		Reveals: model.RevealSet{
			Topics:            []string{"kart"},
			DecryptionSymbols: []string{"symbol-kompass"},
		},
	},
	{
		Day: 14, Title: "Det andre kammeret", Code: "KAMMERDOR",
		Requires: model.RequirementSet{CompletedDays: []int{8}},
		Reveals: model.RevealSet{
			Modules: []string{"modul-kammer"},
		},
		Decryption: &model.DecryptionChallenge{
			ChallengeID:     "dekryptering-14",
			CorrectSequence: []string{"symbol-snofnugg", "symbol-lanterne", "symbol-bjelle", "symbol-kompass"},
			Hint:            "Vinterens tegn kommer før reisens tegn.",
		},
	},
	{
		Day: 15, Title: "Lysene slukner", Code: "MORKETID",
		Reveals: model.RevealSet{
			Topics: []string{"strøm"},
			Files:  []string{"feilrapport-15"},
		},
		StoryArcID: "det-store-strombruddet", ArcPhase: 1,
	},
	{
		Day: 16, Title: "Sleden i kjelleren", Code: "SLEDEMEIE",
		Reveals: model.RevealSet{
			DecryptionSymbols: []string{"symbol-slede"},
		},
	},
	{
		Day: 17, Title: "Generatoren hoster", Code: "MASKINROM",
		Requires: model.RequirementSet{Topics: []string{"strøm"}},
		Reveals: model.RevealSet{
			Files: []string{"generatorhandbok"},
		},
		Bonus: &model.BonusQuest{
			CrisisKey:    "generator",
			Description:  "Generatoren må startes sammen med en voksen. Be en voksen bekrefte at dere klarte det.",
			GuardianOnly: true,
		},
		StoryArcID: "det-store-strombruddet", ArcPhase: 2,
	},
	{
		Day: 18, Title: "Månens budskap", Code: "MANESKINN",
		Reveals: model.RevealSet{
			DecryptionSymbols: []string{"symbol-mane"},
		},
	},
	{
		Day: 19, Title: "Kartbiten under gulvet", Code: "GULVPLANKE",
		Requires: model.RequirementSet{Topics: []string{"kart"}},
		Reveals: model.RevealSet{
			Files: []string{"kartbit-19"},
		},
	},
	{
		Day: 20, Title: "Siste sikring", Code: "SIKRINGSBOKS",
		Requires: model.RequirementSet{CompletedDays: []int{15, 17}},
		Reveals: model.RevealSet{
			Modules: []string{"modul-strom"},
		},
		StoryArcID: "det-store-strombruddet", ArcPhase: 3,
	},
	{
		Day: 21, Title: "Nøkkelen til tårnet", Code: "TARNTRAPP",
		Reveals: model.RevealSet{
			Files: []string{"tarnets-historie"},
		},
	},
	{
		Day: 22, Title: "Den store dekrypteringen", Code: "KODEBREKKER",
		Requires: model.RequirementSet{CompletedDays: []int{14}},
		Reveals: model.RevealSet{
			Modules: []string{"modul-finale"},
		},
		Decryption: &model.DecryptionChallenge{
			ChallengeID:     "dekryptering-22",
			CorrectSequence: []string{"symbol-slede", "symbol-mane", "symbol-stjerne"},
			Hint:            "Reisen, natten, og lyset som viser vei.",
		},
	},
	{
		Day: 23, Title: "Lillejulaften", Code: "GRANBAR23",
		Reveals: model.RevealSet{
			Files: []string{"brev-fra-nissen-23"},
		},
	},
	{
		Day: 24, Title: "Julaften", Code: "JULEFRED",
		Requires: model.RequirementSet{CompletedDays: []int{23}},
		Reveals: model.RevealSet{
			Files: []string{"nissens-takkebrev"},
		},
	},
}

var storyArcs = []model.StoryArc{
	{ArcID: "jakten-paa-julestjernen", Title: "Jakten på julestjernen", Days: []int{3, 7, 11}},
	{ArcID: "det-store-strombruddet", Title: "Det store strømbruddet", Days: []int{15, 17, 20}},
}

var badgeDefinitions = []model.Badge{
	{
		BadgeID: "bonus-antenne", Name: "Antennereparatør",
		Description: "Fikset antennen i stormen.",
		ArtworkKey:  "badges/bonus-antenne.png",
		Condition:   model.BadgeCondition{Kind: model.BadgeKindBonusOppdrag, Day: 6},
	},
	{
		BadgeID: "bonus-generator", Name: "Generatorhelt",
		Description: "Startet generatoren sammen med en voksen.",
		ArtworkKey:  "badges/bonus-generator.png",
		Condition:   model.BadgeCondition{Kind: model.BadgeKindBonusOppdrag, Day: 17},
	},
	{
		BadgeID: "eventyr-julestjernen", Name: "Stjernefinner",
		Description: "Fullførte eventyret om julestjernen.",
		ArtworkKey:  "badges/eventyr-julestjernen.png",
		Condition:   model.BadgeCondition{Kind: model.BadgeKindEventyr, ArcID: "jakten-paa-julestjernen"},
	},
	{
		BadgeID: "eventyr-strombruddet", Name: "Lysbringer",
		Description: "Fullførte eventyret om det store strømbruddet.",
		ArtworkKey:  "badges/eventyr-strombruddet.png",
		Condition:   model.BadgeCondition{Kind: model.BadgeKindEventyr, ArcID: "det-store-strombruddet"},
	},
	{
		BadgeID: "kodeknekker", Name: "Kodeknekker",
		Description: "Løste alle dekrypteringene.",
		ArtworkKey:  "badges/kodeknekker.png",
		Condition: model.BadgeCondition{
			Kind:         model.BadgeKindDecryptions,
			ChallengeIDs: []string{"dekryptering-8", "dekryptering-14", "dekryptering-22"},
		},
	},
	{
		BadgeID: "symboljeger", Name: "Symboljeger",
		Description: "Samlet alle de ni symbolene.",
		ArtworkKey:  "badges/symboljeger.png",
		Condition:   model.BadgeCondition{Kind: model.BadgeKindSymbols, SymbolCount: 9},
	},
	{
		BadgeID: "kalendermester", Name: "Kalendermester",
		Description: "Fullførte alle 24 oppdragene.",
		ArtworkKey:  "badges/kalendermester.png",
		Condition:   model.BadgeCondition{Kind: model.BadgeKindAllQuests, QuestCount: 24},
	},
}
