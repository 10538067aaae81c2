// services/catalog.go
package services

import (
	"sort"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// CatalogService is the immutable registry of missions, story arcs and badge
// definitions. Built once at startup from the static definitions in
// catalog_data.go; no mutation API exists.
type CatalogService struct {
	context.DefaultService

	missionsByDay  map[int]*model.Mission
	missionsByCode map[string]*model.Mission
	badgesByID     map[string]*model.Badge
	arcsByID       map[string]*model.StoryArc
	ordered        []*model.Mission
}

const CATALOG_SVC = "catalog_svc"

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	svc.missionsByDay = make(map[int]*model.Mission, len(calendarMissions))
	svc.missionsByCode = make(map[string]*model.Mission, len(calendarMissions))
	svc.ordered = make([]*model.Mission, 0, len(calendarMissions))

	for i := range calendarMissions {
		mission := &calendarMissions[i]
		svc.missionsByDay[mission.Day] = mission
		svc.missionsByCode[NormalizeCode(mission.Code)] = mission
		svc.ordered = append(svc.ordered, mission)
	}
	sort.Slice(svc.ordered, func(i, j int) bool {
		return svc.ordered[i].Day < svc.ordered[j].Day
	})

	svc.arcsByID = make(map[string]*model.StoryArc, len(storyArcs))
	for i := range storyArcs {
		svc.arcsByID[storyArcs[i].ArcID] = &storyArcs[i]
	}

	svc.badgesByID = make(map[string]*model.Badge, len(badgeDefinitions))
	for i := range badgeDefinitions {
		svc.badgesByID[badgeDefinitions[i].BadgeID] = &badgeDefinitions[i]
	}

	log.WithFields(log.Fields{
		"missions": len(svc.missionsByDay),
		"badges":   len(svc.badgesByID),
		"arcs":     len(svc.arcsByID),
	}).Info("Content catalog loaded")
	return nil
}

// NormalizeCode folds a mission code for matching: trimmed and upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MissionForDay returns the mission for a calendar day, nil when none exists.
func (svc *CatalogService) MissionForDay(day int) *model.Mission {
	return svc.missionsByDay[day]
}

// MissionForCode resolves a case-normalized unlock code to its owning
// mission; unmatched codes return nil.
func (svc *CatalogService) MissionForCode(code string) *model.Mission {
	return svc.missionsByCode[NormalizeCode(code)]
}

// AllMissions returns the missions ordered by day.
func (svc *CatalogService) AllMissions() []*model.Mission {
	return svc.ordered
}

// BadgeByID returns the badge definition, nil when unknown.
func (svc *CatalogService) BadgeByID(id string) *model.Badge {
	return svc.badgesByID[id]
}

// AllBadges returns every badge definition in a stable order.
func (svc *CatalogService) AllBadges() []*model.Badge {
	out := make([]*model.Badge, 0, len(svc.badgesByID))
	for i := range badgeDefinitions {
		out = append(out, &badgeDefinitions[i])
	}
	return out
}

// StoryArcByID returns the story arc, nil when unknown.
func (svc *CatalogService) StoryArcByID(id string) *model.StoryArc {
	return svc.arcsByID[id]
}

// DecryptionChallengeByID looks the challenge up across all missions.
func (svc *CatalogService) DecryptionChallengeByID(id string) *model.DecryptionChallenge {
	for _, mission := range svc.ordered {
		if mission.Decryption != nil && mission.Decryption.ChallengeID == id {
			return mission.Decryption
		}
	}
	return nil
}
