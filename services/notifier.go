// services/notifier.go
package services

import (
	"sync"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// BadgeHandler receives newly-earned badge announcements.
type BadgeHandler func(sessionID string, badge model.EarnedBadge)

// BadgeNotifierService announces newly-earned badges to in-process
// observers, driving one-shot celebratory effects. Fire-and-forget: nothing
// is persisted, subscriptions are rebuilt each process lifetime, and
// publishing never blocks on a slow handler.
type BadgeNotifierService struct {
	context.DefaultService

	mu       sync.RWMutex
	nextID   int
	handlers map[int]BadgeHandler
}

const BADGE_NOTIFIER_SVC = "badge_notifier_svc"

func (svc BadgeNotifierService) Id() string {
	return BADGE_NOTIFIER_SVC
}

func (svc *BadgeNotifierService) Configure(ctx *context.Context) error {
	svc.handlers = make(map[int]BadgeHandler)
	return svc.DefaultService.Configure(ctx)
}

func (svc *BadgeNotifierService) Start() error {
	return nil
}

// Subscribe registers a handler and returns its subscription id.
func (svc *BadgeNotifierService) Subscribe(handler BadgeHandler) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.nextID++
	svc.handlers[svc.nextID] = handler
	return svc.nextID
}

// Unsubscribe removes the handler; unknown ids are a no-op.
func (svc *BadgeNotifierService) Unsubscribe(id int) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.handlers, id)
}

// Publish fans the badge out to every subscriber on its own goroutine.
func (svc *BadgeNotifierService) Publish(sessionID string, badge model.EarnedBadge) {
	svc.mu.RLock()
	handlers := make([]BadgeHandler, 0, len(svc.handlers))
	for _, h := range svc.handlers {
		handlers = append(handlers, h)
	}
	svc.mu.RUnlock()

	log.WithFields(log.Fields{
		"session_id": sessionID,
		"badge_id":   badge.BadgeID,
	}).Info("Badge earned")

	for _, handler := range handlers {
		go handler(sessionID, badge)
	}
}
