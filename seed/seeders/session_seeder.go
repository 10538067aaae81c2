package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/services/repositories"
)

// SessionSeeder creates demo sessions in various stages of play.
type SessionSeeder struct {
	db   *gorm.DB
	repo repositories.SessionRepository
}

func NewSessionSeeder(db *gorm.DB) *SessionSeeder {
	return &SessionSeeder{
		db:   db,
		repo: repositories.NewSessionRepository(db),
	}
}

func (s *SessionSeeder) SeedSessions() error {
	for _, sess := range s.demoSessions() {
		if existing, err := s.repo.Get(sess.SessionID); err == nil && existing != nil {
			log.Printf("Session %s already exists, skipping", sess.SessionID)
			continue
		}

		if err := s.repo.Upsert(sess); err != nil {
			log.Printf("Error creating session %s: %v", sess.SessionID, err)
			return err
		}
		log.Printf("Created session: %s", sess.SessionID)
	}

	log.Println("Session seeding completed successfully")
	return nil
}

// demoSessions returns one fresh session and one a week into the calendar.
func (s *SessionSeeder) demoSessions() []*model.Session {
	base := time.Date(2025, time.December, 7, 18, 30, 0, 0, time.UTC)

	fresh := model.NewSession("demo-familien-berg")

	played := model.NewSession("demo-familien-hansen")
	played.SubmittedCodes = []model.SubmittedCode{
		{Code: "SNOKRYSTALL", SubmittedAt: base.AddDate(0, 0, -6)},
		{Code: "RADIOROM", SubmittedAt: base.AddDate(0, 0, -5)},
		{Code: "STJERNEKART", SubmittedAt: base.AddDate(0, 0, -4)},
		{Code: "VERKSTED4", SubmittedAt: base.AddDate(0, 0, -3)},
		{Code: "REINSDYR5", SubmittedAt: base.AddDate(0, 0, -2)},
		{Code: "STORMNATT", SubmittedAt: base.AddDate(0, 0, -1)},
		{Code: "PRIKKSTREK", SubmittedAt: base},
	}
	played.ViewedEmails = []int{1, 2, 3, 4, 5, 6}
	played.CollectedSymbols = []model.CollectedSymbol{
		{SymbolID: "symbol-stjerne", Icon: "⭐", Description: "Stjernen fra taket i fjøset"},
		{SymbolID: "symbol-klokke", Icon: "🔔", Description: "Klokken fra verkstedet"},
	}
	played.CrisisStatus["antenne"] = true
	played.PlayerNames = []string{"Emma", "Jonas"}
	played.LastUpdated = base

	return []*model.Session{played, fresh}
}
