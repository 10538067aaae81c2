package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// CredentialSeeder creates demo family credentials with fixed access codes.
type CredentialSeeder struct {
	db *gorm.DB
}

func NewCredentialSeeder(db *gorm.DB) *CredentialSeeder {
	return &CredentialSeeder{db: db}
}

func (s *CredentialSeeder) SeedCredentials() error {
	for _, cred := range s.demoCredentials() {
		var existing model.Credential
		if err := s.db.Where("session_id = ?", cred.SessionID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&cred).Error; err != nil {
					log.Printf("Error creating credential %s: %v", cred.SessionID, err)
					return err
				}
				log.Printf("Created credential: %s (child code %s)", cred.SessionID, cred.ChildCode)
			} else {
				return err
			}
		} else {
			log.Printf("Credential %s already exists, skipping", cred.SessionID)
		}
	}

	log.Println("Credential seeding completed successfully")
	return nil
}

func (s *CredentialSeeder) demoCredentials() []model.Credential {
	now := time.Now()

	return []model.Credential{
		{
			SessionID:    "demo-familien-hansen",
			ChildCode:    "NDEMO234",
			GuardianCode: "VDEMO234",
			Email:        "familien.hansen@example.com",
			Subscribed:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			SessionID:    "demo-familien-berg",
			ChildCode:    "NDEMO567",
			GuardianCode: "VDEMO567",
			Email:        "familien.berg@example.com",
			Subscribed:   false,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}
