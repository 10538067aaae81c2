package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db               *gorm.DB
	credentialSeeder *CredentialSeeder
	sessionSeeder    *SessionSeeder
}

// NewMainSeeder creates a new main seeder with all sub-seeders
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{
		db:               db,
		credentialSeeder: NewCredentialSeeder(db),
		sessionSeeder:    NewSessionSeeder(db),
	}
}

// SeedAll seeds the demo credentials and their sessions
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.credentialSeeder.SeedCredentials(); err != nil {
		return err
	}

	if err := s.sessionSeeder.SeedSessions(); err != nil {
		return err
	}

	log.Println("Database seeding completed")
	return nil
}

func (s *MainSeeder) SeedCredentialsOnly() error {
	return s.credentialSeeder.SeedCredentials()
}

func (s *MainSeeder) SeedSessionsOnly() error {
	return s.sessionSeeder.SeedSessions()
}
