package repositories

import (
	"gorm.io/gorm"

	"github.com/Starefossen/NisseKomm-sub003/model"
)

// CredentialRepository looks up the identity records mapping access codes to
// sessions. Credentials are owned externally; this layer only reads and
// seeds them.
type CredentialRepository struct {
	BaseRepository
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return CredentialRepository{NewBaseRepository(db)}
}

func (r *CredentialRepository) Get(sessionID string) (*model.Credential, error) {
	var cred model.Credential
	if err := r.db.First(&cred, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindByAccessCode matches either the child or the guardian code and reports
// which role matched.
func (r *CredentialRepository) FindByAccessCode(code string) (*model.Credential, string, error) {
	var cred model.Credential
	err := r.db.First(&cred, "child_code = ?", code).Error
	if err == nil {
		return &cred, model.RoleChild, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, "", err
	}

	if err := r.db.First(&cred, "guardian_code = ?", code).Error; err != nil {
		return nil, "", err
	}
	return &cred, model.RoleGuardian, nil
}

func (r *CredentialRepository) Create(cred *model.Credential) error {
	return r.db.Create(cred).Error
}

// ListSubscribed returns credentials that opted into reminder delivery.
func (r *CredentialRepository) ListSubscribed() ([]model.Credential, error) {
	var creds []model.Credential
	if err := r.db.Where("subscribed = ?", true).Find(&creds).Error; err != nil {
		return nil, err
	}
	return creds, nil
}
