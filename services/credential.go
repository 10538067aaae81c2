// services/credential.go
package services

import (
	stdContext "context"
	"errors"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Starefossen/NisseKomm-sub003/dto"
	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// CredentialService owns access-code lookups: code -> session id + role at
// login, session id -> display metadata everywhere else. Credentials always
// live in the gorm database regardless of which session store is active.
type CredentialService struct {
	context.DefaultService

	sqlSvc         *SqliteService
	progressionSvc *ProgressionService
}

const CREDENTIAL_SVC = "credential_svc"

func (svc CredentialService) Id() string {
	return CREDENTIAL_SVC
}

func (svc *CredentialService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CredentialService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	return nil
}

// FindSessionIDByAccessCode resolves a child or guardian code. Codes are
// matched case-normalized like mission codes.
func (svc *CredentialService) FindSessionIDByAccessCode(code string) (string, string, error) {
	cred, role, err := svc.sqlSvc.Credentials().FindByAccessCode(NormalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", shared.NewUnauthorizedError(nil, "Unknown access code")
		}
		return "", "", svc.sqlSvc.HandleError(err)
	}
	return cred.SessionID, role, nil
}

// GetCredential returns the display metadata for a session.
func (svc *CredentialService) GetCredential(sessionID string) (*model.Credential, error) {
	cred, err := svc.sqlSvc.Credentials().Get(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Unknown session")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}
	return cred, nil
}

// Register creates a Credential and its all-defaults Session. The two codes
// are independent so the guardian flow never leaks the child's code.
func (svc *CredentialService) Register(ctx stdContext.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	sessionID, _ := uuid.NewV7()

	cred := &model.Credential{
		SessionID:    sessionID.String(),
		ChildCode:    generateAccessCode("N"),
		GuardianCode: generateAccessCode("V"),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Subscribed:   req.Subscribed,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := svc.sqlSvc.Credentials().Create(cred); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if err := svc.progressionSvc.InitializeSession(ctx, cred.SessionID); err != nil {
		return nil, err
	}

	log.WithField("session_id", cred.SessionID).Info("Registered new calendar session")

	return &dto.RegisterResponse{
		SessionID:    cred.SessionID,
		ChildCode:    cred.ChildCode,
		GuardianCode: cred.GuardianCode,
	}, nil
}

// ListSubscribed returns credentials opted into reminder notifications.
func (svc *CredentialService) ListSubscribed() ([]model.Credential, error) {
	creds, err := svc.sqlSvc.Credentials().ListSubscribed()
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return creds, nil
}

// Access codes avoid look-alike characters so kids can type them from a
// printed card.
const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateAccessCode(prefix string) string {
	id := uuid.New()
	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < 7; i++ {
		b.WriteByte(accessCodeAlphabet[int(id[i])%len(accessCodeAlphabet)])
	}
	return b.String()
}
