package handlers

import (
	"context"

	"github.com/Starefossen/NisseKomm-sub003/dto"
	"github.com/Starefossen/NisseKomm-sub003/model"
)

type CredentialServiceInterface interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	FindSessionIDByAccessCode(code string) (string, string, error)
	GetCredential(sessionID string) (*model.Credential, error)
}

type JWTServiceInterface interface {
	GenerateTokenPair(sessionID, role string) (*dto.TokenPair, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, string, error)
}

type ProgressionServiceInterface interface {
	SubmitCode(ctx context.Context, sessionID, code string) (*dto.SubmitCodeResponse, error)
	RecordFailedAttempt(ctx context.Context, sessionID string, day int) (int, error)
	RecordSymbolCollected(ctx context.Context, sessionID, symbolID, icon, description string) error
	AttemptDecryption(ctx context.Context, sessionID, challengeID string, sequence []string) (*dto.AttemptDecryptionResponse, error)
	ResolveCrisis(ctx context.Context, sessionID, crisisKey, code, role string) error
	MarkEmailViewed(ctx context.Context, sessionID string, day int, bonus bool) error
	UpdatePlayerNames(ctx context.Context, sessionID string, names []string) error
	UpdateFriendNames(ctx context.Context, sessionID string, names []string) error
	GetVisibleContent(ctx context.Context, sessionID string) (*dto.VisibleContentResponse, error)
	GetProgress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
	GetBadges(ctx context.Context, sessionID string) ([]dto.BadgeResponse, error)
	GetCalendar(ctx context.Context, sessionID string) (*dto.CalendarResponse, error)
}
