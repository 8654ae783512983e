package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/database"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
	"github.com/meridiancap/Fee-Letter-Backend/internal/repository"
	"github.com/meridiancap/Fee-Letter-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db           *sql.DB
	settingsRepo *repository.SettingsRepository
	features     map[string]bool
}

// NewSystemService creates a new SystemService. The features map reports
// which optional subsystems the running configuration enables.
func NewSystemService(db *sql.DB, settingsRepo *repository.SettingsRepository, features map[string]bool) *SystemService {
	return &SystemService{
		db:           db,
		settingsRepo: settingsRepo,
		features:     features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version,
// and whether a newer migration ships with this binary.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	applied, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	latest, err := database.LatestSchemaVersion()
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(applied, 10),
		Features:        s.features,
		MigrationNeeded: applied < latest,
	}

	if info.MigrationNeeded {
		msg := fmt.Sprintf("database schema is at version %d, binary ships %d; restart to migrate", applied, latest)
		info.MigrationMessage = &msg
	}

	return info, nil
}

// SetMailToken stores the Microsoft Graph access token, encrypted at rest.
// Deliveries pick up the new token on their next request.
func (s *SystemService) SetMailToken(ctx context.Context, token string) error {
	if err := s.settingsRepo.SetEncrypted(ctx, repository.SettingKeyMailToken, token); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToStoreSetting, err)
	}
	return nil
}

// MailToken retrieves the stored Graph access token.
// Returns ErrMailTokenNotSet when none has been stored yet.
func (s *SystemService) MailToken(ctx context.Context) (string, error) {
	token, err := s.settingsRepo.GetEncrypted(ctx, repository.SettingKeyMailToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettingNotFound) {
			return "", apperrors.ErrMailTokenNotSet
		}
		return "", err
	}
	return token, nil
}
