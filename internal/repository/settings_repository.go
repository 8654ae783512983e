package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
)

// SettingKeyMailToken is the system_setting key holding the Microsoft Graph
// access token. Stored fernet-encrypted, never in the clear.
const SettingKeyMailToken = "graph_mail_token"

// SettingsRepository provides data access methods for the system_setting
// table. Values written through SetEncrypted are fernet tokens; everything
// else is plain text.
type SettingsRepository struct {
	db   *sql.DB
	keys []*fernet.Key
}

// NewSettingsRepository creates a new SettingsRepository with the provided
// database connection and base64 fernet key.
func NewSettingsRepository(db *sql.DB, fernetKey string) (*SettingsRepository, error) {
	keys, err := fernet.DecodeKeys(fernetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}

	return &SettingsRepository{db: db, keys: keys}, nil
}

// Set stores a plain-text setting, replacing any existing value for the key.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO system_setting (id, "key", value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		key,
		value,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert system_setting: %w", err)
	}

	return nil
}

// Get retrieves a plain-text setting.
// Returns ErrSettingNotFound if the key has no row.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM system_setting WHERE "key" = ?`

	var value string

	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system_setting table: %w", err)
	}

	return value, nil
}

// SetEncrypted encrypts the value with the repository's fernet key and
// stores the resulting token under the given key.
func (r *SettingsRepository) SetEncrypted(ctx context.Context, key, value string) error {
	token, err := fernet.EncryptAndSign([]byte(value), r.keys[0])
	if err != nil {
		return fmt.Errorf("failed to encrypt setting: %w", err)
	}

	return r.Set(ctx, key, string(token))
}

// GetEncrypted retrieves and decrypts a setting written by SetEncrypted.
// Returns ErrSettingNotFound if the key has no row.
func (r *SettingsRepository) GetEncrypted(ctx context.Context, key string) (string, error) {
	stored, err := r.Get(ctx, key)
	if err != nil {
		return "", err
	}

	value := fernet.VerifyAndDecrypt([]byte(stored), 0, r.keys)
	if value == nil {
		return "", fmt.Errorf("failed to decrypt setting %s", key)
	}

	return string(value), nil
}
