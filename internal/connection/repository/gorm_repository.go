package repository

import (
	"errors"
	"time"

	"pulseboard-backend/internal/connection/domain"
	"pulseboard-backend/pkg/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormConnectionRepository implements ConnectionRepository using GORM.
// Tokens are encrypted before they hit the database and decrypted on read.
type gormConnectionRepository struct {
	db            *gorm.DB
	encryptionKey string
}

// NewConnectionRepository creates a new GORM-based ConnectionRepository.
// An empty encryptionKey stores tokens in the clear (local development only).
func NewConnectionRepository(db *gorm.DB, encryptionKey string) ConnectionRepository {
	return &gormConnectionRepository{db: db, encryptionKey: encryptionKey}
}

func (r *gormConnectionRepository) FindByUserAndProvider(userID string, provider domain.Provider) (*domain.Connection, error) {
	var conn domain.Connection
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.decryptTokens(&conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *gormConnectionRepository) FindByAccountEmail(email string, provider domain.Provider) (*domain.Connection, error) {
	var conn domain.Connection
	err := r.db.Where("account_email = ? AND provider = ?", email, provider).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.decryptTokens(&conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *gormConnectionRepository) ListByUser(userID string) ([]domain.Connection, error) {
	var conns []domain.Connection
	if err := r.db.Where("user_id = ?", userID).Find(&conns).Error; err != nil {
		return nil, err
	}
	for i := range conns {
		if err := r.decryptTokens(&conns[i]); err != nil {
			return nil, err
		}
	}
	return conns, nil
}

func (r *gormConnectionRepository) ListConnectedUserIDs() ([]string, error) {
	var userIDs []string
	err := r.db.Model(&domain.Connection{}).Distinct("user_id").Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *gormConnectionRepository) Upsert(conn *domain.Connection) error {
	now := time.Now()
	if conn.ID == "" {
		conn.ID = uuid.New().String()
	}
	conn.CreatedAt = now
	conn.UpdatedAt = now

	stored := *conn
	if err := r.encryptTokens(&stored); err != nil {
		return err
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_email", "access_token", "refresh_token", "scopes", "token_expiry", "updated_at",
		}),
	}).Create(&stored).Error
}

func (r *gormConnectionRepository) UpdateTokens(id, accessToken, refreshToken string, expiry time.Time) error {
	access, err := r.encrypt(accessToken)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"access_token": access,
		"token_expiry": expiry,
		"updated_at":   time.Now(),
	}
	if refreshToken != "" {
		refresh, err := r.encrypt(refreshToken)
		if err != nil {
			return err
		}
		updates["refresh_token"] = refresh
	}
	return r.db.Model(&domain.Connection{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormConnectionRepository) encryptTokens(conn *domain.Connection) error {
	var err error
	if conn.AccessToken, err = r.encrypt(conn.AccessToken); err != nil {
		return err
	}
	conn.RefreshToken, err = r.encrypt(conn.RefreshToken)
	return err
}

func (r *gormConnectionRepository) decryptTokens(conn *domain.Connection) error {
	var err error
	if conn.AccessToken, err = r.decrypt(conn.AccessToken); err != nil {
		return err
	}
	conn.RefreshToken, err = r.decrypt(conn.RefreshToken)
	return err
}

func (r *gormConnectionRepository) encrypt(value string) (string, error) {
	if r.encryptionKey == "" || value == "" {
		return value, nil
	}
	return crypto.Encrypt(value, r.encryptionKey)
}

func (r *gormConnectionRepository) decrypt(value string) (string, error) {
	if r.encryptionKey == "" || value == "" {
		return value, nil
	}
	return crypto.Decrypt(value, r.encryptionKey)
}
