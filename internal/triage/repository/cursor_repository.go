package repository

import (
	"errors"
	"time"

	"pulseboard-backend/internal/triage/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormSyncCursorRepository implements SyncCursorRepository using GORM
type gormSyncCursorRepository struct {
	db *gorm.DB
}

// NewSyncCursorRepository creates a new GORM-based SyncCursorRepository
func NewSyncCursorRepository(db *gorm.DB) SyncCursorRepository {
	return &gormSyncCursorRepository{db: db}
}

func (r *gormSyncCursorRepository) GetCursor(userID string, source domain.Source) (*domain.SyncCursor, error) {
	var cursor domain.SyncCursor
	err := r.db.Where("user_id = ? AND source = ?", userID, source).First(&cursor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cursor, nil
}

func (r *gormSyncCursorRepository) SetCursor(userID string, source domain.Source, position string) error {
	cursor := &domain.SyncCursor{
		ID:        uuid.New().String(),
		UserID:    userID,
		Source:    source,
		Position:  position,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
	}).Create(cursor).Error
}
