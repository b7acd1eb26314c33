package repository

import (
	"errors"
	"time"

	"pulseboard-backend/internal/triage/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTriageQueueRepository implements TriageQueueRepository using GORM
type gormTriageQueueRepository struct {
	db *gorm.DB
}

// NewTriageQueueRepository creates a new GORM-based TriageQueueRepository
func NewTriageQueueRepository(db *gorm.DB) TriageQueueRepository {
	return &gormTriageQueueRepository{db: db}
}

func (r *gormTriageQueueRepository) UpsertIfPending(entry *domain.TriageQueueEntry) error {
	now := time.Now()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Status == "" {
		entry.Status = domain.StatusPending
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	// Single conditional write: INSERT ... ON CONFLICT (user_id, source,
	// source_id) DO UPDATE ... WHERE status = 'pending'. A concurrent human
	// review that has already moved the row off pending wins.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "source"}, {Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "snippet", "score", "reasoning", "metadata", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: "triage_queue_entries", Name: "status"},
				Value:  string(domain.StatusPending),
			},
		}},
	}).Create(entry).Error
}

func (r *gormTriageQueueRepository) FindByUser(userID string, status *domain.EntryStatus, limit, offset int) ([]*domain.TriageQueueEntry, int64, error) {
	var entries []*domain.TriageQueueEntry
	var total int64

	query := r.db.Model(&domain.TriageQueueEntry{}).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("score DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&entries).Error

	return entries, total, err
}

func (r *gormTriageQueueRepository) FindByIdentity(userID string, source domain.Source, sourceID string) (*domain.TriageQueueEntry, error) {
	var entry domain.TriageQueueEntry
	err := r.db.Where("user_id = ? AND source = ? AND source_id = ?", userID, source, sourceID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *gormTriageQueueRepository) SetStatus(userID, entryID string, status domain.EntryStatus) (bool, error) {
	now := time.Now()
	// Conditional update: only a pending row can receive a review decision.
	res := r.db.Model(&domain.TriageQueueEntry{}).
		Where("id = ? AND user_id = ? AND status = ?", entryID, userID, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
