package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camden-git/personsweb/models"
)

// GormSessionRepository stores page sessions in sqlite through GORM. Writes are
// serialized in process; the database file belongs to a single server.
type GormSessionRepository struct {
	DB  *gorm.DB
	Now func() time.Time

	mu sync.Mutex
}

// NewGormSessionRepository creates a new instance of GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{DB: db, Now: time.Now}
}

// GetListState loads the list state of a session
func (r *GormSessionRepository) GetListState(sessionID string) (models.ListState, error) {
	return r.getListState(r.DB, sessionID)
}

func (r *GormSessionRepository) getListState(db *gorm.DB, sessionID string) (models.ListState, error) {
	var session models.PageSession
	err := db.First(&session, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ListState{}, nil
		}
		return models.ListState{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	var state models.ListState
	if err := json.Unmarshal([]byte(session.ListState), &state); err != nil {
		return models.ListState{}, fmt.Errorf("failed to decode list state of session %s: %w", sessionID, err)
	}
	return state, nil
}

// SaveListState inserts or overwrites the list state of a session
func (r *GormSessionRepository) SaveListState(sessionID string, state models.ListState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveListState(r.DB, sessionID, state)
}

func (r *GormSessionRepository) saveListState(db *gorm.DB, sessionID string, state models.ListState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode list state of session %s: %w", sessionID, err)
	}

	now := r.Now().Unix()
	session := models.PageSession{
		ID:        sessionID,
		ListState: string(encoded),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"list_state", "updated_at"}),
	}).Create(&session).Error
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// UpdateListState reads, transforms and writes a session's list state in one transaction
func (r *GormSessionRepository) UpdateListState(sessionID string, fn func(models.ListState) models.ListState) (models.ListState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next models.ListState
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		current, err := r.getListState(tx, sessionID)
		if err != nil {
			return err
		}
		next = fn(current)
		return r.saveListState(tx, sessionID, next)
	})
	if err != nil {
		return models.ListState{}, err
	}
	return next, nil
}

// DeleteExpired removes sessions last written before the cutoff
func (r *GormSessionRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.DB.Where("updated_at < ?", before.Unix()).Delete(&models.PageSession{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
