package repository

import (
	"time"

	"github.com/camden-git/personsweb/models"
)

// SessionRepository keeps each browser session's list page state between requests.
type SessionRepository interface {
	// GetListState returns the stored state, or a zero state when the session is unknown.
	GetListState(sessionID string) (models.ListState, error)
	SaveListState(sessionID string, state models.ListState) error
	// UpdateListState applies fn to the stored state and saves the result atomically with
	// respect to other writes to the same repository.
	UpdateListState(sessionID string, fn func(models.ListState) models.ListState) (models.ListState, error)
	// DeleteExpired removes sessions not written since before and reports how many went.
	DeleteExpired(before time.Time) (int64, error)
}
