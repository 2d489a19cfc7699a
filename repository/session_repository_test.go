package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camden-git/personsweb/database"
	"github.com/camden-git/personsweb/models"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newGormRepo(t *testing.T, c *clock) SessionRepository {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "sessions.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := NewGormSessionRepository(db)
	repo.Now = c.Now
	return repo
}

func newMemoryRepo(t *testing.T, c *clock) SessionRepository {
	repo := NewMemorySessionRepository()
	repo.Now = c.Now
	return repo
}

func sampleState() models.ListState {
	return models.ListState{
		SearchText: "ada",
		SortOrder:  models.SortName,
		Loaded:     true,
		Persons: []models.Person{
			{ID: "1", FirstName: "Ada", LastName: "Lovelace", Gender: models.GenderFemale},
		},
		Error: "Failed to delete person",
	}
}

func TestSessionRepositories(t *testing.T) {
	impls := map[string]func(*testing.T, *clock) SessionRepository{
		"gorm":   newGormRepo,
		"memory": newMemoryRepo,
	}

	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			t.Run("unknown session is empty", func(t *testing.T) {
				repo := newRepo(t, &clock{t: time.Unix(1000, 0)})
				state, err := repo.GetListState("missing")
				require.NoError(t, err)
				assert.Equal(t, models.ListState{}, state)
			})

			t.Run("save then load", func(t *testing.T) {
				repo := newRepo(t, &clock{t: time.Unix(1000, 0)})
				require.NoError(t, repo.SaveListState("s1", sampleState()))

				got, err := repo.GetListState("s1")
				require.NoError(t, err)
				assert.Equal(t, sampleState(), got)
			})

			t.Run("save overwrites", func(t *testing.T) {
				repo := newRepo(t, &clock{t: time.Unix(1000, 0)})
				require.NoError(t, repo.SaveListState("s1", sampleState()))

				next := sampleState()
				next.Persons = nil
				next.Error = ""
				require.NoError(t, repo.SaveListState("s1", next))

				got, err := repo.GetListState("s1")
				require.NoError(t, err)
				assert.Empty(t, got.Persons)
				assert.Empty(t, got.Error)
				assert.Equal(t, "ada", got.SearchText)
			})

			t.Run("update builds on the stored state", func(t *testing.T) {
				repo := newRepo(t, &clock{t: time.Unix(1000, 0)})
				state := sampleState()
				state.Persons = append(state.Persons, models.Person{ID: "2", FirstName: "Alan"}, models.Person{ID: "3", FirstName: "Grace"})
				require.NoError(t, repo.SaveListState("s1", state))

				_, err := repo.UpdateListState("s1", func(s models.ListState) models.ListState { return s.Without("1") })
				require.NoError(t, err)
				got, err := repo.UpdateListState("s1", func(s models.ListState) models.ListState { return s.Without("2") })
				require.NoError(t, err)

				require.Len(t, got.Persons, 1)
				assert.Equal(t, models.PersonID("3"), got.Persons[0].ID)

				stored, err := repo.GetListState("s1")
				require.NoError(t, err)
				assert.Equal(t, got, stored)
			})

			t.Run("update of an unknown session starts empty", func(t *testing.T) {
				repo := newRepo(t, &clock{t: time.Unix(1000, 0)})
				got, err := repo.UpdateListState("new", func(s models.ListState) models.ListState {
					assert.Equal(t, models.ListState{}, s)
					s.SortOrder = models.SortName
					return s
				})
				require.NoError(t, err)
				assert.Equal(t, models.SortName, got.SortOrder)
			})

			t.Run("delete expired", func(t *testing.T) {
				c := &clock{t: time.Unix(1000, 0)}
				repo := newRepo(t, c)
				require.NoError(t, repo.SaveListState("old", sampleState()))
				c.t = time.Unix(5000, 0)
				require.NoError(t, repo.SaveListState("fresh", sampleState()))

				n, err := repo.DeleteExpired(time.Unix(3000, 0))
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)

				old, err := repo.GetListState("old")
				require.NoError(t, err)
				assert.False(t, old.Loaded)

				fresh, err := repo.GetListState("fresh")
				require.NoError(t, err)
				assert.True(t, fresh.Loaded)
			})
		})
	}
}

func TestPageSessionGeneratesID(t *testing.T) {
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "sessions.db"), zap.NewNop())
	require.NoError(t, err)

	s := models.PageSession{ListState: "{}", CreatedAt: 1, UpdatedAt: 1}
	require.NoError(t, db.Create(&s).Error)
	assert.Len(t, s.ID, 36)
}
