package controllers

import (
	"context"
	"sync"

	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/pagestate"
)

const (
	msgFetchPersons = "Failed to fetch persons"
	msgDeletePerson = "Failed to delete person"
)

// ListView is what the list page renders.
type ListView struct {
	Persons    []models.Person
	Loading    bool
	Error      string
	SearchText string
	SortOrder  string
	Deleting   map[models.PersonID]bool
}

func (v ListView) Empty() bool { return len(v.Persons) == 0 }

// ListController drives the person list: fetch on mount, search, clear and per-row
// delete with local pruning.
type ListController struct {
	api     PersonAPI
	busy    Busy
	machine *pagestate.Machine[[]models.Person]

	mu         sync.Mutex
	searchText string
	sortOrder  string
}

// NewListController restores a list page from prev. A state that was never loaded
// starts Idle with the loading flag up.
func NewListController(api PersonAPI, busy Busy, prev models.ListState) *ListController {
	if busy == nil {
		busy = NewBusySet().Scope("")
	}
	c := &ListController{
		api:        api,
		busy:       busy,
		searchText: prev.SearchText,
		sortOrder:  prev.SortOrder,
	}
	if !models.IsValidSortOrder(c.sortOrder) {
		c.sortOrder = models.DefaultSortOrder
	}
	if prev.Loaded {
		c.machine = pagestate.Restore(prev.Persons, prev.Error)
	} else {
		c.machine = pagestate.New[[]models.Person]()
	}
	return c
}

// OnChange registers fn to receive the persistable state after every transition.
func (c *ListController) OnChange(fn func(models.ListState)) {
	c.machine.Observe(func(pagestate.Snapshot[[]models.Person]) {
		fn(c.State())
	})
}

// State is the persistable part of the page.
func (c *ListController) State() models.ListState {
	s := c.machine.Snapshot()
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.ListState{
		SearchText: c.searchText,
		SortOrder:  c.sortOrder,
		Loaded:     s.Loaded,
		Persons:    s.Value,
		Error:      s.Err,
	}
}

func (c *ListController) View() ListView {
	s := c.machine.Snapshot()
	c.mu.Lock()
	search, order := c.searchText, c.sortOrder
	c.mu.Unlock()

	persons := append([]models.Person(nil), s.Value...)
	models.SortPersons(persons, order)

	deleting := make(map[models.PersonID]bool)
	for _, p := range persons {
		if c.busy.Has(p.ID) {
			deleting[p.ID] = true
		}
	}

	return ListView{
		Persons:    persons,
		Loading:    s.Phase == pagestate.Idle || s.Phase == pagestate.Loading,
		Error:      s.Err,
		SearchText: search,
		SortOrder:  order,
		Deleting:   deleting,
	}
}

func (c *ListController) Phase() pagestate.Phase { return c.machine.Snapshot().Phase }

// Mount fetches the collection, filtered by the stored search text when there is one.
func (c *ListController) Mount(ctx context.Context) error {
	c.mu.Lock()
	q := c.searchText
	c.mu.Unlock()
	return c.fetch(ctx, q)
}

// Search stores q and re-fetches filtered by it.
func (c *ListController) Search(ctx context.Context, q string) error {
	c.mu.Lock()
	c.searchText = q
	c.mu.Unlock()
	return c.fetch(ctx, q)
}

// ClearSearch resets the search text and re-fetches everything.
func (c *ListController) ClearSearch(ctx context.Context) error {
	c.mu.Lock()
	c.searchText = ""
	c.mu.Unlock()
	return c.fetch(ctx, "")
}

// SetSortOrder changes the display order. Unknown orders fall back to the default.
func (c *ListController) SetSortOrder(order string) {
	if !models.IsValidSortOrder(order) {
		order = models.DefaultSortOrder
	}
	c.mu.Lock()
	c.sortOrder = order
	c.mu.Unlock()
}

func (c *ListController) fetch(ctx context.Context, q string) error {
	return c.machine.Load(ctx, func(ctx context.Context) ([]models.Person, error) {
		if q != "" {
			return c.api.Search(ctx, q)
		}
		return c.api.List(ctx)
	}, pagestate.Static(msgFetchPersons))
}

// Delete asks for confirmation, then deletes the person and removes exactly that row
// from the collection without re-fetching.
func (c *ListController) Delete(ctx context.Context, id models.PersonID, confirm Confirmer) error {
	if !confirm.Confirm(DeletePrompt) {
		return ErrNotConfirmed
	}
	if !c.busy.TryMark(id) {
		return ErrBusy
	}
	defer c.busy.Unmark(id)

	return c.machine.Apply(ctx, func(ctx context.Context) error {
		return c.api.Delete(ctx, id)
	}, func(people []models.Person) []models.Person {
		return models.WithoutPerson(people, id)
	}, pagestate.Static(msgDeletePerson))
}
