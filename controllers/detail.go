package controllers

import (
	"context"
	"errors"

	"github.com/camden-git/personsweb/client"
	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/pagestate"
)

const msgFetchPerson = "Failed to fetch person details"

// DetailStatus names the display state of the detail page.
type DetailStatus string

const (
	DetailLoading  DetailStatus = "loading"
	DetailError    DetailStatus = "error"
	DetailNotFound DetailStatus = "not-found"
	DetailReady    DetailStatus = "ready"
)

type DetailView struct {
	ID     models.PersonID
	Status DetailStatus
	Person *models.Person
	Error  string
}

// DetailController shows one person and can delete it.
type DetailController struct {
	api     PersonAPI
	id      models.PersonID
	machine *pagestate.Machine[*models.Person]
}

func NewDetailController(api PersonAPI, id models.PersonID) *DetailController {
	return &DetailController{api: api, id: id, machine: pagestate.New[*models.Person]()}
}

// Mount fetches the person. A 404 or an empty body is not a failure: the page shows
// its not-found state instead.
func (c *DetailController) Mount(ctx context.Context) error {
	return c.machine.Load(ctx, func(ctx context.Context) (*models.Person, error) {
		p, err := c.api.Get(ctx, c.id)
		if errors.Is(err, client.ErrNotFound) {
			return nil, nil
		}
		return p, err
	}, pagestate.Static(msgFetchPerson))
}

func (c *DetailController) View() DetailView {
	s := c.machine.Snapshot()
	v := DetailView{ID: c.id, Person: s.Value, Error: s.Err}
	switch {
	case s.Phase == pagestate.Idle || s.Phase == pagestate.Loading:
		v.Status = DetailLoading
	case s.Err != "":
		v.Status = DetailError
	case s.Value == nil:
		v.Status = DetailNotFound
	default:
		v.Status = DetailReady
	}
	return v
}

// Delete asks for confirmation and deletes the person. On success it returns the page
// to navigate to; the page itself is left, so no local state is pruned.
func (c *DetailController) Delete(ctx context.Context, confirm Confirmer) (string, error) {
	if !confirm.Confirm(DeletePrompt) {
		return "", ErrNotConfirmed
	}
	err := c.machine.Mutate(ctx, func(ctx context.Context, p *models.Person) (*models.Person, error) {
		return p, c.api.Delete(ctx, c.id)
	}, pagestate.Static(msgDeletePerson))
	if err != nil {
		return "", err
	}
	return ListPath, nil
}
