package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/pagestate"
)

const (
	msgCreatePerson = "Failed to create person. Please try again."
	msgUpdatePerson = "Failed to update person. Please try again."
	msgLoadPerson   = "Failed to load person data. Please try again."
	msgResetForm    = "Failed to reset form. Please refresh the page."
)

var errPersonMissing = errors.New("person missing from response")

// FormView is what the create and edit pages render.
type FormView struct {
	ID           models.PersonID // empty on the create page
	Form         models.PersonForm
	FetchLoading bool
	Submitting   bool
	Error        string
	MaxBirthDate string
	Genders      []models.Gender
}

func projectForm(id models.PersonID, s pagestate.Snapshot[models.PersonForm], today time.Time) FormView {
	return FormView{
		ID:           id,
		Form:         s.Value,
		FetchLoading: s.Phase == pagestate.Loading,
		Submitting:   s.Phase == pagestate.Mutating,
		Error:        s.Err,
		MaxBirthDate: models.MaxBirthDate(today),
		Genders:      models.Genders,
	}
}

func payloadFor(form models.PersonForm, today time.Time) (models.PersonPayload, error) {
	payload, errs := form.Payload(today)
	if len(errs) > 0 {
		return models.PersonPayload{}, &ValidationError{Fields: errs}
	}
	return payload, nil
}

// CreateController backs the create page.
type CreateController struct {
	api     PersonAPI
	now     func() time.Time
	machine *pagestate.Machine[models.PersonForm]
}

func NewCreateController(api PersonAPI, now func() time.Time) *CreateController {
	if now == nil {
		now = time.Now
	}
	c := &CreateController{api: api, now: now, machine: pagestate.New[models.PersonForm]()}
	c.machine.Set(models.PersonForm{})
	return c
}

func (c *CreateController) View() FormView {
	return projectForm("", c.machine.Snapshot(), c.now())
}

// Submit creates the person described by form. On success it returns the page to
// navigate to. On failure the form keeps the submitted values and the error is set.
func (c *CreateController) Submit(ctx context.Context, form models.PersonForm) (string, error) {
	c.machine.Set(form)
	err := c.machine.Mutate(ctx, func(ctx context.Context, form models.PersonForm) (models.PersonForm, error) {
		payload, err := payloadFor(form, c.now())
		if err != nil {
			return form, err
		}
		if _, err := c.api.Create(ctx, payload); err != nil {
			return form, err
		}
		return form, nil
	}, submitMessage(msgCreatePerson))
	if err != nil {
		return "", err
	}
	return ListPath, nil
}

// UpdateController backs the edit page. Fetching and submitting are tracked
// separately: Loading is the fetch, Mutating the submit.
type UpdateController struct {
	api     PersonAPI
	id      models.PersonID
	now     func() time.Time
	machine *pagestate.Machine[models.PersonForm]
}

func NewUpdateController(api PersonAPI, id models.PersonID, now func() time.Time) *UpdateController {
	if now == nil {
		now = time.Now
	}
	return &UpdateController{api: api, id: id, now: now, machine: pagestate.New[models.PersonForm]()}
}

func (c *UpdateController) View() FormView {
	return projectForm(c.id, c.machine.Snapshot(), c.now())
}

func (c *UpdateController) fetchForm(ctx context.Context) (models.PersonForm, error) {
	p, err := c.api.Get(ctx, c.id)
	if err != nil {
		return models.PersonForm{}, err
	}
	if p == nil {
		return models.PersonForm{}, fmt.Errorf("get person %s: %w", c.id, errPersonMissing)
	}
	return models.FormFromPerson(*p), nil
}

// Mount fetches the person and fills the form.
func (c *UpdateController) Mount(ctx context.Context) error {
	return c.machine.Load(ctx, c.fetchForm, pagestate.Static(msgLoadPerson))
}

// Edit replaces the in-progress form values without any request.
func (c *UpdateController) Edit(form models.PersonForm) {
	c.machine.Update(func(models.PersonForm) models.PersonForm { return form })
}

// Reset re-fetches the person and overwrites any unsaved edits. If the fetch fails the
// edits are kept.
func (c *UpdateController) Reset(ctx context.Context) error {
	return c.machine.Load(ctx, c.fetchForm, pagestate.Static(msgResetForm))
}

// Cancel discards edits and returns the page to navigate to. Nothing is sent.
func (c *UpdateController) Cancel() string {
	return ListPath
}

// Submit replaces the person with the complete form, including unchanged fields.
func (c *UpdateController) Submit(ctx context.Context, form models.PersonForm) (string, error) {
	c.Edit(form)
	err := c.machine.Mutate(ctx, func(ctx context.Context, form models.PersonForm) (models.PersonForm, error) {
		payload, err := payloadFor(form, c.now())
		if err != nil {
			return form, err
		}
		if _, err := c.api.Replace(ctx, c.id, payload); err != nil {
			return form, err
		}
		return form, nil
	}, submitMessage(msgUpdatePerson))
	if err != nil {
		return "", err
	}
	return ListPath, nil
}
