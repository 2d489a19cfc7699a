package controllers

import (
	"context"
	"sync"

	"github.com/camden-git/personsweb/models"
)

type apiCall struct {
	Op      string
	ID      models.PersonID
	Query   string
	Payload models.PersonPayload
}

// fakeAPI is an in-memory PersonAPI that records every call.
type fakeAPI struct {
	mu     sync.Mutex
	people []models.Person
	calls  []apiCall

	listErr, searchErr, getErr, createErr, replaceErr, deleteErr error
	getNil                                                       bool
	beforeDelete                                                 func()
}

func newFakeAPI(people ...models.Person) *fakeAPI {
	return &fakeAPI{people: people}
}

func (f *fakeAPI) record(c apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) List(ctx context.Context) ([]models.Person, error) {
	f.record(apiCall{Op: "list"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Person(nil), f.people...), nil
}

func (f *fakeAPI) Search(ctx context.Context, q string) ([]models.Person, error) {
	f.record(apiCall{Op: "search", Query: q})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []models.Person
	for _, p := range f.people {
		if p.FirstName == q || p.LastName == q {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) Get(ctx context.Context, id models.PersonID) (*models.Person, error) {
	f.record(apiCall{Op: "get", ID: id})
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getNil {
		return nil, nil
	}
	for _, p := range f.people {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeAPI) Create(ctx context.Context, payload models.PersonPayload) (*models.Person, error) {
	f.record(apiCall{Op: "create", Payload: payload})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Person{ID: "new", FirstName: payload.FirstName, LastName: payload.LastName}, nil
}

func (f *fakeAPI) Replace(ctx context.Context, id models.PersonID, payload models.PersonPayload) (*models.Person, error) {
	f.record(apiCall{Op: "replace", ID: id, Payload: payload})
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	return &models.Person{ID: id, FirstName: payload.FirstName, LastName: payload.LastName}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id models.PersonID) error {
	f.record(apiCall{Op: "delete", ID: id})
	if f.beforeDelete != nil {
		f.beforeDelete()
	}
	return f.deleteErr
}

func ptr[T any](v T) *T { return &v }

func always(answer bool) ConfirmFunc {
	return func(string) bool { return answer }
}
