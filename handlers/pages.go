package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/camden-git/personsweb/controllers"
	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/repository"
	"github.com/camden-git/personsweb/views"
)

const (
	actionSearch = "search"
	actionClear  = "clear"
	actionDelete = "delete"
	actionSave   = "save"
	actionReset  = "reset"
	actionCancel = "cancel"
)

// PersonPageHandler serves the list, detail, create and edit pages. Each request builds
// a fresh controller; only the list page keeps state between requests, in Sessions.
type PersonPageHandler struct {
	API      controllers.PersonAPI
	Sessions repository.SessionRepository
	Busy     *controllers.BusySet
	Views    *views.Renderer
	Log      *zap.SugaredLogger
	Now      func() time.Time
}

func NewPersonPageHandler(api controllers.PersonAPI, sessions repository.SessionRepository, renderer *views.Renderer, log *zap.Logger) *PersonPageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PersonPageHandler{
		API:      api,
		Sessions: sessions,
		Busy:     controllers.NewBusySet(),
		Views:    renderer,
		Log:      log.Named("pages").Sugar(),
		Now:      time.Now,
	}
}

// Register mounts the page routes on r. Pages need a session, so SessionMiddleware is
// applied here.
func (h *PersonPageHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Get("/", h.ListPersons)
		r.Post("/", h.ListAction)

		r.Get("/create-person", h.NewPerson)
		r.Post("/create-person", h.CreatePerson)

		r.Route("/persons/{person_id}", func(r chi.Router) {
			r.Get("/", h.ShowPerson)
			r.Post("/", h.PersonAction)
			r.Get("/edit", h.EditPerson)
			r.Post("/edit", h.EditAction)
		})
	})
}

func personIDParam(r *http.Request) models.PersonID {
	return models.PersonID(chi.URLParam(r, "person_id"))
}

func (h *PersonPageHandler) render(w http.ResponseWriter, status int, name, title string, body any) {
	var buf bytes.Buffer
	if err := h.Views.Render(&buf, name, views.Page{Title: title, Body: body}); err != nil {
		h.Log.Errorf("Error rendering %s page: %v", name, err)
		WriteAPIError(w, http.StatusInternalServerError, CodeRenderFailed, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *PersonPageHandler) renderConfirm(w http.ResponseWriter, prompt, action, cancelURL string, fields map[string]string) {
	h.render(w, http.StatusOK, views.PageConfirm, "Confirm", views.ConfirmBody{
		Prompt:    prompt,
		Action:    action,
		Fields:    fields,
		CancelURL: cancelURL,
	})
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *PersonPageHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Invalid form submission")
		return false
	}
	return true
}
