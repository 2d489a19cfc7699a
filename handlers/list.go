package handlers

import (
	"errors"
	"net/http"

	"github.com/camden-git/personsweb/controllers"
	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/views"
)

const listTitle = "Persons"

// listController restores the session's list page. With persist set every state change
// is written back to the session.
func (h *PersonPageHandler) listController(w http.ResponseWriter, r *http.Request, persist bool) (*controllers.ListController, bool) {
	sessionID := SessionFromContext(r.Context())
	prev, err := h.Sessions.GetListState(sessionID)
	if err != nil {
		h.Log.Errorf("Error loading list state for session %s: %v", sessionID, err)
		WriteAPIError(w, http.StatusInternalServerError, CodeSessionUnavailable, "Failed to load session")
		return nil, false
	}

	ctrl := controllers.NewListController(h.API, h.Busy.Scope(sessionID), prev)
	if persist {
		ctrl.OnChange(func(state models.ListState) {
			if err := h.Sessions.SaveListState(sessionID, state); err != nil {
				h.Log.Errorf("Error saving list state for session %s: %v", sessionID, err)
			}
		})
	}
	return ctrl, true
}

// ListPersons renders the list page. Every visit fetches the collection again.
func (h *PersonPageHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.listController(w, r, true)
	if !ok {
		return
	}
	if order := r.URL.Query().Get("sort"); order != "" {
		ctrl.SetSortOrder(order)
	}
	if err := ctrl.Mount(r.Context()); err != nil {
		h.Log.Warnf("Error fetching persons: %v", err)
	}
	h.render(w, http.StatusOK, views.PageList, listTitle, ctrl.View())
}

// ListAction handles the search, clear and delete buttons of the list page.
func (h *PersonPageHandler) ListAction(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	action := r.PostForm.Get("action")
	if action == actionDelete {
		h.listDelete(w, r)
		return
	}

	ctrl, ok := h.listController(w, r, true)
	if !ok {
		return
	}

	switch action {
	case actionSearch:
		q := r.PostForm.Get("q")
		if err := ctrl.Search(r.Context(), q); err != nil {
			h.Log.Warnf("Error searching persons for %q: %v", q, err)
		}
	case actionClear:
		if err := ctrl.ClearSearch(r.Context()); err != nil {
			h.Log.Warnf("Error fetching persons: %v", err)
		}
	default:
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Unknown action: "+action)
		return
	}

	h.render(w, http.StatusOK, views.PageList, listTitle, ctrl.View())
}

// listDelete runs a row delete. Other requests of the same session may change the
// stored list while the delete is in flight, so the outcome is folded into the stored
// state instead of overwriting it with this request's copy.
func (h *PersonPageHandler) listDelete(w http.ResponseWriter, r *http.Request) {
	id := models.PersonID(r.PostForm.Get("id"))
	if id == "" {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Missing person id")
		return
	}

	ctrl, ok := h.listController(w, r, false)
	if !ok {
		return
	}
	sessionID := SessionFromContext(r.Context())
	loaded := ctrl.State().Loaded

	confirm := newFormConfirmer(r.PostForm)
	err := ctrl.Delete(r.Context(), id, confirm)

	var fold func(models.ListState) models.ListState
	switch {
	case err == nil:
		h.Log.Infof("Deleted person %s", id)
		fold = func(s models.ListState) models.ListState {
			s = s.Without(id)
			s.Error = ""
			return s
		}
	case errors.Is(err, controllers.ErrNotConfirmed):
		if confirm.pending() {
			h.renderConfirm(w, confirm.prompt, "/", controllers.ListPath, map[string]string{
				"action": actionDelete,
				"id":     string(id),
			})
			return
		}
	case errors.Is(err, controllers.ErrBusy):
		h.Log.Infof("Delete of person %s already in progress", id)
	default:
		h.Log.Warnf("Error deleting person %s: %v", id, err)
		if !loaded {
			h.render(w, http.StatusOK, views.PageList, listTitle, ctrl.View())
			return
		}
		msg := ctrl.State().Error
		fold = func(s models.ListState) models.ListState {
			s.Error = msg
			return s
		}
	}

	// without a loaded list there is nothing to show; the list page fetches one
	if !loaded {
		redirect(w, r, controllers.ListPath)
		return
	}
	if fold == nil {
		h.render(w, http.StatusOK, views.PageList, listTitle, ctrl.View())
		return
	}

	state, err := h.Sessions.UpdateListState(sessionID, fold)
	if err != nil {
		h.Log.Errorf("Error saving list state for session %s: %v", sessionID, err)
		WriteAPIError(w, http.StatusInternalServerError, CodeSessionUnavailable, "Failed to save session")
		return
	}
	current := controllers.NewListController(h.API, h.Busy.Scope(sessionID), state)
	h.render(w, http.StatusOK, views.PageList, listTitle, current.View())
}
