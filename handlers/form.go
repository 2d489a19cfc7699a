package handlers

import (
	"net/http"

	"github.com/camden-git/personsweb/controllers"
	"github.com/camden-git/personsweb/models"
	"github.com/camden-git/personsweb/views"
)

const (
	createTitle = "Create New Person"
	editTitle   = "Edit Person"
)

func submittedForm(r *http.Request) models.PersonForm {
	return models.FormFromValues(r.PostForm.Get)
}

// NewPerson renders an empty create form.
func (h *PersonPageHandler) NewPerson(w http.ResponseWriter, r *http.Request) {
	ctrl := controllers.NewCreateController(h.API, h.Now)
	h.render(w, http.StatusOK, views.PageForm, createTitle, ctrl.View())
}

// CreatePerson submits the create form. On success the browser goes back to the list;
// otherwise the form is shown again with the submitted values and the error.
func (h *PersonPageHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	ctrl := controllers.NewCreateController(h.API, h.Now)
	next, err := ctrl.Submit(r.Context(), submittedForm(r))
	if err != nil {
		h.Log.Warnf("Error creating person: %v", err)
		h.render(w, http.StatusOK, views.PageForm, createTitle, ctrl.View())
		return
	}
	h.Log.Infof("Created person")
	redirect(w, r, next)
}

// EditPerson fetches the person and renders the edit form filled with its values.
func (h *PersonPageHandler) EditPerson(w http.ResponseWriter, r *http.Request) {
	id := personIDParam(r)
	ctrl := controllers.NewUpdateController(h.API, id, h.Now)
	if err := ctrl.Mount(r.Context()); err != nil {
		h.Log.Warnf("Error loading person %s for edit: %v", id, err)
	}
	h.render(w, http.StatusOK, views.PageForm, editTitle, ctrl.View())
}

// EditAction handles the save, reset and cancel buttons of the edit form.
func (h *PersonPageHandler) EditAction(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	id := personIDParam(r)
	ctrl := controllers.NewUpdateController(h.API, id, h.Now)

	switch action := r.PostForm.Get("action"); action {
	case actionSave, "":
		next, err := ctrl.Submit(r.Context(), submittedForm(r))
		if err != nil {
			h.Log.Warnf("Error updating person %s: %v", id, err)
			break
		}
		h.Log.Infof("Updated person %s", id)
		redirect(w, r, next)
		return
	case actionReset:
		ctrl.Edit(submittedForm(r))
		if err := ctrl.Reset(r.Context()); err != nil {
			h.Log.Warnf("Error resetting form of person %s: %v", id, err)
		}
	case actionCancel:
		redirect(w, r, ctrl.Cancel())
		return
	default:
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Unknown action: "+action)
		return
	}

	h.render(w, http.StatusOK, views.PageForm, editTitle, ctrl.View())
}
