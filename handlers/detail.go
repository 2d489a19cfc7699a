package handlers

import (
	"errors"
	"net/http"

	"github.com/camden-git/personsweb/controllers"
	"github.com/camden-git/personsweb/views"
)

const detailTitle = "Person Details"

func detailStatusCode(v controllers.DetailView) int {
	if v.Status == controllers.DetailNotFound {
		return http.StatusNotFound
	}
	return http.StatusOK
}

// ShowPerson renders the detail page of one person.
func (h *PersonPageHandler) ShowPerson(w http.ResponseWriter, r *http.Request) {
	id := personIDParam(r)
	ctrl := controllers.NewDetailController(h.API, id)
	if err := ctrl.Mount(r.Context()); err != nil {
		h.Log.Warnf("Error fetching person %s: %v", id, err)
	}
	view := ctrl.View()
	h.render(w, detailStatusCode(view), views.PageDetail, detailTitle, view)
}

// PersonAction handles the delete button of the detail page.
func (h *PersonPageHandler) PersonAction(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	id := personIDParam(r)
	self := "/persons/" + string(id)

	if action := r.PostForm.Get("action"); action != actionDelete {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Unknown action: "+action)
		return
	}

	ctrl := controllers.NewDetailController(h.API, id)
	confirm := newFormConfirmer(r.PostForm)
	next, err := ctrl.Delete(r.Context(), confirm)
	switch {
	case err == nil:
		h.Log.Infof("Deleted person %s", id)
		redirect(w, r, next)
	case errors.Is(err, controllers.ErrNotConfirmed):
		if confirm.pending() {
			h.renderConfirm(w, confirm.prompt, self, self, map[string]string{"action": actionDelete})
			return
		}
		redirect(w, r, self)
	default:
		h.Log.Warnf("Error deleting person %s: %v", id, err)
		view := ctrl.View()
		h.render(w, http.StatusOK, views.PageDetail, detailTitle, view)
	}
}
