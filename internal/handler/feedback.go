package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avasiliev/feedback-service/internal/models"
	"github.com/avasiliev/feedback-service/internal/repository"
	"github.com/avasiliev/feedback-service/internal/service"
	"github.com/avasiliev/feedback-service/internal/session"
	"github.com/avasiliev/feedback-service/internal/web"
)

// AddFeedbackForm handles GET /users/{username}/feedback/add
func (h *Handler) AddFeedbackForm(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	current, ok := h.sessions.Username(r)
	if !ok || current != username {
		h.redirectLogin(w, r, "Please login first to access this page!")
		return
	}

	user, err := h.svc.UserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "feedback_add", &web.Page{
		Title: "Add feedback",
		User:  user,
	})
}

// AddFeedback handles POST /users/{username}/feedback/add
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	current, ok := h.sessions.Username(r)
	if !ok || current != username {
		h.redirectLogin(w, r, "Please login first to access this page!")
		return
	}

	user, err := h.svc.UserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	if _, err := h.svc.AddFeedback(username, title, content); err != nil {
		var verrs service.ValidationError
		if errors.As(err, &verrs) {
			h.render(w, r, http.StatusOK, "feedback_add", &web.Page{
				Title:  "Add feedback",
				User:   user,
				Errors: verrs,
				Form:   map[string]string{"title": title, "content": content},
			})
			return
		}
		h.serverError(w, r, err)
		return
	}

	session.SetFlash(w, "success", "Feedback added!")
	http.Redirect(w, r, "/users/"+username, http.StatusSeeOther)
}

// MyFeedback handles GET /feedback, listing the session user's entries
func (h *Handler) MyFeedback(w http.ResponseWriter, r *http.Request) {
	username, ok := h.sessions.Username(r)
	if !ok {
		h.redirectLogin(w, r, "Please login first to access this page!")
		return
	}

	list, err := h.svc.FeedbackFor(username)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "feedback", &web.Page{
		Title:    "My feedback",
		Feedback: list,
	})
}

// SubmitFeedback handles POST /feedback for the session user
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	username, ok := h.sessions.Username(r)
	if !ok {
		h.redirectLogin(w, r, "Please login first to access this page!")
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	if _, err := h.svc.AddFeedback(username, title, content); err != nil {
		var verrs service.ValidationError
		if errors.As(err, &verrs) {
			list, lerr := h.svc.FeedbackFor(username)
			if lerr != nil {
				h.serverError(w, r, lerr)
				return
			}
			h.render(w, r, http.StatusOK, "feedback", &web.Page{
				Title:    "My feedback",
				Feedback: list,
				Errors:   verrs,
				Form:     map[string]string{"title": title, "content": content},
			})
			return
		}
		h.serverError(w, r, err)
		return
	}

	session.SetFlash(w, "success", "Feedback submitted successfully!")
	http.Redirect(w, r, "/feedback", http.StatusSeeOther)
}

// EditFeedbackForm handles GET /feedback/{id}/update
func (h *Handler) EditFeedbackForm(w http.ResponseWriter, r *http.Request) {
	fb, done := h.loadOwnFeedback(w, r, "You do not have permission to edit this feedback.")
	if done {
		return
	}

	h.render(w, r, http.StatusOK, "feedback_edit", &web.Page{
		Title: "Edit feedback",
		Entry: fb,
		Form:  map[string]string{"title": fb.Title, "content": fb.Content},
	})
}

// EditFeedback handles POST /feedback/{id}/update
func (h *Handler) EditFeedback(w http.ResponseWriter, r *http.Request) {
	fb, done := h.loadOwnFeedback(w, r, "You do not have permission to edit this feedback.")
	if done {
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	if _, err := h.svc.EditFeedback(fb.ID, title, content); err != nil {
		var verrs service.ValidationError
		if errors.As(err, &verrs) {
			h.render(w, r, http.StatusOK, "feedback_edit", &web.Page{
				Title:  "Edit feedback",
				Entry:  fb,
				Errors: verrs,
				Form:   map[string]string{"title": title, "content": content},
			})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	session.SetFlash(w, "success", "Feedback updated!")
	http.Redirect(w, r, "/users/"+fb.Username, http.StatusSeeOther)
}

// DeleteFeedback handles POST /feedback/{id}/delete
func (h *Handler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	fb, done := h.loadOwnFeedback(w, r, "You do not have permission to delete this feedback.")
	if done {
		return
	}

	if err := h.svc.DeleteFeedback(fb.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	session.SetFlash(w, "success", "Feedback deleted!")
	http.Redirect(w, r, "/users/"+fb.Username, http.StatusSeeOther)
}

// loadOwnFeedback fetches the feedback entry from the path and enforces
// ownership. Non-owners, logged in or not, are redirected to the login
// page with a permission message; this mirrors the long-standing behavior
// rather than answering 403. The second return value reports whether a
// response has already been written.
func (h *Handler) loadOwnFeedback(w http.ResponseWriter, r *http.Request, denied string) (*models.Feedback, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return nil, true
	}

	fb, err := h.svc.FeedbackByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return nil, true
	}
	if err != nil {
		h.serverError(w, r, err)
		return nil, true
	}

	current, ok := h.sessions.Username(r)
	if !ok || current != fb.Username {
		h.redirectLogin(w, r, denied)
		return nil, true
	}

	return fb, false
}
