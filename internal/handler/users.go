package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avasiliev/feedback-service/internal/feed"
	"github.com/avasiliev/feedback-service/internal/repository"
	"github.com/avasiliev/feedback-service/internal/session"
	"github.com/avasiliev/feedback-service/internal/web"
)

// Profile handles GET /users/{username}
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.Username(r); !ok {
		h.redirectLogin(w, r, "Please login first to access this page!")
		return
	}

	username := mux.Vars(r)["username"]
	user, err := h.svc.UserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	list, err := h.svc.FeedbackFor(username)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "profile", &web.Page{
		Title:    user.Username,
		User:     user,
		Feedback: list,
	})
}

// DeleteUser handles POST /users/{username}/delete. Only self-service:
// the session user must match the path.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteUser(username); err != nil {
		h.serverError(w, r, err)
		return
	}

	if h.mailer != nil {
		h.mailer.SendAccountDeleted(user.Email, user.Username)
	}

	h.sessions.Clear(w)
	session.SetFlash(w, "success", "Your account has been deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Feed handles GET /users/{username}/feed.atom. Same precondition as the
// profile page: any active session.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.Username(r); !ok {
		h.redirectLogin(w, r, "Please login first to access this page!")
		return
	}

	username := mux.Vars(r)["username"]
	user, err := h.svc.UserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	list, err := h.svc.FeedbackFor(username)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	out, err := feed.Build(h.baseURL, user, list)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Write(out)
}
