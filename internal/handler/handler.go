// Package handler maps HTTP routes onto the service layer. All
// authorization decisions live here: the service mutates whatever it is
// told to, so every mutating route checks the session user against the
// owner before calling in.
package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avasiliev/feedback-service/internal/service"
	"github.com/avasiliev/feedback-service/internal/session"
	"github.com/avasiliev/feedback-service/internal/web"
)

// Mailer is the slice of the mail sender the handlers need. A nil Mailer
// disables account emails.
type Mailer interface {
	SendWelcome(to, username string) error
	SendAccountDeleted(to, username string) error
}

type Handler struct {
	svc      *service.Service
	sessions *session.Manager
	renderer *web.Renderer
	mailer   Mailer
	baseURL  string
	log      *logrus.Logger
}

func New(svc *service.Service, sessions *session.Manager, renderer *web.Renderer, mailer Mailer, baseURL string, log *logrus.Logger) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		renderer: renderer,
		mailer:   mailer,
		baseURL:  baseURL,
		log:      log,
	}
}

// Home redirects to the registration page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/register", http.StatusFound)
}

// NotFound renders the 404 page
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", &web.Page{Title: "Not found"})
}

// render writes a page, filling in the session user and any pending flash
// message unless the caller provided one.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *web.Page) {
	if data.Username == "" {
		if username, ok := h.sessions.Username(r); ok {
			data.Username = username
		}
	}
	if data.Flash == nil {
		data.Flash = session.TakeFlash(w, r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, page, data); err != nil {
		h.log.Errorf("Failed to render %s: %v", page, err)
	}
}

// serverError logs the failure and renders the generic 500 page
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Errorf("Request failed: %v", err)
	h.render(w, r, http.StatusInternalServerError, "error", &web.Page{Title: "Error"})
}

// redirectLogin sends the user to the login page with a warning flash
func (h *Handler) redirectLogin(w http.ResponseWriter, r *http.Request, message string) {
	session.SetFlash(w, "danger", message)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
