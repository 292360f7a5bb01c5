package handler

import (
	"errors"
	"net/http"

	"github.com/avasiliev/feedback-service/internal/service"
	"github.com/avasiliev/feedback-service/internal/session"
	"github.com/avasiliev/feedback-service/internal/web"
)

// RegisterForm handles GET /register
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if username, ok := h.sessions.Username(r); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "register", &web.Page{Title: "Register"})
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if username, ok := h.sessions.Username(r); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	email := r.PostFormValue("email")
	firstName := r.PostFormValue("first_name")
	lastName := r.PostFormValue("last_name")

	user, err := h.svc.Register(username, password, email, firstName, lastName)
	if err != nil {
		var verrs service.ValidationError
		if errors.As(err, &verrs) {
			h.render(w, r, http.StatusOK, "register", &web.Page{
				Title:  "Register",
				Errors: verrs,
				Form: map[string]string{
					"username":   username,
					"email":      email,
					"first_name": firstName,
					"last_name":  lastName,
				},
			})
			return
		}
		h.serverError(w, r, err)
		return
	}

	if h.mailer != nil {
		// best effort, failures are logged by the sender
		h.mailer.SendWelcome(user.Email, user.Username)
	}

	if err := h.sessions.Set(w, user.Username); err != nil {
		h.serverError(w, r, err)
		return
	}
	session.SetFlash(w, "success", "Welcome! You successfully created your account!")
	http.Redirect(w, r, "/users/"+user.Username, http.StatusSeeOther)
}

// LoginForm handles GET /login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if username, ok := h.sessions.Username(r); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login", &web.Page{Title: "Log in"})
}

// Login handles POST /login. Unknown username and wrong password produce
// the same generic message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if username, ok := h.sessions.Username(r); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if verrs := service.ValidateLogin(username, password); verrs != nil {
		h.render(w, r, http.StatusOK, "login", &web.Page{
			Title:  "Log in",
			Errors: verrs,
			Form:   map[string]string{"username": username},
		})
		return
	}

	user := h.svc.Authenticate(username, password)
	if user == nil {
		h.render(w, r, http.StatusOK, "login", &web.Page{
			Title: "Log in",
			Flash: &session.Flash{Kind: "danger", Message: "Invalid credentials."},
			Form:  map[string]string{"username": username},
		})
		return
	}

	if err := h.sessions.Set(w, user.Username); err != nil {
		h.serverError(w, r, err)
		return
	}
	session.SetFlash(w, "success", "Successfully logged in!")
	http.Redirect(w, r, "/users/"+user.Username, http.StatusSeeOther)
}

// Logout handles GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	session.SetFlash(w, "success", "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}
