package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/avasiliev/feedback-service/internal/middleware"
)

// NewRouter builds the route table. All mutating routes are POST.
func NewRouter(h *Handler, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/register", h.RegisterForm).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("GET")

	r.HandleFunc("/users/{username}", h.Profile).Methods("GET")
	r.HandleFunc("/users/{username}/delete", h.DeleteUser).Methods("POST")
	r.HandleFunc("/users/{username}/feedback/add", h.AddFeedbackForm).Methods("GET")
	r.HandleFunc("/users/{username}/feedback/add", h.AddFeedback).Methods("POST")
	r.HandleFunc("/users/{username}/feed.atom", h.Feed).Methods("GET")

	r.HandleFunc("/feedback", h.MyFeedback).Methods("GET")
	r.HandleFunc("/feedback", h.SubmitFeedback).Methods("POST")
	r.HandleFunc("/feedback/{id:[0-9]+}/update", h.EditFeedbackForm).Methods("GET")
	r.HandleFunc("/feedback/{id:[0-9]+}/update", h.EditFeedback).Methods("POST")
	r.HandleFunc("/feedback/{id:[0-9]+}/delete", h.DeleteFeedback).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	return r
}
