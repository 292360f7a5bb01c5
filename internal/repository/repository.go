package repository

import (
	"errors"
	"time"

	"github.com/avasiliev/feedback-service/internal/models"
)

var (
	// ErrNotFound is returned when the requested user or feedback row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when a user insert collides with an existing username.
	ErrDuplicateUsername = errors.New("username already taken")
)

// Store provides persistence for users and their feedback.
type Store interface {
	FindUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
	// DeleteUser removes the user and all feedback owned by it in one transaction.
	DeleteUser(username string) error

	FindFeedbackByUsername(username string) ([]models.Feedback, error)
	FindFeedbackByID(id int64) (*models.Feedback, error)
	CreateFeedback(fb *models.Feedback) error
	UpdateFeedback(fb *models.Feedback) error
	DeleteFeedback(id int64) error

	CountFeedbackSince(since time.Time) (int, error)
}
