package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/avasiliev/feedback-service/internal/models"
	"github.com/avasiliev/feedback-service/internal/repository"
)

// Service handles business logic
type Service struct {
	store repository.Store
	log   *logrus.Logger
}

// NewService initializes a new service
func NewService(store repository.Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Register creates a new user with hashed password. A duplicate username
// surfaces as a field-level ValidationError; the plaintext password is
// never stored or logged.
func (s *Service) Register(username, password, email, firstName, lastName string) (*models.User, error) {
	if errs := ValidateRegistration(username, password, email, firstName, lastName); errs != nil {
		return nil, errs
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ValidationError{"username": "Username taken. Please pick another"}
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Authenticate verifies a username/password pair. It returns nil for an
// unknown username and for a wrong password alike, so callers cannot tell
// the two apart.
func (s *Service) Authenticate(username, password string) *models.User {
	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil
	}
	return user
}

// UserByUsername looks up a user record
func (s *Service) UserByUsername(username string) (*models.User, error) {
	return s.store.FindUserByUsername(username)
}

// DeleteUser removes the user and all of its feedback
func (s *Service) DeleteUser(username string) error {
	if err := s.store.DeleteUser(username); err != nil {
		return err
	}
	s.log.Infof("User deleted: %s", username)
	return nil
}

// FeedbackFor lists all feedback owned by a username
func (s *Service) FeedbackFor(username string) ([]models.Feedback, error) {
	return s.store.FindFeedbackByUsername(username)
}

// FeedbackByID retrieves a single feedback entry
func (s *Service) FeedbackByID(id int64) (*models.Feedback, error) {
	return s.store.FindFeedbackByID(id)
}

// AddFeedback persists a new feedback entry for the owner. Callers are
// responsible for checking that the acting user is the owner.
func (s *Service) AddFeedback(owner, title, content string) (*models.Feedback, error) {
	if errs := ValidateFeedback(title, content); errs != nil {
		return nil, errs
	}

	fb := &models.Feedback{
		Title:    title,
		Content:  content,
		Username: owner,
	}
	if err := s.store.CreateFeedback(fb); err != nil {
		return nil, err
	}

	s.log.Infof("Feedback %d added by %s", fb.ID, owner)
	return fb, nil
}

// EditFeedback rewrites title and content of an existing entry. Callers
// are responsible for the ownership check.
func (s *Service) EditFeedback(id int64, title, content string) (*models.Feedback, error) {
	if errs := ValidateFeedback(title, content); errs != nil {
		return nil, errs
	}

	fb, err := s.store.FindFeedbackByID(id)
	if err != nil {
		return nil, err
	}
	fb.Title = title
	fb.Content = content
	if err := s.store.UpdateFeedback(fb); err != nil {
		return nil, err
	}

	s.log.Infof("Feedback %d updated", id)
	return fb, nil
}

// DeleteFeedback removes a single feedback entry. Callers are responsible
// for the ownership check.
func (s *Service) DeleteFeedback(id int64) error {
	if err := s.store.DeleteFeedback(id); err != nil {
		return err
	}
	s.log.Infof("Feedback %d deleted", id)
	return nil
}
