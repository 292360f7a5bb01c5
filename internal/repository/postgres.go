package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/avasiliev/feedback-service/internal/models"
)

// uniqueViolation is the Postgres error code for a unique constraint failure.
const uniqueViolation = "23505"

// Postgres implements Store on top of database/sql with the lib/pq driver.
type Postgres struct {
	db *sql.DB
}

// NewPostgres initializes a new Postgres-backed store
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// FindUserByUsername retrieves a user by username
func (p *Postgres) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT username, password_hash, email, first_name, last_name, created_at
		FROM users
		WHERE username = $1`
	err := p.db.QueryRow(query, username).
		Scan(&user.Username, &user.PasswordHash, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user. A username collision rolls the transaction
// back and returns ErrDuplicateUsername.
func (p *Postgres) CreateUser(user *models.User) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO users (username, password_hash, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err = tx.QueryRow(query, user.Username, user.PasswordHash, user.Email, user.FirstName, user.LastName).
		Scan(&user.CreatedAt)
	if err != nil {
		tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteUser removes the user and cascades to its feedback rows
func (p *Postgres) DeleteUser(username string) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM feedback WHERE username = $1`, username); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete feedback for user: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindFeedbackByUsername lists all feedback owned by a username, oldest first
func (p *Postgres) FindFeedbackByUsername(username string) ([]models.Feedback, error) {
	query := `
		SELECT id, title, content, username, created_at
		FROM feedback
		WHERE username = $1
		ORDER BY id`
	rows, err := p.db.Query(query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var list []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		list = append(list, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return list, nil
}

// FindFeedbackByID retrieves a single feedback row
func (p *Postgres) FindFeedbackByID(id int64) (*models.Feedback, error) {
	fb := &models.Feedback{}
	query := `
		SELECT id, title, content, username, created_at
		FROM feedback
		WHERE id = $1`
	err := p.db.QueryRow(query, id).
		Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username, &fb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	return fb, nil
}

// CreateFeedback inserts a new feedback row and fills in its generated fields
func (p *Postgres) CreateFeedback(fb *models.Feedback) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
		INSERT INTO feedback (title, content, username)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err = tx.QueryRow(query, fb.Title, fb.Content, fb.Username).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateFeedback rewrites title and content of an existing row
func (p *Postgres) UpdateFeedback(fb *models.Feedback) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(`UPDATE feedback SET title = $1, content = $2 WHERE id = $3`, fb.Title, fb.Content, fb.ID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteFeedback removes a single feedback row
func (p *Postgres) DeleteFeedback(id int64) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountFeedbackSince counts feedback rows created at or after the cutoff
func (p *Postgres) CountFeedbackSince(since time.Time) (int, error) {
	var count int
	err := p.db.QueryRow(`SELECT COUNT(*) FROM feedback WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
