package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-dashboard/api/models"

	"github.com/google/uuid"
)

// ErrNoUser is returned when an email has no account.
var ErrNoUser = errors.New("no such user")

// Users reads and writes account rows.
type Users struct {
	DB *sql.DB
}

func NewUsers(conn *sql.DB) *Users {
	return &Users{DB: conn}
}

func (u *Users) CreateUser(email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := u.DB.Exec(query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating user %s: %v", email, err)
	}
	return user, nil
}

func (u *Users) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := u.DB.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoUser
		}
		return nil, fmt.Errorf("error fetching user %s: %v", email, err)
	}
	return &user, nil
}

func (u *Users) DeleteUser(id string) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`
	if _, err := u.DB.Exec(query, id); err != nil {
		return fmt.Errorf("error deleting user %s: %v", id, err)
	}
	return nil
}

func (u *Users) EmailTaken(email string) (bool, error) {
	query := `
		SELECT COUNT(1)
		FROM users
		WHERE email = $1
	`
	var count int
	if err := u.DB.QueryRow(query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking email %s: %v", email, err)
	}
	return count > 0, nil
}
