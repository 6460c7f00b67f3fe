package user

import (
	"database/sql"
	"errors"
	"strings"

	"credit_scoring/internal/auth"
	"credit_scoring/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserServiceInterface interface {
	Register(name, email, password string) (int, error)
	Login(email, password, jwtSecret string) (*auth.TokenPair, *User, error)
	GetUserByID(id int) (*User, error)
}

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// Register creates a new user with a hashed password. Emails are stored
// lowercased so the unique index catches case variants.
func (s *UserService) Register(name, email, password string) (int, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, err := s.repo.GetByEmail(s.db, email); err == nil && existing != nil {
		return 0, ErrEmailTaken
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return 0, errors.New("failed to hash password")
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     DefaultRole,
	}

	var id int
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		createdID, err := s.repo.Create(tx, u)
		if err != nil {
			return err
		}
		id = createdID
		return nil
	}); err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return 0, err
	}

	return id, nil
}

// Login verifies credentials and issues a token pair. Lookup failure and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(email, password, jwtSecret string) (*auth.TokenPair, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(s.db, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := auth.ComparePasswordHash([]byte(u.Password), password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := auth.GenerateTokenPair(u.ID, u.Email, jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	return tokens, u, nil
}

func (s *UserService) GetUserByID(id int) (*User, error) {
	return s.repo.GetByID(s.db, id)
}
