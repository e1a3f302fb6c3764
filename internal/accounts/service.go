package accounts

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	pkgerrors "github.com/shopmartlabs/shopmart-backend/pkg/errors"
	"github.com/shopmartlabs/shopmart-backend/pkg/models"
)

// AccountRepository is the persistence surface the service needs.
type AccountRepository interface {
	FindByEmail(ctx context.Context, kind Kind, email string) (*models.Account, error)
	Insert(ctx context.Context, kind Kind, account *models.Account) (*models.Account, error)
}

// ServiceParams groups dependencies for the accounts service.
type ServiceParams struct {
	Repo AccountRepository
}

// SignupInput carries the fields accepted on registration.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Service exposes signup and login for both account kinds.
type Service interface {
	Signup(ctx context.Context, kind Kind, input SignupInput) (*models.Account, error)
	Login(ctx context.Context, kind Kind, email, password string) (*models.Account, error)
}

type service struct {
	repo AccountRepository
}

// NewService builds an accounts service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "account repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Signup registers a new account. Emails are normalized to lower case
// and must be unique within the kind's collection.
func (s *service) Signup(ctx context.Context, kind Kind, input SignupInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	_, err := s.repo.FindByEmail(ctx, kind, email)
	if err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	account := &models.Account{
		Name:     name,
		Email:    email,
		Password: input.Password,
	}
	created, err := s.repo.Insert(ctx, kind, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}
	return created, nil
}

// Login checks the stored credential. Passwords are compared as stored,
// so the response distinguishes an unknown email from a bad password.
func (s *service) Login(ctx context.Context, kind Kind, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	account, err := s.repo.FindByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	if account.Password != password {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
