package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"resumeforge/internal/errors"
	"resumeforge/internal/storage"
)

// Registration is a new account request
type Registration struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// Session is returned after registration or login
type Session struct {
	Token string        `json:"token"`
	User  *storage.User `json:"user"`
}

// Accounts registers users and exchanges credentials for tokens
type Accounts struct {
	store     storage.Store
	passwords Passwords
	tokens    *Tokens
}

// NewAccounts creates an Accounts service
func NewAccounts(store storage.Store, passwords Passwords, tokens *Tokens) *Accounts {
	return &Accounts{store: store, passwords: passwords, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and signs a token for it
func (a *Accounts) Register(ctx context.Context, reg Registration) (*Session, error) {
	email := normalizeEmail(reg.Email)
	if _, err := a.store.GetUserByEmail(ctx, email); err == nil {
		return nil, errors.NewValidationError(errors.ErrCodeConflict, "an account with this email already exists", nil)
	} else if !stderrors.Is(err, storage.ErrNotFound) {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to look up user", err)
	}

	hash, err := a.passwords.Hash(reg.Password)
	if stderrors.Is(err, ErrPasswordTooLong) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("password must be at most %d bytes", a.passwords.MaxLength()), err)
	}
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInternal, "failed to hash password", err)
	}
	u := &storage.User{
		Email:        email,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		PasswordHash: hash,
	}
	if err := a.store.CreateUser(ctx, u); err != nil {
		if stderrors.Is(err, storage.ErrConflict) {
			return nil, errors.NewValidationError(errors.ErrCodeConflict, "an account with this email already exists", err)
		}
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to create user", err)
	}
	return a.session(u)
}

// Login verifies the credentials. Unknown emails and wrong passwords fail alike.
func (a *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := a.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NewAuthError(errors.ErrCodeUnauthorized, "invalid email or password", nil)
		}
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to look up user", err)
	}
	if !a.passwords.Verify(password, u.PasswordHash) {
		return nil, errors.NewAuthError(errors.ErrCodeUnauthorized, "invalid email or password", nil)
	}
	return a.session(u)
}

// Me returns the authenticated user
func (a *Accounts) Me(ctx context.Context, userID string) (*storage.User, error) {
	u, err := a.store.GetUser(ctx, userID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NewAuthError(errors.ErrCodeUnauthorized, "user no longer exists", nil)
		}
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to load user", err)
	}
	return u, nil
}

func (a *Accounts) session(u *storage.User) (*Session, error) {
	token, err := a.tokens.Issue(u.ID)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInternal, "failed to issue token", err)
	}
	return &Session{Token: token, User: u}, nil
}
