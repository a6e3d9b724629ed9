package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"bookshop/internal/store"
	"bookshop/internal/util"
	"bookshop/pkg/auth"
	"bookshop/pkg/domain"
)

const (
	minPasswordLen  = 6
	resetTokenTTL   = 30 * time.Minute
	resetTokenBytes = 32
)

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// Register creates a customer account and issues a session token.
func (a *App) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return domain.User{}, "", invalidf("name is required")
	}
	if !validEmail(email) {
		return domain.User{}, "", invalidf("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, "", invalidf("password must be at least %d characters", minPasswordLen)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	now := a.now()
	user := domain.User{
		ID:           util.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.User{}, "", fmt.Errorf("email %s: %w", email, ErrConflict)
		}
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login checks credentials and issues a session token.
func (a *App) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, ok, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("look up user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// ConfirmPassword re-checks the current user's password, used before
// sensitive profile changes.
func (a *App) ConfirmPassword(ctx context.Context, userID, password string) error {
	user, ok, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// UserFromToken resolves a session token to its user.
func (a *App) UserFromToken(ctx context.Context, raw string) (domain.User, error) {
	userID, err := a.tokens.Verify(raw)
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	user, ok, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("look up user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns a user by ID.
func (a *App) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, ok, err := a.store.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("look up user: %w", err)
	}
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// UpdateProfileInput carries optional profile changes; empty fields keep the
// stored value.
type UpdateProfileInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
	Address  string `json:"address"`
}

// UpdateProfile applies the non-empty fields to the user's profile.
func (a *App) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (domain.User, error) {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLen {
			return domain.User{}, invalidf("password must be at least %d characters", minPasswordLen)
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if in.Photo != "" {
		user.Photo = in.Photo
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	user.UpdatedAt = a.now()
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account.
func (a *App) DeleteUser(ctx context.Context, id string) error {
	if _, err := a.GetUser(ctx, id); err != nil {
		return err
	}
	return a.store.DeleteUser(ctx, id)
}

// ChangeAdminStatus promotes or demotes a user.
func (a *App) ChangeAdminStatus(ctx context.Context, userID string, makeAdmin bool) (domain.User, error) {
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if makeAdmin {
		user.Role = domain.RoleAdmin
	} else {
		user.Role = domain.RoleCustomer
	}
	user.UpdatedAt = a.now()
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of users with the given role plus the total
// count under the same filter.
func (a *App) ListUsers(ctx context.Context, role domain.UserRole, pageNo, perPage, search string) ([]domain.User, int64, error) {
	page := store.NormalizePage(pageNo, perPage, store.DefaultListPageSize)
	term, _ := store.SearchTerm(search)
	return a.store.ListUsersByRole(ctx, role, page, term)
}

func hashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword generates a single-use reset secret, stores its hash with a
// 30-minute expiry and mails the reset link. Unknown emails report success
// so the endpoint does not leak account existence.
func (a *App) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return invalidf("a valid email is required")
	}
	user, ok, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if !ok {
		a.logger.Info("password reset requested for unknown email", "email", email)
		return nil
	}
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset secret: %w", err)
	}
	secret := hex.EncodeToString(raw)
	now := a.now()
	token := domain.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetSecret(secret),
		CreatedAt: now,
		ExpiresAt: now.Add(resetTokenTTL),
	}
	if err := a.store.ReplaceResetToken(ctx, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	link := strings.TrimRight(a.frontendURL, "/") + "/reset-password/" + secret
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. "+
			"The link below is valid for 30 minutes:\n\n%s\n\n"+
			"If you did not request this, you can ignore this mail.\n",
		user.Name, link,
	)
	if err := a.mailer.Send(user.Email, "Reset your password", body); err != nil {
		a.logger.Error("reset mail delivery failed", "userId", user.ID, "error", err)
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset secret and sets the new password.
func (a *App) ResetPassword(ctx context.Context, secret, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return invalidf("password must be at least %d characters", minPasswordLen)
	}
	token, ok, err := a.store.GetResetToken(ctx, hashResetSecret(secret))
	if err != nil {
		return fmt.Errorf("look up reset token: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	user, err := a.GetUser(ctx, token.UserID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = a.now()
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return a.store.DeleteResetToken(ctx, token.UserID)
}
