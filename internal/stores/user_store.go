package stores

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/docstore"
	"olstar_backend/internal/models"
)

const usersPath = "users"

// UserStore reads users/{uid}: staff roles, local credentials and driver
// locations.
type UserStore struct {
	db docstore.Store
}

func NewUserStore(db docstore.Store) *UserStore {
	return &UserStore{db: db}
}

// Role returns the stored role of uid, or "" when none is set.
func (u *UserStore) Role(ctx context.Context, uid string) (string, error) {
	if !docstore.ValidKey(uid) {
		return "", nil
	}
	v, err := u.db.Get(ctx, docstore.Join(usersPath, uid, "role"))
	if err != nil {
		return "", apperr.Downstream("failed to load role", err)
	}
	role, _ := v.(string)
	return role, nil
}

func (u *UserStore) SetRole(ctx context.Context, uid, role string) error {
	if !docstore.ValidKey(uid) {
		return apperr.Validation("invalid uid")
	}
	if err := u.db.Set(ctx, docstore.Join(usersPath, uid, "role"), role); err != nil {
		return apperr.Downstream("failed to save role", err)
	}
	return nil
}

// Get loads one user. It reports false when uid is unknown.
func (u *UserStore) Get(ctx context.Context, uid string) (models.User, bool, error) {
	var user models.User
	if !docstore.ValidKey(uid) {
		return user, false, nil
	}
	ok, err := docstore.GetInto(ctx, u.db, docstore.Join(usersPath, uid), &user)
	if err != nil {
		return user, false, apperr.Downstream("failed to load user", err)
	}
	return user, ok, nil
}

// Put merges user into users/{uid}, leaving fields it does not carry
// (such as currentLocation written by the driver app) alone.
func (u *UserStore) Put(ctx context.Context, uid string, user models.User) error {
	if !docstore.ValidKey(uid) {
		return apperr.Validation("invalid uid")
	}
	fields := map[string]any{
		"email":         user.Email,
		"role":          user.Role,
		"passwordHash":  user.PasswordHash,
		"emailVerified": user.EmailVerified,
	}
	if user.FirstName != "" {
		fields["firstName"] = user.FirstName
	}
	if user.LastName != "" {
		fields["lastName"] = user.LastName
	}
	if err := u.db.Update(ctx, docstore.Join(usersPath, uid), fields); err != nil {
		return apperr.Downstream("failed to save user", err)
	}
	return nil
}

// All returns every user keyed by uid. Records written by other clients
// that do not decode are logged and skipped.
func (u *UserStore) All(ctx context.Context) (map[string]models.User, error) {
	var raw map[string]json.RawMessage
	if _, err := docstore.GetInto(ctx, u.db, usersPath, &raw); err != nil {
		return nil, apperr.Downstream("failed to load users", err)
	}
	users := make(map[string]models.User, len(raw))
	for uid, body := range raw {
		var user models.User
		if err := json.Unmarshal(body, &user); err != nil {
			logrus.WithField("uid", uid).WithError(err).Warn("skipping undecodable user")
			continue
		}
		users[uid] = user
	}
	return users, nil
}

// FindByEmail returns the uid whose email matches (case-insensitive).
func (u *UserStore) FindByEmail(ctx context.Context, email string) (string, models.User, bool, error) {
	users, err := u.All(ctx)
	if err != nil {
		return "", models.User{}, false, err
	}
	for uid, user := range users {
		if strings.EqualFold(user.Email, email) {
			return uid, user, true, nil
		}
	}
	return "", models.User{}, false, nil
}
