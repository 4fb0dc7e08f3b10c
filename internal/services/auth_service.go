package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/identity"
	"olstar_backend/internal/models"
	"olstar_backend/internal/stores"
)

// LoginRecorder counts login attempts by result.
type LoginRecorder interface {
	Login(result string)
}

// AuthService runs the admin login: credentials are verified by the
// identity provider, then the email must be verified and the stored role
// must be admin. Every failure carries the same client-facing message;
// only the kind (and so the HTTP status) differs.
type AuthService struct {
	idp      identity.Provider
	users    *stores.UserStore
	recorder LoginRecorder
}

func NewAuthService(idp identity.Provider, users *stores.UserStore, recorder LoginRecorder) *AuthService {
	return &AuthService{idp: idp, users: users, recorder: recorder}
}

func (a *AuthService) Login(ctx context.Context, email, password string) (models.Principal, error) {
	p, err := a.login(ctx, email, password)
	if err != nil {
		logrus.WithFields(logrus.Fields{"email": email}).WithError(err).Warn("admin login rejected")
		a.record(resultOf(err))
		return models.Principal{}, err
	}
	logrus.WithFields(logrus.Fields{"uid": p.UID}).Info("admin login")
	a.record("success")
	return p, nil
}

func (a *AuthService) login(ctx context.Context, email, password string) (models.Principal, error) {
	if email == "" || password == "" {
		return models.Principal{}, apperr.Validation("missing credentials")
	}

	uid, err := a.idp.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return models.Principal{}, apperr.Unauthorized("credentials rejected", err)
		}
		return models.Principal{}, apperr.Downstream("identity provider sign-in failed", err)
	}

	verified, err := a.idp.EmailVerified(ctx, uid)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return models.Principal{}, apperr.Unauthorized("subject vanished after sign-in", err)
		}
		return models.Principal{}, apperr.Downstream("identity provider lookup failed", err)
	}
	if !verified {
		return models.Principal{}, apperr.Forbidden("email not verified", nil)
	}

	role, err := a.users.Role(ctx, uid)
	if err != nil {
		return models.Principal{}, err
	}
	if role != models.RoleAdmin {
		return models.Principal{}, apperr.Forbidden("role is not admin", nil)
	}

	return models.Principal{UID: uid, Email: email, Role: models.RoleAdmin}, nil
}

func (a *AuthService) record(result string) {
	if a.recorder != nil {
		a.recorder.Login(result)
	}
}

func resultOf(err error) string {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return "error"
	}
	switch e.Kind {
	case apperr.KindValidation:
		return "invalid"
	case apperr.KindUnauthorized:
		return "unauthorized"
	case apperr.KindForbidden:
		return "forbidden"
	default:
		return "error"
	}
}
