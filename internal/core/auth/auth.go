// Package auth describes the signed-in user. Establishing the session is the
// job of an external identity provider; hitch only reads it.
package auth

import (
	"context"
	"errors"
	"os/user"
	"strings"
)

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("no active session")

// User is the person operating the dashboard.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Session is the current user plus the credential used for remote calls.
type Session struct {
	User  User
	Token string
}

// Provider supplies the current session.
type Provider interface {
	Session(ctx context.Context) (Session, error)
}

// StaticProvider returns a fixed session, typically built from config.
type StaticProvider struct {
	session Session
	ok      bool
}

// NewStaticProvider returns a provider for the given user and token. When the
// name is empty the operating system account name is used instead; if that is
// unavailable too the provider reports ErrNoSession.
func NewStaticProvider(u User, token string) *StaticProvider {
	if strings.TrimSpace(u.Name) == "" {
		if osUser, err := user.Current(); err == nil {
			u.Name = osUser.Username
			if osUser.Name != "" {
				u.Name = osUser.Name
			}
			if u.ID == "" {
				u.ID = osUser.Uid
			}
		}
	}
	return &StaticProvider{
		session: Session{User: u, Token: token},
		ok:      strings.TrimSpace(u.Name) != "",
	}
}

// Session implements Provider.
func (p *StaticProvider) Session(_ context.Context) (Session, error) {
	if p == nil || !p.ok {
		return Session{}, ErrNoSession
	}
	return p.session, nil
}
