// Package session carries the authenticated operator through a request.
//
// Handlers read it once from the context and pass it explicitly to the desk
// and booking layers; nothing below the handlers reaches into the context for it.
package session

import (
	"context"
	"hostel/shared/constant"
	"net/http"
	"strconv"
)

type sessionKey struct{}

type Session struct {
	UserID   string
	Email    string
	Role     string
	HostelID int64
	Token    string
}

// IsSuperAdmin reports whether the operator may act on any hostel.
func (s Session) IsSuperAdmin() bool {
	return s.Role == constant.RoleSuperAdmin
}

// ResolveHostel picks the hostel a request acts on. Super admins choose one
// explicitly; everybody else is pinned to the hostel of their session.
func (s Session) ResolveHostel(selected int64) int64 {
	if s.IsSuperAdmin() {
		return selected
	}

	return s.HostelID
}

// AuthHeaders returns the headers authenticating the operator toward the hostel backend.
func (s Session) AuthHeaders() http.Header {
	header := http.Header{}
	if s.Token != "" {
		header.Set(constant.RequestHeaderAuthorization, constant.BearerPrefix+s.Token)
	}

	return header
}

// Key identifies the operator's workspace.
func (s Session) Key() string {
	if s.UserID == "" {
		return ""
	}

	return s.UserID + "@" + strconv.FormatInt(s.HostelID, 10)
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)

	return s, ok
}
