package session_test

import (
	"context"
	"hostel/shared/constant"
	"hostel/shared/session"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_ResolveHostel(t *testing.T) {
	admin := session.Session{UserID: "u1", Role: constant.RoleAdmin, HostelID: 7}
	super := session.Session{UserID: "u2", Role: constant.RoleSuperAdmin}

	assert.Equal(t, int64(7), admin.ResolveHostel(9), "admins stay on their hostel")
	assert.Equal(t, int64(9), super.ResolveHostel(9))
	assert.Equal(t, int64(0), super.ResolveHostel(0))
}

func TestSession_AuthHeaders(t *testing.T) {
	s := session.Session{Token: "abc"}
	assert.Equal(t, "Bearer abc", s.AuthHeaders().Get(constant.RequestHeaderAuthorization))

	assert.Empty(t, session.Session{}.AuthHeaders().Get(constant.RequestHeaderAuthorization))
}

func TestSession_Context(t *testing.T) {
	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	s := session.Session{UserID: "u1", HostelID: 7}
	got, ok := session.FromContext(session.WithSession(context.Background(), s))

	assert.True(t, ok)
	assert.Equal(t, s, got)
	assert.Equal(t, "u1@7", got.Key())
}
