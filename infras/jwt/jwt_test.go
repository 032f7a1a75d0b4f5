package jwt_test

import (
	"hostel/config"
	"hostel/infras/jwt"
	"hostel/shared/constant"
	"testing"
	"time"

	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "desk-secret"

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret

	return jwt.New(cfg)
}

func claims(role string, hostelID int64, expiresIn time.Duration) jwt.Claims {
	return jwt.Claims{
		UserID:   "op-1",
		Email:    "desk@hostel.test",
		Role:     role,
		HostelID: hostelID,
		RegisteredClaims: jwtLib.RegisteredClaims{
			ExpiresAt: jwtLib.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func TestService_ValidateToken(t *testing.T) {
	svc := newService()

	tests := []struct {
		name    string
		claims  jwt.Claims
		secret  string
		wantErr error
	}{
		{name: "admin bound to hostel", claims: claims(constant.RoleAdmin, 7, time.Hour), secret: secret},
		{name: "super admin without hostel", claims: claims(constant.RoleSuperAdmin, 0, time.Hour), secret: secret},
		{name: "staff without hostel", claims: claims(constant.RoleStaff, 0, time.Hour), secret: secret, wantErr: jwt.ErrInvalidClaim},
		{name: "expired", claims: claims(constant.RoleAdmin, 7, -time.Minute), secret: secret, wantErr: jwt.ErrExpiredToken},
		{name: "wrong secret", claims: claims(constant.RoleAdmin, 7, time.Hour), secret: "other", wantErr: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.Sign(tt.claims, tt.secret)
			require.NoError(t, err)

			got, err := svc.ValidateToken(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.claims.Role, got.Role)
			assert.Equal(t, tt.claims.HostelID, got.HostelID)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("Token abc")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)
}
