package forum

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuthorize(t *testing.T) {
	hash, err := HashPassword("mandi-2024")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, adminCost, cost)

	admin := NewAdmin(hash)
	require.NotNil(t, admin)

	tests := []struct {
		name     string
		password string
		setAuth  bool
		wantErr  error
	}{
		{"correct password", "mandi-2024", true, nil},
		{"wrong password", "wrong", true, ErrAdminDenied},
		{"no credentials", "", false, ErrAdminDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/admin/seed", nil)
			if tt.setAuth {
				req.SetBasicAuth("admin", tt.password)
			}
			err := admin.Authorize(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	assert.Nil(t, NewAdmin(""))
}

func TestAdminMalformedHash(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/admin/seed", nil)
	req.SetBasicAuth("admin", "x")
	err := NewAdmin("not-a-bcrypt-hash").Authorize(req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAdminDenied)
}
