package forum

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const adminCost = 12

// ErrAdminDenied is returned for missing or wrong admin credentials.
var ErrAdminDenied = errors.New("admin credentials rejected")

// Admin guards the demo maintenance endpoints with a single bcrypt-hashed
// password.
type Admin struct {
	Hash []byte
}

// HashPassword returns the bcrypt hash to put in the admin config.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), adminCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewAdmin returns nil for an empty hash, which disables admin access.
func NewAdmin(hash string) *Admin {
	if hash == "" {
		return nil
	}
	return &Admin{Hash: []byte(hash)}
}

// Authorize checks the basic-auth password on r. The user name is ignored.
// A wrong or absent password is ErrAdminDenied; any other error means the
// configured hash is unusable.
func (a *Admin) Authorize(r *http.Request) error {
	_, password, ok := r.BasicAuth()
	if !ok {
		return ErrAdminDenied
	}
	err := bcrypt.CompareHashAndPassword(a.Hash, []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrAdminDenied
	default:
		return fmt.Errorf("bad admin password hash: %w", err)
	}
}
