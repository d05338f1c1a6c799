package security

import "golang.org/x/crypto/bcrypt"

// AdminKeyVerifier checks the key presented on admin routes against a bcrypt
// hash from config. An empty hash disables the admin entry point.
type AdminKeyVerifier struct {
	hash []byte
}

func NewAdminKeyVerifier(hash string) *AdminKeyVerifier {
	return &AdminKeyVerifier{hash: []byte(hash)}
}

func (v *AdminKeyVerifier) Enabled() bool {
	return len(v.hash) > 0
}

func (v *AdminKeyVerifier) Verify(key string) bool {
	if !v.Enabled() || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(key)) == nil
}

// HashAdminKey produces the value for ADMIN_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}
