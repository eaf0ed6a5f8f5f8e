package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value in constant time.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// Hasher hashes passwords at a fixed cost. It keeps a decoy hash of the same cost so that a
// lookup miss can spend the same bcrypt work as a password mismatch.
type Hasher struct {
	cost  int
	decoy string
}

// NewHasher builds a hasher and precomputes its decoy hash.
func NewHasher(cost int) (*Hasher, error) {
	decoy, err := HashPassword("decoy-password-never-matches", cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{cost: cost, decoy: decoy}, nil
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	return HashPassword(password, h.cost)
}

// Compare reports whether plain matches hashed.
func (h *Hasher) Compare(hashed, plain string) bool {
	return ComparePassword(hashed, plain) == nil
}

// CompareDecoy burns one comparison against the decoy hash. The result is discarded.
func (h *Hasher) CompareDecoy(plain string) {
	_ = ComparePassword(h.decoy, plain)
}
