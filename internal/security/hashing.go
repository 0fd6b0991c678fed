package security

import "golang.org/x/crypto/bcrypt"

// Hasher stores account passwords as bcrypt hashes.
type Hasher struct {
	Cost int
}

// NewHasher clamps cost into bcrypt's accepted range. A non-positive cost
// selects bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	switch {
	case cost <= 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash returns the bcrypt encoding of password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether password hashes to stored. Malformed hashes never match.
func (h *Hasher) Matches(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
