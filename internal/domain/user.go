package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// User is the minimal identity record kept in its own storage slot.
// Login is simulated: there is no credential and no remote account.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Defaults used when a mock login does not name the user.
const (
	DefaultUserName  = "김여행"
	DefaultUserEmail = "traveler@example.com"
)

// avatarURL is the generated-avatar service used for mock users.
const avatarURL = "https://api.dicebear.com/9.x/avataaars/svg?seed=%d"

// NewUser builds a mock identity. Empty name or email fall back to the defaults.
func NewUser(name, email string) User {
	if strings.TrimSpace(name) == "" {
		name = DefaultUserName
	}
	if strings.TrimSpace(email) == "" {
		email = DefaultUserEmail
	}
	return User{
		ID:     "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9],
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Avatar: fmt.Sprintf(avatarURL, rand.IntN(1000)),
	}
}
