package gate

import (
	"slices"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is a username/password pair presented to Authenticate.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the subject of an authorization check.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Action is the operation a user asks to perform.
type Action struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
}

// Authenticator decides whether credentials are valid. The gate ships a
// static placeholder; a real credential backend plugs in here without
// touching the scanning pipeline.
type Authenticator interface {
	Authenticate(creds Credentials) bool
}

// Authorizer decides whether a user may perform an action.
type Authorizer interface {
	Authorize(user User, action Action) bool
}

// StaticAuthenticator matches a single fixed username/password pair. The
// password is held as a bcrypt hash, but this is still a binary comparison
// against one credential, not real authentication infrastructure.
type StaticAuthenticator struct {
	username     string
	passwordHash []byte
}

// NewStaticAuthenticator hashes the password and returns the placeholder
// authenticator.
func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticAuthenticator{username: username, passwordHash: hash}, nil
}

// Authenticate reports whether the credentials match the fixed pair.
func (a *StaticAuthenticator) Authenticate(creds Credentials) bool {
	if creds.Username != a.username {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(creds.Password)) == nil
}

// PermissionAuthorizer allows an action when its type appears in the user's
// permission list.
type PermissionAuthorizer struct{}

// Authorize reports whether the user holds the action's type as a
// permission.
func (PermissionAuthorizer) Authorize(user User, action Action) bool {
	return slices.Contains(user.Permissions, action.Type)
}
