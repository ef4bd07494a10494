// Package token generates and validates family invitation tokens.
package token

import googleuuid "github.com/google/uuid"

// New generates a new random invitation token. Tokens are random UUIDs,
// unguessable and unique across invitations.
func New() string {
	return googleuuid.NewString()
}

// Parse validates and canonicalizes a token string. Accepted tokens are
// stored and compared in their canonical lowercase form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}
