// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"net/http"
	"os"
)

type (
	// Authentication decorates outgoing requests with credentials.
	Authentication interface {
		Apply(req *http.Request)
	}

	// TokenAuthentication sends "Authorization: Token <token>".
	TokenAuthentication struct {
		Token string
	}
)

// Apply sets the Authorization header. An empty token leaves req untouched.
func (a TokenAuthentication) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Token "+a.Token)
}

// TokenFromEnv returns a TokenAuthentication reading the token from the
// environment variable name, or nil when the variable is unset or empty.
func TokenFromEnv(name string) Authentication {
	if name == "" {
		return nil
	}
	token := os.Getenv(name)
	if token == "" {
		return nil
	}
	return TokenAuthentication{Token: token}
}
