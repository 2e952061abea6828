package folksonomy

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/offclient/httpclient"
)

// tokenSeparator splits a Folksonomy access token into user and session.
const tokenSeparator = "__U"

// Token is the answer of a successful Login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User returns the user name encoded in the access token.
func (t Token) User() string {
	user, _, _ := strings.Cut(t.AccessToken, tokenSeparator)
	return user
}

// SessionID returns the session uuid encoded in the access token.
func (t Token) SessionID() (uuid.UUID, error) {
	_, session, ok := strings.Cut(t.AccessToken, tokenSeparator)
	if !ok {
		return uuid.Nil, fmt.Errorf("folksonomy: token has no session part")
	}
	id, err := uuid.Parse(session)
	if err != nil {
		return uuid.Nil, fmt.Errorf("folksonomy: parse session id: %w", err)
	}
	return id, nil
}

// Auth returns the bearer auth for the token, or nil when it is empty.
func (t Token) Auth() *httpclient.AuthConfig {
	return httpclient.BearerAuth(t.AccessToken)
}
