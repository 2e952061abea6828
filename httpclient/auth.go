package httpclient

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
}

// BearerAuth creates a bearer token auth config.
// An empty token yields nil so that callers can pass an optional token through.
func BearerAuth(token string) *AuthConfig {
	if token == "" {
		return nil
	}
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// NoAuth explicitly disables authentication, overriding any client-level auth.
func NoAuth() *AuthConfig {
	return &AuthConfig{Type: AuthNone}
}

// header returns the Authorization header value, or "" when none applies.
func (a *AuthConfig) header() string {
	if a == nil {
		return ""
	}
	switch a.Type {
	case AuthBearer:
		return "Bearer " + a.Token
	default:
		return ""
	}
}
