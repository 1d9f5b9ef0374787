package config

import (
	"fmt"
	"strings"
)

// IdentifierField selects which local credential field a submitted login
// identifier is matched against.
type IdentifierField string

const (
	// IdentifierEmail matches the identifier against the record email.
	IdentifierEmail IdentifierField = "email"
	// IdentifierUsername matches the identifier against the record username.
	IdentifierUsername IdentifierField = "username"
)

// UnmarshalText implements encoding.TextUnmarshaler for IdentifierField.
func (f *IdentifierField) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "email", "username":
		*f = IdentifierField(v)
		return nil
	default:
		return fmt.Errorf("invalid IdentifierField: %q (valid options: email, username)", v)
	}
}

// RemoteIdPConfig contains configuration for the remote identity provider.
// Sign-in uses the OAuth2 resource-owner password grant against the issuer;
// ID tokens are verified with the issuer's published keys.
type RemoteIdPConfig struct {
	IssuerURL    string `env:"ISSUER_URL"`
	ClientID     string `env:"CLIENT_ID"     envDefault:"hrbrew"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`

	// AdminURL and AdminToken configure the privileged admin endpoint used
	// to reset user passwords. The token is a service credential and must
	// never be logged.
	AdminURL   string `env:"ADMIN_URL"`
	AdminToken string `env:"ADMIN_TOKEN"`
}

// LocalUserConfig describes one entry of the local fallback credential table.
// Entries are parsed from HRBREW_LOCAL_USERS as semicolon-separated records
// of comma-separated fields: id,username,email,password,admin,fullName,department.
type LocalUserConfig struct {
	Raw []string `env:"LOCAL_USERS" envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Remote identity provider configuration.
	Remote RemoteIdPConfig `envPrefix:"IDP_"`

	// Local fallback credential table.
	Local LocalUserConfig `envPrefix:"HRBREW_"`

	// Identifier selects the local credential field logins match against.
	Identifier IdentifierField `env:"AUTH_IDENTIFIER_FIELD" envDefault:"email"`

	// SessionTTL is the lifetime of server-side sessions, in minutes.
	SessionTTLMinutes int `env:"AUTH_SESSION_TTL_MINUTES" envDefault:"480"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Identifier == "" {
		a.Identifier = IdentifierEmail
	}
	if a.SessionTTLMinutes <= 0 {
		a.SessionTTLMinutes = 480
	}
}
