package ports

import "context"

// Credentials are what SAS Logon needs to issue a token.
type Credentials struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

func (c Credentials) HasPassword() bool {
	return c.Username != "" && c.Password != ""
}

func (c Credentials) HasClientSecret() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// CredentialSource resolves SAS Viya credentials at start-up.
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// TokenStore persists the SAS Logon refresh token between CLI runs.
type TokenStore interface {
	Save(host, refreshToken string) error
	Load(host string) (string, error)
	Delete(host string) error
}
