package viya

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

const (
	TokenPath = "/SASLogon/oauth/token"
	// DefaultClientID is the public client SAS registers for its own CLI.
	DefaultClientID = "sas.cli"
)

// Session is an authenticated token source plus the refresh token SAS Logon
// issued, if any.
type Session struct {
	TokenSource  oauth2.TokenSource
	RefreshToken string
}

func oauthConfig(baseURL string, creds ports.Credentials) *oauth2.Config {
	clientID := creds.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  strings.TrimRight(baseURL, "/") + TokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// Login exchanges credentials for tokens. A username and password use the
// password grant; otherwise a client id and secret use client credentials.
// httpClient carries the TLS settings for SAS Logon and may be nil.
func Login(ctx context.Context, baseURL string, creds ports.Credentials, httpClient *http.Client) (*Session, error) {
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	switch {
	case creds.HasPassword():
		cfg := oauthConfig(baseURL, creds)
		tok, err := cfg.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
		if err != nil {
			return nil, loginError(err)
		}
		log.WithFields(log.Fields{"user": creds.Username, "client_id": cfg.ClientID}).Info("Authenticated with SAS Logon")
		return &Session{TokenSource: cfg.TokenSource(ctx, tok), RefreshToken: tok.RefreshToken}, nil

	case creds.HasClientSecret():
		cc := clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     strings.TrimRight(baseURL, "/") + TokenPath,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		ts := oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx))
		if _, err := ts.Token(); err != nil {
			return nil, loginError(err)
		}
		log.WithField("client_id", creds.ClientID).Info("Authenticated with SAS Logon")
		return &Session{TokenSource: ts}, nil

	default:
		return nil, domain.ErrNoCredentials
	}
}

// Resume builds a session from a stored refresh token. The token is checked
// immediately so an expired one is reported before any API call.
func Resume(ctx context.Context, baseURL, clientID, refreshToken string, httpClient *http.Client) (*Session, error) {
	if refreshToken == "" {
		return nil, domain.ErrNoCredentials
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	cfg := oauthConfig(baseURL, ports.Credentials{ClientID: clientID})
	ts := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := ts.Token()
	if err != nil {
		return nil, loginError(err)
	}
	rt := tok.RefreshToken
	if rt == "" {
		rt = refreshToken
	}
	return &Session{TokenSource: ts, RefreshToken: rt}, nil
}

func loginError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
		return fmt.Errorf("sas logon: %v: %w", err, domain.ErrUnauthorized)
	}
	return fmt.Errorf("sas logon: %v: %w", err, domain.ErrViyaUnavailable)
}
