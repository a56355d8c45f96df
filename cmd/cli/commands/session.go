package commands

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/adapters/secondary/viya"
	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

func (a *app) credentials() ports.Credentials {
	return ports.Credentials{
		Username:     a.cfg.Viya.Username,
		Password:     a.cfg.Viya.Password,
		ClientID:     a.cfg.Viya.ClientID,
		ClientSecret: a.cfg.Viya.ClientSecret,
	}
}

// connect logs on with configured credentials, or resumes the session stored
// by "auth login" when there are none.
func (a *app) connect(ctx context.Context) (*viya.Client, error) {
	session, err := a.session(ctx)
	if err != nil {
		return nil, err
	}
	return viya.NewClient(viya.ConfigFrom(&a.cfg.Viya), session.TokenSource), nil
}

func (a *app) session(ctx context.Context) (*viya.Session, error) {
	url := a.cfg.Viya.URL
	if url == "" {
		return nil, errors.New("SAS Viya URL is required (--url or VIYA_URL)")
	}
	httpClient := viya.NewHTTPClient(viya.ConfigFrom(&a.cfg.Viya))
	creds := a.credentials()

	if creds.HasPassword() || creds.HasClientSecret() {
		session, err := viya.Login(ctx, url, creds, httpClient)
		if err != nil {
			return nil, err
		}
		a.saveToken(session)
		return session, nil
	}

	refresh, err := a.tokens.Load(url)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			return nil, fmt.Errorf("not logged in to %s; run \"viya-mm auth login\": %w", url, err)
		}
		return nil, err
	}
	session, err := viya.Resume(ctx, url, creds.ClientID, refresh, httpClient)
	if err != nil {
		return nil, fmt.Errorf("stored session expired, log in again: %w", err)
	}
	a.saveToken(session)
	return session, nil
}

func (a *app) saveToken(session *viya.Session) {
	if session.RefreshToken == "" {
		return
	}
	if err := a.tokens.Save(a.cfg.Viya.URL, session.RefreshToken); err != nil {
		log.WithError(err).Warn("could not store refresh token")
	}
}
