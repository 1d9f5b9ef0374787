package remoteidp

// Package remoteidp implements the IdentityProvider port against an
// OIDC-compatible backend. Sign-in uses the resource-owner password grant;
// returned ID tokens are verified against the issuer's published keys.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
)

// ProviderConfig holds configuration for the remote identity provider.
type ProviderConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Scope        string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// Provider implements ports.IdentityProvider. It tracks at most one live
// provider session and broadcasts session transitions to subscribers.
// Event delivery is serialized; subscribers never run concurrently.
type Provider struct {
	config     *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	httpClient *http.Client

	mu      sync.Mutex
	current *domainauth.RemoteSession
	token   *oauth2.Token

	subMu   sync.Mutex
	subs    map[int]func(domainauth.SessionEvent, *domainauth.RemoteSession)
	nextSub int

	// deliverMu serializes callback invocation so overlapping provider
	// events are observed one at a time, matching the collaborator contract.
	deliverMu sync.Mutex
}

// NewProvider creates a remote identity provider client. Discovery runs once
// at construction.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		httpClient: httpClient,
		subs:       make(map[int]func(domainauth.SessionEvent, *domainauth.RemoteSession)),
	}, nil
}

// SignInWithPassword exchanges credentials for a provider session and
// notifies subscribers. The secret is never logged.
func (p *Provider) SignInWithPassword(ctx context.Context, identifier, secret string) (domainauth.RemoteSession, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, identifier, secret)
	if err != nil {
		return domainauth.RemoteSession{}, fmt.Errorf("password sign-in: %w", err)
	}

	sess, err := p.sessionFromToken(ctx, token)
	if err != nil {
		return domainauth.RemoteSession{}, err
	}

	p.mu.Lock()
	p.current = &sess
	p.token = token
	p.mu.Unlock()

	p.notify(domainauth.EventSignedIn, &sess)
	return sess, nil
}

// CurrentSession returns the live provider session, refreshing it when the
// access token has expired and a refresh token is available.
func (p *Provider) CurrentSession(ctx context.Context) (*domainauth.RemoteSession, error) {
	p.mu.Lock()
	current, token := p.current, p.token
	p.mu.Unlock()

	if current == nil {
		return nil, nil
	}
	if current.Live() {
		out := *current
		return &out, nil
	}
	if token == nil || token.RefreshToken == "" {
		return nil, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	fresh, err := p.config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	sess, err := p.sessionFromToken(ctx, fresh)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.current = &sess
	p.token = fresh
	p.mu.Unlock()

	p.notify(domainauth.EventTokenRefreshed, &sess)
	out := sess
	return &out, nil
}

// OnSessionChange registers a session-transition callback. The current state
// is delivered immediately as an initial event so subscribers need not race
// the startup check.
func (p *Provider) OnSessionChange(fn func(domainauth.SessionEvent, *domainauth.RemoteSession)) func() {
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subMu.Unlock()

	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	p.deliver(fn, domainauth.EventInitial, current)

	return func() {
		p.subMu.Lock()
		delete(p.subs, id)
		p.subMu.Unlock()
	}
}

// SignOut revokes the provider session when a revocation endpoint is known
// and always clears local session state and notifies subscribers.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.current = nil
	p.token = nil
	p.mu.Unlock()

	p.notify(domainauth.EventSignedOut, nil)

	if token == nil {
		return nil
	}
	return p.revoke(ctx, token)
}

// sessionFromToken verifies the embedded ID token and extracts the
// provider-side user id and email.
func (p *Provider) sessionFromToken(ctx context.Context, token *oauth2.Token) (domainauth.RemoteSession, error) {
	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.RemoteSession{}, errors.New("token response missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.RemoteSession{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return domainauth.RemoteSession{}, fmt.Errorf("parse id token claims: %w", err)
	}

	return domainauth.RemoteSession{
		UserID:       idToken.Subject,
		Email:        claims.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// notify delivers an event to all subscribers, one at a time.
func (p *Provider) notify(event domainauth.SessionEvent, sess *domainauth.RemoteSession) {
	p.subMu.Lock()
	fns := make([]func(domainauth.SessionEvent, *domainauth.RemoteSession), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		p.deliver(fn, event, sess)
	}
}

func (p *Provider) deliver(fn func(domainauth.SessionEvent, *domainauth.RemoteSession), event domainauth.SessionEvent, sess *domainauth.RemoteSession) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()
	if sess != nil {
		copied := *sess
		fn(event, &copied)
		return
	}
	fn(event, nil)
}

// revoke posts the refresh token to the issuer's revocation endpoint when
// one is advertised. Missing endpoints are not an error.
func (p *Provider) revoke(ctx context.Context, token *oauth2.Token) error {
	if token.RefreshToken == "" {
		return nil
	}
	endpoint := strings.TrimSuffix(p.config.Endpoint.TokenURL, "/token") + "/revoke"

	form := strings.NewReader("token=" + token.RefreshToken + "&token_type_hint=refresh_token")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, form)
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("revoke token: unexpected status %d", resp.StatusCode)
	}
	return nil
}
