package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/iDrwish/trino-gsheets/internal/logger"
)

// Scopes requested from Google: full Sheets and Drive access, needed to
// create spreadsheets and move them between folders.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

// authorizeTimeout bounds how long the interactive flow waits for the
// user to approve access in the browser.
const authorizeTimeout = 5 * time.Minute

// LoadClientSecret parses an installed-app client secret file into an
// oauth2 config with the exporter's scopes.
func LoadClientSecret(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secret file %s: %w", path, err)
	}
	cfg, err := oauthgoogle.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret file %s: %w", path, err)
	}
	return cfg, nil
}

// Authenticator produces token sources backed by a local token cache
// file, refreshing transparently and falling back to the interactive
// browser flow when no usable token exists.
type Authenticator struct {
	cfg       *oauth2.Config
	tokenPath string
	log       *logger.Logger
}

// NewAuthenticator creates an Authenticator for the given oauth2 config
// and token cache path.
func NewAuthenticator(cfg *oauth2.Config, tokenPath string, log *logger.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, tokenPath: tokenPath, log: log}
}

// TokenSource returns a token source for API clients. A cached token is
// used when present; expired access tokens are refreshed transparently
// via the refresh token and the cache file is rewritten afterwards. If
// no usable token exists the interactive flow runs once.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := a.loadToken()
	if err != nil {
		a.log.Info("No usable cached token (%v), starting authorisation flow", err)
		tok, err = a.Authorize(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		a.log.Info("Loaded cached token from %s", a.tokenPath)
	}

	base := a.cfg.TokenSource(ctx, tok)
	return &persistingTokenSource{
		src:  oauth2.ReuseTokenSource(tok, base),
		auth: a,
		last: tok.AccessToken,
	}, nil
}

// Authorize runs the interactive browser flow: local callback server,
// consent URL, code exchange. The resulting token is written to the
// cache file before returning.
func (a *Authenticator) Authorize(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	srv := NewCallbackServer(0, state)
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer srv.Stop()

	cfg := *a.cfg
	cfg.RedirectURL = srv.RedirectURI()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	a.log.Info("Opening browser for Google authorisation")
	if err := OpenBrowser(authURL); err != nil {
		a.log.Warn("Could not open browser automatically: %v", err)
	}
	a.log.Info("If the browser did not open, visit:\n%s", authURL)

	code, err := srv.WaitForCode(authorizeTimeout)
	if err != nil {
		return nil, fmt.Errorf("wait for authorisation: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorisation code: %w", err)
	}

	if err := a.saveToken(tok); err != nil {
		return nil, err
	}
	a.log.Info("Token saved to %s", a.tokenPath)
	return tok, nil
}

// loadToken reads the cached token. It returns ErrNoToken when the file
// is absent or the token carries neither a valid access token nor a
// refresh token.
func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("read token file %s: %w", a.tokenPath, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", a.tokenPath, err)
	}
	if !tok.Valid() && tok.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}

// saveToken writes the token cache file with owner-only permissions.
func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("write token file %s: %w", a.tokenPath, err)
	}
	return nil
}

// persistingTokenSource rewrites the cache file whenever the underlying
// source hands back a refreshed access token.
type persistingTokenSource struct {
	src  oauth2.TokenSource
	auth *Authenticator
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		if err := p.auth.saveToken(tok); err != nil {
			p.auth.log.Warn("Could not persist refreshed token: %v", err)
		} else {
			p.last = tok.AccessToken
		}
	}
	return tok, nil
}
