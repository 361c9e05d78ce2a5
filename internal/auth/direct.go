package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"renewer/internal/config"
	"renewer/pkg/browser"
	"renewer/pkg/domain"
	"renewer/pkg/retry"
	"renewer/pkg/serrors"
)

const maxRedirects = 10

// Direct logs in by posting the credentials to the portal API, then hands the
// resulting cookies to a primary engine browser and verifies the portal accepts them.
type Direct struct {
	transport http.RoundTripper
	timeout   time.Duration
	policy    *retry.Policy
	launcher  browser.Launcher
	opts      browser.Options
	portal    Portal
	probe     time.Duration
}

var _ Strategy = (*Direct)(nil)

// NewDirect creates the direct strategy. A nil transport uses http.DefaultTransport.
func NewDirect(
	transport http.RoundTripper,
	timeout time.Duration,
	policy *retry.Policy,
	launcher browser.Launcher,
	opts browser.Options,
	portal Portal,
	probeTimeout time.Duration,
) *Direct {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Direct{
		transport: transport,
		timeout:   timeout,
		policy:    policy,
		launcher:  launcher,
		opts:      opts,
		portal:    portal,
		probe:     probeTimeout,
	}
}

func (d *Direct) Name() string { return config.StrategyDirect }

func (d *Direct) Attempt(ctx context.Context, creds domain.Credentials) (*Session, error) {
	cookies, err := d.login(ctx, creds)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStrategyFailed, err, "direct login failed")
	}

	sess, err := seeded(ctx, d.launcher, d.opts, cookies, d.portal, d.probe)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrStrategyFailed, err, "direct login cookies rejected by the portal")
	}

	return &Session{
		Session: sess,
		Token: domain.SessionToken{
			Cookies:    cookies,
			CapturedAt: time.Now().UTC(),
			Source:     d.Name(),
		},
		Strategy: d.Name(),
	}, nil
}

// login posts the credentials and returns the cookies the API set.
func (d *Direct) login(ctx context.Context, creds domain.Credentials) ([]domain.Cookie, error) {
	apiURL, err := url.Parse(d.portal.APILoginURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse api login url: %w", err)
	}

	type loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	bodyBytes, err := json.Marshal(loginReq{Username: creds.Identity, Password: creds.Secret})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("could not create cookie jar: %w", err)
	}

	// every Set-Cookie of the redirect chain, in arrival order
	var set []*http.Cookie
	client := &http.Client{
		Transport: d.transport,
		Jar:       jar,
		Timeout:   d.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.Response != nil {
				set = append(set, req.Response.Cookies()...)
			}
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}

			return nil
		},
	}

	err = d.policy.Do(ctx, "direct login", func(ctx context.Context) error {
		set = nil

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL.String(), bytes.NewReader(bodyBytes))
		if err != nil {
			return retry.Permanent(fmt.Errorf("could not create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if d.opts.UserAgent != "" {
			req.Header.Set("User-Agent", d.opts.UserAgent)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("could not send request: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("could not read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return retry.Permanent(fmt.Errorf("login rejected with status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(b))))
		}
		set = append(set, resp.Cookies()...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	cookies := toDomainCookies(set, apiURL, time.Now())
	if len(cookies) == 0 {
		return nil, errors.New("login response set no cookies")
	}

	return cookies, nil
}

// toDomainCookies keeps the attributes of each Set-Cookie as the server sent
// them. A later cookie replaces an earlier one with the same name, domain and
// path; deleted and expired cookies are dropped.
func toDomainCookies(set []*http.Cookie, origin *url.URL, now time.Time) []domain.Cookie {
	type key struct{ name, domain, path string }

	index := make(map[key]int, len(set))
	all := make([]domain.Cookie, 0, len(set))
	live := make([]bool, 0, len(set))
	for _, c := range set {
		dc := domain.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		if dc.Domain == "" {
			dc.Domain = origin.Hostname()
		}
		if !strings.HasPrefix(dc.Path, "/") {
			dc.Path = defaultCookiePath(origin.Path)
		}
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now))

		k := key{dc.Name, dc.Domain, dc.Path}
		if i, ok := index[k]; ok {
			all[i], live[i] = dc, !expired

			continue
		}
		index[k] = len(all)
		all = append(all, dc)
		live = append(live, !expired)
	}

	out := make([]domain.Cookie, 0, len(all))
	for i, c := range all {
		if live[i] {
			out = append(out, c)
		}
	}

	return out
}

// defaultCookiePath is the directory of the request path (RFC 6265 5.1.4).
func defaultCookiePath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}

	return p[:i]
}
