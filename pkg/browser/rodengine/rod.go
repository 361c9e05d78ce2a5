// Package rodengine implements browser.Launcher with go-rod. It is the
// secondary engine: its own launcher, its own stealth page setup and its own
// input pipeline, so a fingerprint rejected under chromedp gets a second chance.
package rodengine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"renewer/pkg/browser"
	"renewer/pkg/domain"
	"renewer/pkg/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// Name is the engine name used in configuration.
const Name = "rod"

const defaultNavigationTimeout = 60 * time.Second

// Launcher starts go-rod sessions.
type Launcher struct {
	execPath string
}

var _ browser.Launcher = (*Launcher)(nil)

// New creates a Launcher. An empty execPath lets rod find or download a browser.
func New(execPath string) *Launcher {
	return &Launcher{execPath: execPath}
}

func (l *Launcher) Name() string { return Name }

func (l *Launcher) Launch(ctx context.Context, opts browser.Options) (browser.Session, error) {
	ln := launcher.New().
		Context(context.WithoutCancel(ctx)).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled")
	if l.execPath != "" {
		ln = ln.Bin(l.execPath)
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		ln = ln.Set("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight))
	}

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	s := &Session{
		release: func() {
			ln.Kill()
			ln.Cleanup()
		},
		humanize:   opts.Humanize,
		navTimeout: opts.NavigationTimeout,
	}
	if s.navTimeout <= 0 {
		s.navTimeout = defaultNavigationTimeout
	}

	if err := s.connect(ctx, controlURL, opts); err != nil {
		_ = s.Close()

		return nil, err
	}

	return s, nil
}

// Session is a go-rod page.
type Session struct {
	// release kills the browser process and removes its profile dir.
	release    func()
	browser    *rod.Browser
	page       *rod.Page
	closeOnce  sync.Once
	humanize   bool
	navTimeout time.Duration
	mouse      browser.Point
}

var _ browser.Session = (*Session)(nil)

func (s *Session) connect(ctx context.Context, controlURL string, opts browser.Options) error {
	s.browser = rod.New().ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		return fmt.Errorf("could not connect to browser: %w", err)
	}

	p, err := stealth.Page(s.browser)
	if err != nil {
		return fmt.Errorf("could not open stealth page: %w", err)
	}
	s.page = p

	if opts.UserAgent != "" {
		if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			return fmt.Errorf("could not set user agent: %w", err)
		}
	}

	if len(opts.Cookies) > 0 {
		if err := p.SetCookies(toCookieParams(opts.Cookies)); err != nil {
			return fmt.Errorf("could not set cookies: %w", err)
		}
	}

	logger.Debug(ctx, "rod browser connected", zap.String("controlURL", controlURL))

	return nil
}

// on returns the page bound to ctx, further limited by timeout when positive.
func (s *Session) on(ctx context.Context, timeout time.Duration) (*rod.Page, context.CancelFunc) {
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, timeout)

		return s.page.Context(ctx), cancel
	}

	return s.page.Context(ctx), func() {}
}

func (s *Session) element(p *rod.Page, sel string) (*rod.Element, error) {
	if browser.IsXPath(sel) {
		return p.ElementX(sel)
	}

	return p.Element(sel)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	p, cancel := s.on(ctx, s.navTimeout)
	defer cancel()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("could not load %s: %w", url, err)
	}

	return nil
}

func (s *Session) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	p, cancel := s.on(ctx, timeout)
	defer cancel()

	el, err := s.element(p, sel)
	if err != nil {
		return fmt.Errorf("%s not found: %w", sel, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("%s not visible: %w", sel, err)
	}

	return nil
}

func (s *Session) Exists(ctx context.Context, sel string) (bool, error) {
	var found bool
	if err := s.Evaluate(ctx, browser.ExistsScript(sel), &found); err != nil {
		return false, err
	}

	return found, nil
}

func (s *Session) Click(ctx context.Context, sel string) error {
	p, cancel := s.on(ctx, s.navTimeout)
	defer cancel()

	el, err := s.element(p, sel)
	if err != nil {
		return fmt.Errorf("%s not found: %w", sel, err)
	}

	if s.humanize {
		if err := s.hover(ctx, p, sel); err != nil {
			return err
		}
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("could not click %s: %w", sel, err)
	}

	return nil
}

func (s *Session) hover(ctx context.Context, p *rod.Page, sel string) error {
	var target *browser.Point
	if err := s.Evaluate(ctx, browser.CenterScript(sel), &target); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("could not locate %s", sel)
	}

	for _, pt := range browser.MousePath(s.mouse, *target, browser.MouseSteps) {
		if err := p.Mouse.MoveTo(proto.Point{X: pt.X, Y: pt.Y}); err != nil {
			return fmt.Errorf("could not move pointer: %w", err)
		}
		if err := browser.Pause(ctx, browser.Jitter(5*time.Millisecond, 25*time.Millisecond)); err != nil {
			return err
		}
	}
	s.mouse = *target

	return browser.Pause(ctx, browser.Jitter(browser.MinActionPause, browser.MaxActionPause))
}

func (s *Session) Check(ctx context.Context, sel string) error {
	return browser.EnsureChecked(ctx, s, sel)
}

func (s *Session) ClickAndWait(ctx context.Context, sel string, timeout time.Duration) error {
	p, cancel := s.on(ctx, timeout)
	defer cancel()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := s.Click(ctx, sel); err != nil {
		return err
	}
	wait()

	if err := p.GetContext().Err(); err != nil {
		return fmt.Errorf("%w: clicked %s: %w", browser.ErrNoPageLoad, sel, err)
	}

	return nil
}

func (s *Session) Type(ctx context.Context, sel, text string) error {
	p, cancel := s.on(ctx, s.navTimeout)
	defer cancel()

	el, err := s.element(p, sel)
	if err != nil {
		return fmt.Errorf("%s not found: %w", sel, err)
	}

	if !s.humanize {
		if err := el.SelectAllText(); err != nil {
			return fmt.Errorf("could not select %s: %w", sel, err)
		}
		if err := el.Input(text); err != nil {
			return fmt.Errorf("could not type into %s: %w", sel, err)
		}

		return nil
	}

	if err := s.Click(ctx, sel); err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("could not select %s: %w", sel, err)
	}
	if err := el.Input(""); err != nil {
		return fmt.Errorf("could not clear %s: %w", sel, err)
	}

	delays := browser.KeystrokeDelays(text)
	i := 0
	for _, r := range text {
		if err := p.InsertText(string(r)); err != nil {
			return fmt.Errorf("could not type into %s: %w", sel, err)
		}
		if err := browser.Pause(ctx, delays[i]); err != nil {
			return err
		}
		i++
	}

	return nil
}

func (s *Session) PageText(ctx context.Context) (string, error) {
	var text string
	if err := s.Evaluate(ctx, browser.BodyTextScript, &text); err != nil {
		return "", err
	}

	return text, nil
}

func (s *Session) URL(ctx context.Context) (string, error) {
	p, cancel := s.on(ctx, 0)
	defer cancel()

	info, err := p.Info()
	if err != nil {
		return "", fmt.Errorf("could not read location: %w", err)
	}

	return info.URL, nil
}

func (s *Session) Evaluate(ctx context.Context, fn string, out any) error {
	p, cancel := s.on(ctx, 0)
	defer cancel()

	res, err := p.Eval(fn)
	if err != nil {
		return fmt.Errorf("could not evaluate script: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := res.Value.Unmarshal(out); err != nil {
		return fmt.Errorf("could not decode script result: %w", err)
	}

	return nil
}

func (s *Session) Cookies(ctx context.Context) ([]domain.Cookie, error) {
	p, cancel := s.on(ctx, 0)
	defer cancel()

	cookies, err := p.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("could not read cookies: %w", err)
	}

	out := make([]domain.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, domain.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}

	return out, nil
}

func (s *Session) Screenshot(ctx context.Context, path string) error {
	p, cancel := s.on(ctx, 0)
	defer cancel()

	buf, err := p.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("could not capture screenshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("could not create screenshot dir: %w", err)
	}

	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("could not write screenshot: %w", err)
	}

	return nil
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.browser != nil {
			err = s.browser.Close()
		}
		if s.release != nil {
			s.release()
		}
	})

	return err
}

func toCookieParams(cookies []domain.Cookie) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}

	return params
}
