// Package cdp implements browser.Launcher with chromedp, driving a local
// Chrome over the DevTools protocol. It is the primary engine of the renewer.
package cdp

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

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/stealth"
)

// Name is the engine name used in configuration.
const Name = "chromedp"

const defaultNavigationTimeout = 60 * time.Second

// Launcher starts chromedp sessions.
type Launcher struct {
	execPath string
}

var _ browser.Launcher = (*Launcher)(nil)

// New creates a Launcher. An empty execPath lets chromedp find Chrome.
func New(execPath string) *Launcher {
	return &Launcher{execPath: execPath}
}

func (l *Launcher) Name() string { return Name }

// Launch starts Chrome with automation fingerprints removed, installs the
// stealth evasions and the seed cookies, and returns the session.
func (l *Launcher) Launch(ctx context.Context, opts browser.Options) (browser.Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], //nolint: gocritic
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.NoSandbox,
	)
	if l.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(l.execPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}

	// the browser outlives the launch context; Close tears it down
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	sugar := logger.Get(ctx).Sugar()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(sugar.Errorf),
		chromedp.WithLogf(sugar.Debugf),
	)

	s := &Session{
		ctx:        browserCtx,
		cancel:     func() { cancelBrowser(); cancelAlloc() },
		humanize:   opts.Humanize,
		navTimeout: opts.NavigationTimeout,
	}
	if s.navTimeout <= 0 {
		s.navTimeout = defaultNavigationTimeout
	}

	err := s.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		if _, err := page.AddScriptToEvaluateOnNewDocument(stealth.JS).Do(ctx); err != nil {
			return fmt.Errorf("could not install stealth script: %w", err)
		}
		if len(opts.Cookies) == 0 {
			return nil
		}
		if err := network.SetCookies(toCookieParams(opts.Cookies)).Do(ctx); err != nil {
			return fmt.Errorf("could not set cookies: %w", err)
		}

		return nil
	}))
	if err != nil {
		_ = s.Close()

		return nil, fmt.Errorf("could not start chrome: %w", err)
	}

	return s, nil
}

// Session is a chromedp tab.
type Session struct {
	ctx        context.Context //nolint: containedctx
	cancel     context.CancelFunc
	closeOnce  sync.Once
	humanize   bool
	navTimeout time.Duration
	mouse      browser.Point
}

var _ browser.Session = (*Session)(nil)

// run executes actions on the tab, bounded by both the caller context and timeout.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return err
	}

	return nil
}

func by(sel string) chromedp.QueryOption {
	if browser.IsXPath(sel) {
		return chromedp.BySearch
	}

	return chromedp.ByQuery
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, s.navTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}

	return nil
}

func (s *Session) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	if err := s.run(ctx, timeout, chromedp.WaitVisible(sel, by(sel))); err != nil {
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
	if s.humanize {
		if err := s.hover(ctx, sel); err != nil {
			return err
		}
	}

	if err := s.run(ctx, s.navTimeout, chromedp.Click(sel, by(sel), chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("could not click %s: %w", sel, err)
	}

	return nil
}

// hover moves the pointer along a bowed path to the center of sel and pauses.
func (s *Session) hover(ctx context.Context, sel string) error {
	var target *browser.Point
	if err := s.Evaluate(ctx, browser.CenterScript(sel), &target); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("could not locate %s", sel)
	}

	path := browser.MousePath(s.mouse, *target, browser.MouseSteps)
	err := s.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, p := range path {
			if err := input.DispatchMouseEvent(input.MouseMoved, p.X, p.Y).Do(ctx); err != nil {
				return err
			}
			if err := browser.Pause(ctx, browser.Jitter(5*time.Millisecond, 25*time.Millisecond)); err != nil {
				return err
			}
		}

		return nil
	}))
	if err != nil {
		return fmt.Errorf("could not move pointer: %w", err)
	}

	s.mouse = *target

	return browser.Pause(ctx, browser.Jitter(browser.MinActionPause, browser.MaxActionPause))
}

func (s *Session) Check(ctx context.Context, sel string) error {
	return browser.EnsureChecked(ctx, s, sel)
}

func (s *Session) ClickAndWait(ctx context.Context, sel string, timeout time.Duration) error {
	loaded := make(chan struct{}, 1)
	listenCtx, stopListening := context.WithCancel(s.ctx)
	defer stopListening()

	chromedp.ListenTarget(listenCtx, func(ev any) {
		if _, ok := ev.(*page.EventLoadEventFired); ok {
			select {
			case loaded <- struct{}{}:
			default:
			}
		}
	})

	if err := s.Click(ctx, sel); err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: clicked %s: %w", browser.ErrNoPageLoad, sel, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: clicked %s, waited %s: %w", browser.ErrNoPageLoad, sel, timeout, context.DeadlineExceeded)
	}
}

func (s *Session) Type(ctx context.Context, sel, text string) error {
	if !s.humanize {
		if err := s.run(ctx, s.navTimeout, chromedp.SetValue(sel, "", by(sel)), chromedp.SendKeys(sel, text, by(sel))); err != nil {
			return fmt.Errorf("could not type into %s: %w", sel, err)
		}

		return nil
	}

	if err := s.Click(ctx, sel); err != nil {
		return err
	}
	if err := s.run(ctx, s.navTimeout, chromedp.SetValue(sel, "", by(sel)), chromedp.Focus(sel, by(sel))); err != nil {
		return fmt.Errorf("could not focus %s: %w", sel, err)
	}

	delays := browser.KeystrokeDelays(text)
	i := 0
	for _, r := range text {
		if err := s.run(ctx, 0, chromedp.KeyEvent(string(r))); err != nil {
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
	var u string
	if err := s.run(ctx, 0, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("could not read location: %w", err)
	}

	return u, nil
}

func (s *Session) Evaluate(ctx context.Context, fn string, out any) error {
	if err := s.run(ctx, 0, chromedp.Evaluate("("+fn+")()", out)); err != nil {
		return fmt.Errorf("could not evaluate script: %w", err)
	}

	return nil
}

func (s *Session) Cookies(ctx context.Context) ([]domain.Cookie, error) {
	var cookies []*network.Cookie
	err := s.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)

		return err
	}))
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
	var buf []byte
	if err := s.run(ctx, 0, chromedp.FullScreenshot(&buf, 100)); err != nil {
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
		err = chromedp.Cancel(s.ctx)
		s.cancel()
	})

	return err
}

func toCookieParams(cookies []domain.Cookie) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &network.CookieParam{
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
