// Package browser defines the engine-neutral contract the renewer drives the
// registrar portal through. Engines (chromedp, go-rod) implement Launcher and
// Session so authentication and renewal code never depends on a concrete engine.
//
// Selectors starting with "/" or "(" are XPath expressions; everything else is
// a CSS selector.
//
//go:generate mockgen -package mockbrowser -source=interface.go -destination=mock/mockbrowser.go *
package browser

import (
	"context"
	"errors"
	"time"

	"renewer/pkg/domain"
)

// ErrNoPageLoad is returned by ClickAndWait when the click was dispatched but
// no page load followed. The click may still have taken effect.
var ErrNoPageLoad = errors.New("no page load after click")

// Options configures a browser launch.
type Options struct {
	// Headless runs the browser without a visible window.
	Headless bool
	// UserAgent overrides the browser user agent when set.
	UserAgent string
	// WindowWidth and WindowHeight set the viewport size.
	WindowWidth  int
	WindowHeight int
	// Humanize paces typing and moves the pointer before clicks.
	Humanize bool
	// Cookies are installed before the first navigation.
	Cookies []domain.Cookie
	// NavigationTimeout bounds a single navigation.
	NavigationTimeout time.Duration
}

// Launcher starts browser sessions of one engine.
type Launcher interface {
	// Name identifies the engine (e.g. "chromedp").
	Name() string
	// Launch starts a new browser and returns a session bound to its first page.
	Launch(ctx context.Context, opts Options) (Session, error)
}

// Session is one live browser page. Implementations are not safe for
// concurrent use; the renewer drives a single session sequentially.
type Session interface {
	// Navigate loads url and waits for the page load event.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until sel is visible or timeout elapses.
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	// Exists reports whether sel matches at least one element right now.
	Exists(ctx context.Context, sel string) (bool, error)
	// Click clicks the first element matching sel.
	Click(ctx context.Context, sel string) error
	// Check ticks the checkbox matching sel, clicking it only when it is unchecked.
	Check(ctx context.Context, sel string) error
	// ClickAndWait clicks sel and waits up to timeout for the resulting page load.
	// A wait that fails after the click was sent wraps ErrNoPageLoad.
	ClickAndWait(ctx context.Context, sel string, timeout time.Duration) error
	// Type focuses sel and types text into it.
	Type(ctx context.Context, sel, text string) error
	// PageText returns the visible text of the document body.
	PageText(ctx context.Context) (string, error)
	// URL returns the current page URL.
	URL(ctx context.Context) (string, error)
	// Evaluate runs a JavaScript function expression and decodes its JSON result into out.
	Evaluate(ctx context.Context, fn string, out any) error
	// Cookies returns every cookie visible to the page.
	Cookies(ctx context.Context) ([]domain.Cookie, error)
	// Screenshot writes a full page PNG to path.
	Screenshot(ctx context.Context, path string) error
	// Close releases the browser. Calling it more than once is a no-op.
	Close() error
}
