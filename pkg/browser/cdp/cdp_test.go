package cdp

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"

	"renewer/pkg/browser"
	"renewer/pkg/domain"
)

func TestToCookieParams(t *testing.T) {
	params := toCookieParams([]domain.Cookie{
		{Name: "sid", Value: "abc", Domain: "dash.domain.digitalplat.org", Path: "/panel", Secure: true, HTTPOnly: true},
		{Name: "lang", Value: "en", Domain: "digitalplat.org", Path: "/"},
	})

	require.Equal(t, []*network.CookieParam{
		{Name: "sid", Value: "abc", Domain: "dash.domain.digitalplat.org", Path: "/panel", Secure: true, HTTPOnly: true},
		{Name: "lang", Value: "en", Domain: "digitalplat.org", Path: "/"},
	}, params)
	require.Empty(t, toCookieParams(nil))
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	cancelled := 0
	s := &Session{ctx: context.Background(), cancel: func() { cancelled++ }}

	// no browser was ever attached to the context
	require.ErrorIs(t, s.Close(), chromedp.ErrInvalidContext)
	require.NoError(t, s.Close())
	require.Equal(t, 1, cancelled)
}

func TestBy(t *testing.T) {
	xpath := "(//button[contains(normalize-space(.),'Continue')])[1]"
	require.True(t, browser.IsXPath(xpath))
	require.NotNil(t, by(xpath))
	require.NotNil(t, by("button#checkout"))
}

func TestLauncher_Name(t *testing.T) {
	require.Equal(t, "chromedp", New("").Name())
}
