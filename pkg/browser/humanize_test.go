package browser_test

import (
	"context"
	"renewer/pkg/browser"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitter(t *testing.T) {
	for range 100 {
		d := browser.Jitter(browser.MinKeystrokeDelay, browser.MaxKeystrokeDelay)
		require.GreaterOrEqual(t, d, browser.MinKeystrokeDelay)
		require.LessOrEqual(t, d, browser.MaxKeystrokeDelay)
	}

	require.Equal(t, time.Second, browser.Jitter(time.Second, time.Millisecond))
}

func TestKeystrokeDelays(t *testing.T) {
	require.Len(t, browser.KeystrokeDelays("pässword"), 8)
	require.Empty(t, browser.KeystrokeDelays(""))
}

func TestMousePath(t *testing.T) {
	from := browser.Point{X: 10, Y: 10}
	to := browser.Point{X: 200, Y: 120}

	path := browser.MousePath(from, to, browser.MouseSteps)
	require.Len(t, path, browser.MouseSteps)
	require.InDelta(t, to.X, path[len(path)-1].X, 1e-9)
	require.InDelta(t, to.Y, path[len(path)-1].Y, 1e-9)

	require.Len(t, browser.MousePath(from, to, 0), 1)
}

func TestPause_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, browser.Pause(ctx, time.Hour), context.Canceled)
	require.NoError(t, browser.Pause(context.Background(), time.Millisecond))
}

func TestIsXPath(t *testing.T) {
	require.True(t, browser.IsXPath("//button[contains(., 'Order Now')]"))
	require.True(t, browser.IsXPath("(//a)[1]"))
	require.False(t, browser.IsXPath("button#checkout"))
}
