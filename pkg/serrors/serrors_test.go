package serrors_test

import (
	"errors"
	"fmt"
	"renewer/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrConfiguration,
		serrors.ErrAuthChainExhausted,
		serrors.ErrStrategyFailed,
		serrors.ErrTransientStep,
		serrors.ErrDomainTransaction,
		serrors.ErrNotificationTransport,
		serrors.ErrNotFound,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("selector timed out")

	e1 := serrors.With(serrors.ErrConfiguration, "%s is required", "DP_EMAIL")
	require.Equal(t, "DP_EMAIL is required", e1.Error())

	e2 := serrors.Wrap(serrors.ErrTransientStep, base, "open domain")
	require.Equal(t, "open domain: selector timed out", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrAuthChainExhausted)
	require.Equal(t, "AUTH_CHAIN_EXHAUSTED", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrTransientStep, base, "click checkout")

	require.ErrorIs(t, e, serrors.ErrTransientStep)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrAuthChainExhausted)

	// still matchable once wrapped again with fmt
	wrapped := fmt.Errorf("could not renew: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrTransientStep)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrStrategyFailed, base, "replay")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrStrategyFailed, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Nil(t, serrors.KindOf(nil))

	err := fmt.Errorf("outer: %w", serrors.With(serrors.ErrConfiguration, "missing"))
	require.Equal(t, serrors.ErrConfiguration, serrors.KindOf(err))
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrNotificationTransport, base, "bark")
	require.Equal(t, serrors.ErrNotificationTransport, e.Kind())
	require.Equal(t, "bark", e.Message())
	require.Equal(t, base, e.Cause())
}
