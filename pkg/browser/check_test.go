package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"renewer/pkg/browser"
	mockbrowser "renewer/pkg/browser/mock"
)

const terms = "input[name='accepttos']"

// checkedState makes sess report the checkbox state from states, one per call.
func checkedState(t *testing.T, sess *mockbrowser.MockSession, states ...bool) {
	t.Helper()

	for _, st := range states {
		sess.EXPECT().Evaluate(gomock.Any(), browser.CheckedScript(terms), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, out any) error {
				checked, ok := out.(*bool)
				require.True(t, ok)
				*checked = st

				return nil
			})
	}
}

func TestEnsureChecked_AlreadyTicked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sess := mockbrowser.NewMockSession(ctrl)
	checkedState(t, sess, true)
	sess.EXPECT().Click(gomock.Any(), gomock.Any()).Times(0)

	require.NoError(t, browser.EnsureChecked(context.Background(), sess, terms))
}

func TestEnsureChecked_TicksUnchecked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sess := mockbrowser.NewMockSession(ctrl)
	gomock.InOrder(
		sess.EXPECT().Evaluate(gomock.Any(), browser.CheckedScript(terms), gomock.Any()).Return(nil),
		sess.EXPECT().Click(gomock.Any(), terms).Return(nil),
	)
	checkedState(t, sess, true)

	require.NoError(t, browser.EnsureChecked(context.Background(), sess, terms))
}

func TestEnsureChecked_ClickDidNotTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sess := mockbrowser.NewMockSession(ctrl)
	checkedState(t, sess, false, false)
	sess.EXPECT().Click(gomock.Any(), terms).Return(nil)

	err := browser.EnsureChecked(context.Background(), sess, terms)
	require.ErrorContains(t, err, "still unchecked")
}

func TestEnsureChecked_ReadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sess := mockbrowser.NewMockSession(ctrl)
	sess.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("target closed"))
	sess.EXPECT().Click(gomock.Any(), gomock.Any()).Times(0)

	require.Error(t, browser.EnsureChecked(context.Background(), sess, terms))
}
