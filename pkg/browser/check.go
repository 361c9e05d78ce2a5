package browser

import (
	"context"
	"fmt"
)

// Clicker is the part of a Session EnsureChecked needs.
type Clicker interface {
	Evaluate(ctx context.Context, fn string, out any) error
	Click(ctx context.Context, sel string) error
}

// EnsureChecked leaves the checkbox matching sel ticked. A box that is
// already ticked is not clicked, since a click would clear it.
func EnsureChecked(ctx context.Context, s Clicker, sel string) error {
	checked, err := isChecked(ctx, s, sel)
	if err != nil {
		return err
	}
	if checked {
		return nil
	}

	if err := s.Click(ctx, sel); err != nil {
		return err
	}

	if checked, err = isChecked(ctx, s, sel); err != nil {
		return err
	}
	if !checked {
		return fmt.Errorf("%s still unchecked after click", sel)
	}

	return nil
}

func isChecked(ctx context.Context, s Clicker, sel string) (bool, error) {
	var checked bool
	if err := s.Evaluate(ctx, CheckedScript(sel), &checked); err != nil {
		return false, fmt.Errorf("could not read state of %s: %w", sel, err)
	}

	return checked, nil
}
