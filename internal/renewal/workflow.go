package renewal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"renewer/pkg/browser"
	"renewer/pkg/domain"
	"renewer/pkg/logger"
	"renewer/pkg/retry"
	"renewer/pkg/serrors"

	"go.uber.org/zap"
)

// Options configures a Workflow.
type Options struct {
	// ListingURL is the domain listing page.
	ListingURL string
	// PageTimeout bounds every page load caused by a click.
	PageTimeout time.Duration
	// ScreenshotDir receives captures of failed domains. Empty disables them.
	ScreenshotDir string
}

// Workflow drives the portal through the renewal transaction.
type Workflow struct {
	opts     Options
	policy   *retry.Policy
	handlers map[State]stateHandler
}

var _ Processor = (*Workflow)(nil)

// NewWorkflow creates a Workflow whose navigations and clicks run under policy.
func NewWorkflow(opts Options, policy *retry.Policy) *Workflow {
	w := &Workflow{opts: opts, policy: policy}
	w.handlers = map[State]stateHandler{
		StateListed:         w.open,
		StateOpened:         w.offer,
		StateRenewalOffered: w.order,
		StateOrderStarted:   w.acceptTerms,
		StateTermsAccepted:  w.checkout,
		StateCheckedOut:     w.confirm,
	}

	return w
}

// ListDomains opens the listing and snapshots its rows in order.
func (w *Workflow) ListDomains(ctx context.Context, sess browser.Session) ([]domain.DomainRecord, error) {
	var rows []domain.DomainRecord
	err := w.policy.Do(ctx, "list domains", func(ctx context.Context) error {
		if err := sess.Navigate(ctx, w.opts.ListingURL); err != nil {
			return fmt.Errorf("could not open domain listing: %w", err)
		}

		ok, err := sess.Exists(ctx, ListingMarker)
		if err != nil {
			return fmt.Errorf("could not look for domain listing: %w", err)
		}
		if !ok {
			return errors.New("domain listing not rendered")
		}

		rows = nil
		if err := sess.Evaluate(ctx, listingScript, &rows); err != nil {
			return fmt.Errorf("could not read domain listing: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]domain.DomainRecord, 0, len(rows))
	for _, r := range rows {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			continue
		}
		records = append(records, r)
	}

	logger.Info(ctx, "domain listing read", zap.Int("domains", len(records)))

	return records, nil
}

// Renew walks record through the transaction and always returns its outcome.
// Errors and panics become FAILED outcomes; the session is sent back to the
// listing afterwards so the next domain starts from a known page.
func (w *Workflow) Renew(ctx context.Context, sess browser.Session, record domain.DomainRecord) (out domain.RenewalOutcome) {
	ctx = logger.WithFields(ctx, logger.Domain(record.Name))

	defer w.backToListing(ctx, sess)
	defer func() {
		if r := recover(); r != nil {
			err := serrors.With(serrors.ErrDomainTransaction, "panic: %v", r)
			logger.Error(ctx, "renewal transaction panicked", zap.Error(err))
			browser.Capture(ctx, sess, w.opts.ScreenshotDir, record.Name+"-failed")
			out = domain.Failed(record.Name, err.Error())
		}
	}()

	tx := &transaction{sess: sess, record: record}
	state := StateListed
	for !state.Terminal() {
		next, err := w.step(ctx, state, tx)
		if err != nil {
			err = serrors.Wrap(serrors.ErrDomainTransaction, err, "renewal failed in state %s", state)
			logger.Warn(ctx, "renewal transaction failed", zap.Error(err))
			tx.reason = err.Error()
			next = StateFailed
		}

		logger.Debug(ctx, "renewal state changed",
			zap.String("from", string(state)), zap.String("to", string(next)))
		state = next
	}

	switch state {
	case StateRenewed:
		logger.Info(ctx, "domain renewed")

		return domain.Renewed(record.Name)
	case StateNotNeeded:
		logger.Info(ctx, "no renewal offered")

		return domain.NotNeeded(record.Name)
	default:
		browser.Capture(ctx, sess, w.opts.ScreenshotDir, record.Name+"-failed")

		return domain.Failed(record.Name, tx.reason)
	}
}

func (w *Workflow) step(ctx context.Context, state State, tx *transaction) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateFailed, err
	}

	handler, ok := w.handlers[state]
	if !ok {
		return StateFailed, fmt.Errorf("no handler for state %s", state)
	}

	next, err := handler(ctx, tx)
	if err != nil {
		return StateFailed, err
	}
	if err := validTransition(state, next); err != nil {
		return StateFailed, err
	}

	return next, nil
}

func (w *Workflow) backToListing(ctx context.Context, sess browser.Session) {
	if ctx.Err() != nil {
		return
	}

	if err := sess.Navigate(ctx, w.opts.ListingURL); err != nil {
		logger.Warn(ctx, "could not return to domain listing", zap.Error(err))
	}
}

// fail moves tx to FAILED with a business reason.
func fail(tx *transaction, reason string) (State, error) {
	tx.reason = reason

	return StateFailed, nil
}

// clickAndWait retries clicks that never reached the page. Once a click was
// sent, a missing page load ends the transaction: clicking again could submit
// the order twice.
func (w *Workflow) clickAndWait(ctx context.Context, sess browser.Session, step, sel string) error {
	return w.policy.Do(ctx, step, func(ctx context.Context) error {
		err := sess.ClickAndWait(ctx, sel, w.opts.PageTimeout)
		if errors.Is(err, browser.ErrNoPageLoad) {
			return retry.Permanent(err)
		}

		return err
	})
}

func (w *Workflow) open(ctx context.Context, tx *transaction) (State, error) {
	if tx.record.ManageURL == "" {
		return fail(tx, "no manage control")
	}

	err := w.policy.Do(ctx, "open domain page", func(ctx context.Context) error {
		return tx.sess.Navigate(ctx, tx.record.ManageURL)
	})
	if err != nil {
		return StateFailed, err
	}

	return StateOpened, nil
}

func (w *Workflow) offer(ctx context.Context, tx *transaction) (State, error) {
	ok, err := tx.sess.Exists(ctx, RenewLink)
	if err != nil {
		return StateFailed, fmt.Errorf("could not look for renewal link: %w", err)
	}
	if !ok {
		return StateNotNeeded, nil
	}

	if err := w.clickAndWait(ctx, tx.sess, "open renewal offer", RenewLink); err != nil {
		return StateFailed, err
	}

	return StateRenewalOffered, nil
}

func (w *Workflow) order(ctx context.Context, tx *transaction) (State, error) {
	ok, err := tx.sess.Exists(ctx, OrderButton)
	if err != nil {
		return StateFailed, fmt.Errorf("could not look for order control: %w", err)
	}
	if !ok {
		return fail(tx, "no order control")
	}

	if err := w.clickAndWait(ctx, tx.sess, "start order", OrderButton); err != nil {
		return StateFailed, err
	}

	return StateOrderStarted, nil
}

func (w *Workflow) acceptTerms(ctx context.Context, tx *transaction) (State, error) {
	ok, err := tx.sess.Exists(ctx, TermsCheckbox)
	if err != nil {
		return StateFailed, fmt.Errorf("could not look for terms checkbox: %w", err)
	}
	if !ok {
		logger.Debug(ctx, "no terms to accept")

		return StateTermsAccepted, nil
	}

	if err := tx.sess.Check(ctx, TermsCheckbox); err != nil {
		return StateFailed, fmt.Errorf("could not accept terms: %w", err)
	}

	return StateTermsAccepted, nil
}

func (w *Workflow) checkout(ctx context.Context, tx *transaction) (State, error) {
	ok, err := tx.sess.Exists(ctx, CheckoutButton)
	if err != nil {
		return StateFailed, fmt.Errorf("could not look for checkout control: %w", err)
	}
	if !ok {
		return fail(tx, "no checkout control")
	}

	if err := w.clickAndWait(ctx, tx.sess, "checkout", CheckoutButton); err != nil {
		return StateFailed, err
	}

	return StateCheckedOut, nil
}

func (w *Workflow) confirm(ctx context.Context, tx *transaction) (State, error) {
	text, err := tx.sess.PageText(ctx)
	if err != nil {
		return StateFailed, fmt.Errorf("could not read order result: %w", err)
	}
	if !strings.Contains(text, ConfirmationText) {
		return fail(tx, "confirmation not found")
	}

	return StateRenewed, nil
}
