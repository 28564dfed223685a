package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrTimeout          = errors.New("timed out")
	ErrStaleElement     = errors.New("stale element reference")
	ErrClickIntercepted = errors.New("click intercepted")
	ErrNotFound         = errors.New("element not found")
)

// Session is the slice of a browser tab the extractors depend on.
type Session interface {
	Navigate(url string) error
	// WaitLoad blocks until the current document has finished loading.
	WaitLoad(timeout time.Duration) error
	// Find returns the elements currently matching selector, possibly none.
	Find(selector string) ([]Element, error)
}

type Element interface {
	Click() error
	Attribute(name string) (string, error)
	Text() (string, error)
	Visible() (bool, error)
	// Clickable reports whether the element is visible and on top at its center.
	Clickable() (bool, error)
	ScrollIntoView() error
	Find(selector string) ([]Element, error)
}

// PollInterval is how often WaitUntil re-evaluates its condition.
var PollInterval = 250 * time.Millisecond

// WaitUntil polls cond until it reports true, the timeout elapses or ctx is
// done. The last condition error is wrapped into the timeout error.
func WaitUntil(ctx context.Context, timeout time.Duration, cond func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t := time.NewTicker(PollInterval)
	defer t.Stop()

	var lastErr error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		case <-t.C:
		}
	}
}

// WaitPresent waits for at least one element to match selector.
func WaitPresent(ctx context.Context, s Session, selector string, timeout time.Duration) (Element, error) {
	return waitFor(ctx, s, selector, timeout, func(Element) (bool, error) { return true, nil })
}

// WaitVisible waits for the first element matching selector to be visible.
func WaitVisible(ctx context.Context, s Session, selector string, timeout time.Duration) (Element, error) {
	return waitFor(ctx, s, selector, timeout, Element.Visible)
}

// WaitClickable waits for the first element matching selector to be clickable.
func WaitClickable(ctx context.Context, s Session, selector string, timeout time.Duration) (Element, error) {
	return waitFor(ctx, s, selector, timeout, Element.Clickable)
}

func waitFor(ctx context.Context, s Session, selector string, timeout time.Duration, ready func(Element) (bool, error)) (Element, error) {
	var found Element
	err := WaitUntil(ctx, timeout, func() (bool, error) {
		els, err := s.Find(selector)
		if err != nil {
			return false, err
		}
		if len(els) == 0 {
			return false, fmt.Errorf("%w: %s", ErrNotFound, selector)
		}
		ok, err := ready(els[0])
		if err != nil || !ok {
			return false, err
		}
		found = els[0]
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
