package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/js"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Selectors with this prefix are evaluated as XPath, everything else as CSS.
const xpathPrefix = "xpath:"

// RodSession drives a single tab of a locally launched Chromium.
type RodSession struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher

	// ActionTimeout bounds a single click.
	ActionTimeout time.Duration
	log           *zap.SugaredLogger
}

func Launch(headless bool, actionTimeout time.Duration, log *zap.SugaredLogger) (*RodSession, error) {
	l := launcher.New().
		Headless(headless)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	//Don't download files in the browser, e.g. pdf files
	_ = proto.BrowserSetDownloadBehavior{
		Behavior:         proto.BrowserSetDownloadBehaviorBehaviorDeny,
		BrowserContextID: b.BrowserContextID,
	}.Call(b)

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	//Dismiss alerts so they never block a wait
	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		log.Debugw("dismissing dialog", "message", e.Message)
		_ = proto.PageHandleJavaScriptDialog{Accept: false}.Call(page)
	})()

	log.Info("browser started")
	return &RodSession{browser: b, page: page, launcher: l, ActionTimeout: actionTimeout, log: log}, nil
}

func (s *RodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	s.log.Debug("browser closed")
	return err
}

func (s *RodSession) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, translate(err))
	}
	return nil
}

func (s *RodSession) WaitLoad(timeout time.Duration) error {
	// One deadline shared by every poll, released on return.
	page := s.page.Timeout(timeout)
	defer page.CancelTimeout()

	return WaitUntil(page.GetContext(), timeout, func() (bool, error) {
		res, err := page.Eval(js.DOCUMENT_READY)
		if err != nil {
			return false, translate(err)
		}
		return res.Value.Bool(), nil
	})
}

func (s *RodSession) Find(selector string) ([]Element, error) {
	var els rod.Elements
	var err error
	if x, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		els, err = s.page.ElementsX(x)
	} else {
		els, err = s.page.Elements(selector)
	}
	if err != nil {
		return nil, translate(err)
	}
	return s.wrap(els), nil
}

// CurrentURL is the URL of the tab, used to detect login checkpoints.
func (s *RodSession) CurrentURL() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", translate(err)
	}
	return info.URL, nil
}

func (s *RodSession) wrap(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el, timeout: s.ActionTimeout, session: s})
	}
	return out
}

type rodElement struct {
	el      *rod.Element
	timeout time.Duration
	session *RodSession
}

func (e *rodElement) Click() error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()

	if err := el.ScrollIntoView(); err != nil {
		return translate(err)
	}
	// Interactable fails fast when another element sits on top, while Click
	// would keep retrying until its timeout.
	if _, err := el.Interactable(); err != nil {
		return translate(err)
	}
	return translate(el.Click(proto.InputMouseButtonLeft, 1))
}

func (e *rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", translate(err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *rodElement) Text() (string, error) {
	t, err := e.el.Text()
	return t, translate(err)
}

func (e *rodElement) Visible() (bool, error) {
	v, err := e.el.Visible()
	return v, translate(err)
}

func (e *rodElement) Clickable() (bool, error) {
	res, err := e.el.Eval(js.IS_TOP_VISIBLE)
	if err != nil {
		return false, translate(err)
	}
	return res.Value.Bool(), nil
}

func (e *rodElement) ScrollIntoView() error {
	_, err := e.el.Eval(js.SCROLL_TO_TOP)
	return translate(err)
}

func (e *rodElement) Find(selector string) ([]Element, error) {
	var els rod.Elements
	var err error
	if x, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		els, err = e.el.ElementsX(x)
	} else {
		els, err = e.el.Elements(selector)
	}
	if err != nil {
		return nil, translate(err)
	}
	return e.session.wrap(els), nil
}

// translate maps rod and CDP errors onto the package's fault sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var (
		notFound        *rod.ErrElementNotFound
		objectNotFound  *rod.ErrObjectNotFound
		covered         *rod.ErrCovered
		notInteractable *rod.ErrNotInteractable
		cdpErr          *cdp.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.As(err, &covered), errors.As(err, &notInteractable):
		return fmt.Errorf("%w: %v", ErrClickIntercepted, err)
	case errors.As(err, &objectNotFound):
		return fmt.Errorf("%w: %v", ErrStaleElement, err)
	case errors.As(err, &cdpErr) && isStaleMessage(cdpErr.Message):
		return fmt.Errorf("%w: %v", ErrStaleElement, err)
	}
	return err
}

func isStaleMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "given id") ||
		strings.Contains(msg, "detached") ||
		strings.Contains(msg, "cannot find context")
}
