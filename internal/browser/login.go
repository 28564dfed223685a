package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/config"
	"github.com/go-rod/rod"
)

// Authenticate leaves the session logged in to the target site. Saved
// cookies are reused when present, otherwise the login form is filled in
// and the resulting cookies are saved for the next run.
func (s *RodSession) Authenticate(ctx context.Context, cfg *config.Config) error {
	timeout := cfg.Browser.Timeout

	if err := s.Navigate(cfg.Site.BaseURL); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Paths.Cookies); err == nil {
		cookies, err := LoadCookies(cfg.Paths.Cookies)
		if err != nil {
			return fmt.Errorf("loading cookies: %w", err)
		}
		s.log.Infow("loading cookies", "file", cfg.Paths.Cookies, "count", len(cookies))
		if err := s.page.SetCookies(cookies); err != nil {
			return fmt.Errorf("setting cookies: %w", translate(err))
		}
		if err := s.page.Reload(); err != nil {
			return fmt.Errorf("reloading: %w", translate(err))
		}
		return s.WaitLoad(timeout)
	}

	if cfg.Credentials.Username == "" || cfg.Credentials.Password == "" {
		return errors.New("no cookie file and no credentials configured")
	}

	s.log.Info("navigating to login")
	if err := s.Navigate(cfg.Site.LoginURL); err != nil {
		return err
	}
	if err := s.WaitLoad(timeout); err != nil {
		return err
	}

	s.log.Info("trying to login")
	if err := s.input(cfg.Selectors.Username, cfg.Credentials.Username, timeout); err != nil {
		return fmt.Errorf("username field: %w", err)
	}
	if err := s.input(cfg.Selectors.Password, cfg.Credentials.Password, timeout); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	submit, err := WaitClickable(ctx, s, cfg.Selectors.LoginSubmit, timeout)
	if err != nil {
		return fmt.Errorf("sign in button: %w", err)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("sign in button: %w", err)
	}

	if err := s.waitOutCheckpoint(ctx, cfg.Site.Checkpoint, cfg.Browser.CheckpointWait); err != nil {
		return err
	}

	cookies, err := s.page.Cookies([]string{})
	if err != nil {
		return fmt.Errorf("reading cookies: %w", translate(err))
	}
	if err := SaveCookies(cfg.Paths.Cookies, cookies); err != nil {
		return fmt.Errorf("saving cookies: %w", err)
	}
	s.log.Infow("saved cookies", "file", cfg.Paths.Cookies, "count", len(cookies))
	return nil
}

// waitOutCheckpoint gives a human time to solve a login challenge.
func (s *RodSession) waitOutCheckpoint(ctx context.Context, marker string, wait time.Duration) error {
	if marker == "" {
		return nil
	}
	for {
		url, err := s.CurrentURL()
		if err != nil {
			return err
		}
		if !strings.Contains(url, marker) {
			return nil
		}
		s.log.Infow("challenge found, waiting", "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (s *RodSession) input(selector, text string, timeout time.Duration) error {
	var el *rod.Element
	var err error
	page := s.page.Timeout(timeout)
	defer page.CancelTimeout()
	if x, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		el, err = page.ElementX(x)
	} else {
		el, err = page.Element(selector)
	}
	if err != nil {
		return translate(err)
	}
	return translate(el.Input(text))
}
