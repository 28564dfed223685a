package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	PollInterval = time.Millisecond
}

type stubElement struct {
	Element
	visible bool
}

func (e stubElement) Visible() (bool, error) { return e.visible, nil }

type stubSession struct {
	Session
	finds int
	// becomes visible on this Find call
	visibleAt int
}

func (s *stubSession) Find(selector string) ([]Element, error) {
	s.finds++
	if s.finds == 1 {
		return nil, nil
	}
	return []Element{stubElement{visible: s.finds >= s.visibleAt}}, nil
}

func TestWaitUntilSucceeds(t *testing.T) {
	calls := 0
	err := WaitUntil(context.Background(), time.Second, func() (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitUntilTimesOut(t *testing.T) {
	err := WaitUntil(context.Background(), 20*time.Millisecond, func() (bool, error) {
		return false, ErrNotFound
	})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), ErrNotFound.Error())
}

func TestWaitUntilHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitUntil(ctx, time.Hour, func() (bool, error) { return false, nil })
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWaitVisible(t *testing.T) {
	s := &stubSession{visibleAt: 4}
	el, err := WaitVisible(context.Background(), s, "#modal", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, el)
	assert.Equal(t, 4, s.finds)

	s = &stubSession{visibleAt: 1 << 30}
	_, err = WaitVisible(context.Background(), s, "#modal", 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "deadline", err: fmt.Errorf("wait: %w", context.DeadlineExceeded), want: ErrTimeout},
		{name: "element not found", err: &rod.ErrElementNotFound{}, want: ErrNotFound},
		{name: "wrapped element not found", err: fmt.Errorf("find: %w", &rod.ErrElementNotFound{}), want: ErrNotFound},
		{name: "not interactable", err: &rod.ErrNotInteractable{}, want: ErrClickIntercepted},
		{name: "object not found", err: &rod.ErrObjectNotFound{}, want: ErrStaleElement},
		{name: "stale node", err: &cdp.Error{Code: -32000, Message: "Could not find node with given id"}, want: ErrStaleElement},
		{name: "detached", err: &cdp.Error{Code: -32000, Message: "Node is detached from document"}, want: ErrStaleElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err), tt.want)
		})
	}

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
	assert.NoError(t, translate(nil))
}

func TestCookiesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	cookies := []*proto.NetworkCookie{
		{Name: "li_at", Value: "secret", Domain: ".linkedin.com", Path: "/", Expires: 1893456000, HTTPOnly: true, Secure: true, SameSite: proto.NetworkCookieSameSiteNone},
		{Name: "lang", Value: "v=2&lang=en-us", Domain: ".linkedin.com", Path: "/", Expires: -1},
	}
	require.NoError(t, SaveCookies(path, cookies))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	params, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "li_at", params[0].Name)
	assert.Equal(t, proto.TimeSinceEpoch(1893456000), params[0].Expires)
	assert.Equal(t, proto.NetworkCookieSameSiteNone, params[0].SameSite)
	assert.True(t, params[0].HTTPOnly)

	assert.Equal(t, "v=2&lang=en-us", params[1].Value)
	assert.Zero(t, params[1].Expires)
	assert.Empty(t, params[1].SameSite)
}

func TestLoadCookiesMissingFile(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "none.json"))
	assert.True(t, os.IsNotExist(err))
}
