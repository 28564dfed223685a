package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jobsPage = `<!DOCTYPE html>
<html><body>
<ul id="jobs"><li data-id="1">One</li><li data-id="2">Two</li></ul>
<button id="free" onclick="document.body.insertAdjacentHTML('beforeend', '<p id=clicked>ok</p>')">Free</button>
<div style="position: relative; width: 200px; height: 40px;">
  <button id="covered" style="width: 200px; height: 40px;">Covered</button>
  <div style="position: absolute; top: 0; left: 0; width: 200px; height: 40px; z-index: 10; background: white;"></div>
</div>
</body></html>`

func launchLocal(t *testing.T) (*RodSession, string) {
	t.Helper()
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no chromium installed")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, jobsPage)
	}))
	t.Cleanup(srv.Close)

	s, err := Launch(true, 2*time.Second, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, srv.URL
}

func TestRodSessionFindsAndClicks(t *testing.T) {
	s, url := launchLocal(t)
	require.NoError(t, s.Navigate(url))

	// repeated waits each get their own deadline
	for i := 0; i < 3; i++ {
		require.NoError(t, s.WaitLoad(5*time.Second))
	}

	items, err := s.Find("#jobs li")
	require.NoError(t, err)
	require.Len(t, items, 2)
	id, err := items[1].Attribute("data-id")
	require.NoError(t, err)
	assert.Equal(t, "2", id)
	missing, err := items[0].Attribute("data-missing")
	require.NoError(t, err)
	assert.Equal(t, "", missing)

	byXPath, err := s.Find("xpath://li[@data-id='1']")
	require.NoError(t, err)
	require.Len(t, byXPath, 1)
	text, err := byXPath[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "One", text)

	none, err := s.Find("#nothing-here")
	require.NoError(t, err)
	assert.Empty(t, none)

	free, err := WaitClickable(context.Background(), s, "#free", time.Second)
	require.NoError(t, err)
	require.NoError(t, free.Click())
	_, err = WaitPresent(context.Background(), s, "#clicked", time.Second)
	assert.NoError(t, err)

	covered, err := s.Find("#covered")
	require.NoError(t, err)
	require.Len(t, covered, 1)
	clickable, err := covered[0].Clickable()
	require.NoError(t, err)
	assert.False(t, clickable)
	assert.ErrorIs(t, covered[0].Click(), ErrClickIntercepted)

	// the session stays usable once the per-call deadlines are released
	time.Sleep(10 * time.Millisecond)
	items, err = s.Find("#jobs li")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRodSessionWaitLoadTimesOut(t *testing.T) {
	s, url := launchLocal(t)
	require.NoError(t, s.Navigate(url))
	assert.ErrorIs(t, s.WaitLoad(time.Nanosecond), ErrTimeout)
}
