package rotator

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *Rotator) {
	t.Helper()
	rt := newTestRotator(nil)
	mustAdd(t, rt, "http://banners.com/banner0.jpg", 2, "cat", "dog")
	mustAdd(t, rt, "http://banners.com/banner1.jpg", 1, "bird")
	return NewServer(rt, NewMetrics(), quietLogger()), rt
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleBanner(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/banner?category=bird")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, `<html><body><img src="http://banners.com/banner1.jpg"/></body></html>`, rec.Body.String())

	rec = get(t, s.Handler(), "/banner?category=bird")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ErrNoBanner.Error(), body["error"])
}

func TestHandleBanner_AnyCategory(t *testing.T) {
	s, _ := newTestServer(t)

	for range 3 {
		require.Equal(t, http.StatusOK, get(t, s.Handler(), "/banner").Code)
	}
	require.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/banner").Code)
}

func TestHandleBannerList(t *testing.T) {
	s, _ := newTestServer(t)
	get(t, s.Handler(), "/banner?category=bird")

	rec := get(t, s.Handler(), "/api/banners")
	require.Equal(t, http.StatusOK, rec.Code)

	var banners []BannerStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banners))
	require.Len(t, banners, 2)
	require.Equal(t, "http://banners.com/banner1.jpg", banners[1].URL)
	require.Zero(t, banners[1].ShowsLeft)
	require.Equal(t, BannerID(banners[1].URL).String(), banners[1].ID)
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 2, body["banners"])
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	get(t, s.Handler(), "/banner?category=bird")
	get(t, s.Handler(), "/banner?category=bird")

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `banners_rotator_banner_requests_total{result="served"} 1`)
	require.Contains(t, body, `banners_rotator_banner_requests_total{result="miss"} 1`)
	require.Contains(t, body, `banners_rotator_banners{state="exhausted"} 1`)
	require.Contains(t, body, "banners_rotator_response_time_seconds")
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/banner", strings.NewReader("")))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServe_Shutdown(t *testing.T) {
	s, _ := newTestServer(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, port) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
