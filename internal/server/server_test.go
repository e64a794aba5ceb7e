package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demoserve/internal/config"
	"demoserve/internal/port"
)

// newTestConfig はテスト用の設定を作成する
func newTestConfig(root string, p int) *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = p
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 5 * time.Second
	cfg.Site.Root = root
	return cfg
}

// TestServerStartAndShutdown はサーバーの起動とシャットダウンをテストする
func TestServerStartAndShutdown(t *testing.T) {
	cfg := newTestConfig(newSiteDir(t), 0) // ランダムポートを使用

	srv := New(cfg, NewHandler(HandlerOptions{Root: cfg.Site.Root, Quiet: true}))
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	// 起動直後にリクエストが通る
	resp, err := http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>demo</h1>", string(body))
	assertInjected(t, resp.Header)

	// コンテキストをキャンセルしてサーバーを停止
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("サーバーの停止がタイムアウトしました")
	}

	// 停止後はソケットが解放されている
	ln, err := net.Listen("tcp", srv.Addr().String())
	require.NoError(t, err)
	ln.Close()
}

// TestServerEndpoints は実ソケット越しのレスポンスをテストする
func TestServerEndpoints(t *testing.T) {
	cfg := newTestConfig(newSiteDir(t), 0)

	srv := New(cfg, NewHandler(HandlerOptions{Root: cfg.Site.Root, Quiet: true}))
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = srv.Serve(ctx)
	}()

	baseURL := fmt.Sprintf("http://%s", srv.Addr())

	testCases := []struct {
		name           string
		method         string
		endpoint       string
		expectedStatus int
	}{
		{"ルート", http.MethodGet, "/", http.StatusOK},
		{"静的ファイル", http.MethodGet, "/app.js", http.StatusOK},
		{"存在しないファイル", http.MethodGet, "/nope.txt", http.StatusNotFound},
		{"プリフライト", http.MethodOptions, "/api/chat", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, baseURL+tc.endpoint, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assertInjected(t, resp.Header)
		})
	}
}

func TestServerListenAddrInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	p := occupied.Addr().(*net.TCPAddr).Port
	srv := New(newTestConfig(t.TempDir(), p), http.NotFoundHandler())

	err = srv.Listen()
	require.Error(t, err)
	assert.True(t, port.IsAddrInUse(err))
	assert.Nil(t, srv.Addr())
}

func TestServerURL(t *testing.T) {
	srv := New(newTestConfig(t.TempDir(), 8004), http.NotFoundHandler())

	// bind前は設定値
	assert.Equal(t, 8004, srv.Port())
	assert.Equal(t, "http://localhost:8004/", srv.URL())

	srv = New(newTestConfig(t.TempDir(), 0), http.NotFoundHandler())
	require.NoError(t, srv.Listen())
	defer srv.Close()

	p := srv.Addr().(*net.TCPAddr).Port
	assert.NotZero(t, p)
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/", p), srv.URL())
}

func TestServerClose(t *testing.T) {
	srv := New(newTestConfig(t.TempDir(), 0), http.NotFoundHandler())

	// 未bindでもエラーにならない
	assert.NoError(t, srv.Close())

	require.NoError(t, srv.Listen())
	addr := srv.Addr().String()
	require.NoError(t, srv.Close())
	assert.NoError(t, srv.Close())

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	ln.Close()
}
