package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demoserve/internal/config"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	httpServer *http.Server
	listener   net.Listener
	logger     *log.Logger
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		config: cfg,
		logger: log.New(io.Discard, "", 0),
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			ErrorLog:     log.New(io.Discard, "", 0),
		},
	}
}

// SetLogger はサーバー内部のログ出力先を設定する（デフォルトは出力しない）
func (s *Server) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s.logger = l
	s.httpServer.ErrorLog = l
}

// Listen は待ち受けソケットをbindする
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("%s のbindに失敗: %w", s.config.ServerAddress(), err)
	}
	s.listener = ln
	return nil
}

// Addr はbind済みのアドレスを返す。未bindならnil
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port は実際に待ち受けているポート番号を返す
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.config.Server.Port
}

// URL はブラウザで開くURLを返す
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d/", s.Port())
}

// Serve はリクエストの受付を開始し、停止するまでブロックする
// コンテキストのキャンセルかSIGINT/SIGTERMで停止し、その場合はnilを返す
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.Printf("HTTPサーバーを起動しています: %s", s.listener.Addr())
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Println("サーバーをシャットダウンしています...")

	// 5秒のタイムアウトを設定
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Println("サーバーが正常にシャットダウンされました")
	return nil
}

// Close はServeを呼ばずに終わる場合に待ち受けソケットを解放する
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
