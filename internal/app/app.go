// Package app は起動手順（引数の解釈、前提条件の確認、ポートの決定、
// 待ち受け、ブラウザ起動、停止）をまとめます。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"demoserve/internal/browser"
	"demoserve/internal/config"
	"demoserve/internal/port"
	"demoserve/internal/server"
)

// 終了コード
const (
	ExitOK    = 0
	ExitError = 1
)

var errUsage = errors.New("ポート番号は数値で指定してください")

// Options は Run の依存を差し替えるための設定
type Options struct {
	// Config がnilなら config.Load() を使う
	Config *config.Config

	// Stdout は起動メッセージの出力先（nilなら標準出力）
	Stdout io.Writer

	// Stderr はアクセスログと内部ログの出力先（nilなら標準エラー）
	Stderr io.Writer

	// Opener がnilなら browser.System を使う
	Opener browser.Opener

	// FindPort がnilなら port.Find を使う
	FindPort func(start int) (int, error)
}

// Run はサーバーを起動し、停止するまでブロックして終了コードを返す
// args は位置引数（0個なら自動選択、1個目を明示ポートとして扱う）
func Run(ctx context.Context, args []string, opts Options) int {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return ExitError
		}
		cfg = loaded
	}

	explicit, requested, err := parsePort(args)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return ExitError
	}

	// ソケットを触る前にエントリーファイルを確認する
	if _, err := os.Stat(cfg.EntryPath()); err != nil {
		fmt.Fprintf(out, "Error: %s が見つかりません (%s)\n", cfg.Site.EntryFile, cfg.Site.Root)
		fmt.Fprintln(out, "プロジェクトのディレクトリで実行しているか確認してください")
		return ExitError
	}

	p := requested
	if !explicit {
		find := opts.FindPort
		if find == nil {
			find = port.Find
		}
		start := cfg.Server.Port
		p, err = find(start)
		if err != nil {
			fmt.Fprintf(out, "Error: %d-%d の範囲に利用可能なポートがありません\n", start, start+port.Window-1)
			return ExitError
		}
	}

	// 呼び出し元の設定は書き換えない
	runCfg := *cfg
	runCfg.Server.Port = p

	handler := server.NewHandler(server.HandlerOptions{
		Root:      runCfg.Site.Root,
		Quiet:     runCfg.Log.Quiet,
		AccessLog: errOut,
	})

	srv := server.New(&runCfg, handler)
	if !runCfg.Log.Quiet {
		srv.SetLogger(log.New(errOut, "[demoserve] ", log.LstdFlags))
	}

	if err := srv.Listen(); err != nil {
		if port.IsAddrInUse(err) {
			fmt.Fprintf(out, "❌ ポート %d は既に使用されています\n", p)
			fmt.Fprintf(out, "次を試してください: demoserve %d\n", p+1)
		} else {
			fmt.Fprintf(out, "❌ サーバーの起動に失敗しました: %v\n", err)
		}
		return ExitError
	}

	printBanner(out, srv.URL(), runCfg.Inference.Hint)

	if runCfg.Browser.Open {
		opener := opts.Opener
		if opener == nil {
			opener = browser.System{}
		}
		// 起動コマンドが戻らなくても配信は始める
		url := srv.URL()
		go func() {
			if browser.TryOpen(opener, url) {
				fmt.Fprintln(out, "🌐 ブラウザを開いています...")
			}
		}()
	}

	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(out, "❌ サーバーエラー: %v\n", err)
		_ = srv.Close()
		return ExitError
	}

	fmt.Fprintln(out, "\n✅ サーバーを停止しました。")
	return ExitOK
}

// parsePort は位置引数からポート番号を取り出す
// 2個目以降の引数は無視する
func parsePort(args []string) (explicit bool, p int, err error) {
	if len(args) == 0 {
		return false, 0, nil
	}

	p, err = strconv.Atoi(args[0])
	if err != nil {
		return false, 0, errUsage
	}
	if p < 0 || p > port.MaxPort {
		return false, 0, fmt.Errorf("ポート番号は 0-%d の範囲で指定してください: %d", port.MaxPort, p)
	}

	return true, p, nil
}

func printBanner(w io.Writer, url, hint string) {
	fmt.Fprintf(w, "🚀 サーバーを起動しました: %s\n", url)
	fmt.Fprintf(w, "📄 デモページ: %s\n", url)
	if hint != "" {
		fmt.Fprintf(w, "🔧 推論サービスはCORSを許可して起動してください: %s\n", hint)
	}
	fmt.Fprintln(w, "⏹️  Ctrl+C で停止します")
}
