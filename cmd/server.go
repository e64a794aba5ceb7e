// Package main はdemoserveのフラグ形式のコマンドです
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"demoserve/internal/app"
	"demoserve/internal/config"
)

func main() {
	// コマンドラインオプション
	var (
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", -1, "サーバーのポート。指定しない場合は 8000 から空きポートを探す")
		dir        = flag.String("dir", "", "配信するディレクトリ (デフォルト: カレントディレクトリ)")
		configPath = flag.String("config", "", "設定ファイル (.yaml / .toml)")
		noBrowser  = flag.Bool("no-browser", false, "ブラウザを自動で開かない")
		verbose    = flag.Bool("verbose", false, "リクエスト毎のログを出力する")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("demoserve")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション] [port]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	path := *configPath
	if path == "" {
		path = os.Getenv("SERVE_CONFIG")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *dir != "" {
		cfg.Site.Root = *dir
	}
	if *noBrowser {
		cfg.Browser.Open = false
	}
	if *verbose {
		cfg.Log.Quiet = false
	}

	// -port は位置引数より優先
	args := flag.Args()
	if *port >= 0 {
		args = []string{strconv.Itoa(*port)}
	}

	os.Exit(app.Run(context.Background(), args, app.Options{Config: cfg}))
}
