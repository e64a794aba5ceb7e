package main

import (
	"context"
	"os"

	"demoserve/internal/app"
)

// 使い方: demoserve [port]
// ポートを省略すると 8000 から空きポートを探す
func main() {
	os.Exit(app.Run(context.Background(), os.Args[1:], app.Options{}))
}
