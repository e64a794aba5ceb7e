package server

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// HandlerOptions はリクエストハンドラの設定
type HandlerOptions struct {
	// Root は配信するディレクトリ
	Root string

	// FS を指定すると Root の代わりに使う
	FS http.FileSystem

	// Quiet がtrueならリクエスト毎のログを出さない
	Quiet bool

	// AccessLog はQuietでない場合のアクセスログ出力先（nilなら標準エラー）
	AccessLog io.Writer
}

// NewHandler は静的ファイルを配信するハンドラを作成する
// パスの解決、ディレクトリ一覧、404、Content-Type の判定は http.FileServer に任せる
func NewHandler(opts HandlerOptions) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	if !opts.Quiet {
		out := opts.AccessLog
		if out == nil {
			out = os.Stderr
		}
		engine.Use(gin.LoggerWithWriter(out))
	}

	// CORS を先に通し、panic時の 500 にもヘッダーが付くようにする
	engine.Use(CORS(), gin.Recovery())

	fsys := opts.FS
	if fsys == nil {
		fsys = http.Dir(opts.Root)
	}

	// ルートは登録せず、全リクエストをファイル配信に回す
	engine.NoRoute(gin.WrapH(http.FileServer(fsys)))

	return engine
}
