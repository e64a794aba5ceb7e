// Package browser はローカルの既定ブラウザでURLを開きます。
// 失敗してもサーバーの起動には影響させません。
package browser

import (
	"io"

	"github.com/pkg/browser"
)

// 起動コマンドの出力は捨てる
func init() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Opener はURLを開く機能
type Opener interface {
	Open(url string) error
}

// OpenerFunc は関数を Opener として扱うアダプタ
type OpenerFunc func(url string) error

// Open は f(url) を呼ぶ
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// System はOS標準の方法 (xdg-open / open / rundll32) でブラウザを開く
type System struct{}

// Open はブラウザを起動する。起動コマンドが終了するまで戻らない
func (System) Open(url string) error {
	return browser.OpenURL(url)
}

// TryOpen はブラウザ起動を試み、成功したかどうかだけを返す
// エラーもpanicもすべて握りつぶす
func TryOpen(o Opener, url string) (opened bool) {
	if o == nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			opened = false
		}
	}()

	return o.Open(url) == nil
}
