package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// injectedHeaders は全レスポンスに付与するヘッダー
var injectedHeaders = [...][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// InjectedHeaders は付与されるヘッダーのコピーを返す
func InjectedHeaders() http.Header {
	h := make(http.Header, len(injectedHeaders))
	for _, kv := range injectedHeaders {
		h.Set(kv[0], kv[1])
	}
	return h
}

// CORS はレスポンスライターを差し替え、ヘッダー確定時に injectedHeaders を付与する
// OPTIONS はファイルを探さずに 200 で応答する
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &headerWriter{ResponseWriter: c.Writer}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// headerWriter はヘッダー送信の直前にヘッダーを追加する
// FileServer はエラー応答の前に Cache-Control を消すため、委譲前ではなくここで付与する
type headerWriter struct {
	gin.ResponseWriter
	injected bool
}

func (w *headerWriter) inject() {
	if w.injected || w.ResponseWriter.Written() {
		return
	}
	w.injected = true

	h := w.ResponseWriter.Header()
	for _, kv := range injectedHeaders {
		h.Set(kv[0], kv[1])
	}
}

func (w *headerWriter) WriteHeader(code int) {
	w.inject()
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) WriteHeaderNow() {
	w.inject()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerWriter) Write(data []byte) (int, error) {
	w.inject()
	return w.ResponseWriter.Write(data)
}

func (w *headerWriter) WriteString(s string) (int, error) {
	w.inject()
	return w.ResponseWriter.WriteString(s)
}

func (w *headerWriter) Flush() {
	w.inject()
	w.ResponseWriter.Flush()
}
