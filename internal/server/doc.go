// Package server は、作業ディレクトリを配信するHTTPサーバーを管理します。
//
// このパッケージは、HTTPサーバーの起動、静的ファイルの配信、
// 全レスポンスへのCORS・キャッシュ無効化ヘッダーの付与を担当します。
//
// 責務:
//   - 待ち受けソケットのbindとHTTPサーバーの起動・停止
//   - 静的ファイル（HTML/CSS/JS）の配信（net/httpのFileServerに委譲）
//   - 全レスポンスへのヘッダー付与
//   - プリフライト（OPTIONS）リクエストへの即時応答
//
// 仕様:
//   - ルーティングとミドルウェアはgin-gonic/ginを使用
//   - ヘッダーはレスポンスヘッダー確定の直前に付与する
//   - リクエスト毎のアクセスログはデフォルトで出さない
//   - グレースフルシャットダウンに対応
package server
