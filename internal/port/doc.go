// Package port は、待ち受けに使えるTCPポートを探します。
//
// 仕様:
//   - 開始番号から昇順に Window 個のポートを順番に試す
//   - 各候補は一時的にbindしてすぐにcloseする
//   - 最初に成功したポートを返す。見つからなければ ErrNoAvailablePort
//   - 明示的に指定されたポートは探索しない（呼び出し側の責務）
package port
