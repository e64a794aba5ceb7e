package port

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
)

// Window は探索するポートの個数
const Window = 100

// MaxPort はTCPポート番号の上限
const MaxPort = 65535

// ErrNoAvailablePort は探索範囲に使えるポートがなかったことを表す
var ErrNoAvailablePort = errors.New("利用可能なポートがありません")

// Prober はポートが使えるかを確認する関数
// 使える場合は nil を返す
type Prober func(port int) error

// Find は start から Window 個のポートを昇順に調べ、最初にbindできたポートを返す
func Find(start int) (int, error) {
	return FindWith(start, Probe)
}

// FindWith は任意の Prober でポートを探索する
func FindWith(start int, probe Prober) (int, error) {
	end := start + Window
	for p := start; p < end; p++ {
		if p < 0 || p > MaxPort {
			continue
		}
		if err := probe(p); err == nil {
			return p, nil
		}
	}

	return 0, fmt.Errorf("%w: %d-%d", ErrNoAvailablePort, start, end-1)
}

// Probe は全インターフェースでポートを一時的にbindし、すぐに解放する
func Probe(port int) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("0.0.0.0", strconv.Itoa(port)))
	if err != nil {
		return err
	}
	return ln.Close()
}

// IsAddrInUse はbindエラーが「アドレス使用中」かどうかを判定する
func IsAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
