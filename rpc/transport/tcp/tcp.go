package tcp

import (
	"fmt"
	"net"
	"time"

	"github.com/ValentinKolb/wordkv/rpc/common"
)

// Listen creates a TCP listener on endpoint (e.g. ":3000")
func Listen(endpoint string) (net.Listener, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %w", err)
	}
	return listener, nil
}

// Dial connects to address and applies the socket options.
// A zero timeout waits as long as the operating system allows.
func Dial(address string, timeout time.Duration, conf common.TCPConf) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, err
	}
	if err := UpgradeConnection(conn, conf); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// UpgradeConnection applies the options of conf to a TCP connection.
// Connections of other types are left untouched.
func UpgradeConnection(conn net.Conn, conf common.TCPConf) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // Not a TCP connection, nothing to upgrade
	}

	// Disable Nagle's algorithm if configured
	if err := tcpConn.SetNoDelay(conf.TCPNoDelay); err != nil {
		return err
	}

	if conf.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(conf.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}

	return nil
}
