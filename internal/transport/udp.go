package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

const udpWriteTimeout = 200 * time.Millisecond

// UDP sends each frame as a single datagram.
type UDP struct {
	conn *net.UDPConn
}

func NewUDP(host string, port int) (*UDP, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("udp: resolve %s:%d: %w", host, port, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("udp: dial %s: %w", addr, err)
	}
	return &UDP{conn: conn}, nil
}

func (u *UDP) Send(ctx context.Context, globes []model.Color) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(udpWriteTimeout)
	}
	if err := u.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("udp: set deadline: %w", err)
	}

	if _, err := u.conn.Write(wire.EncodeUDP(globes)); err != nil {
		return fmt.Errorf("udp: send to %s: %w", u.conn.RemoteAddr(), err)
	}
	return nil
}

func (u *UDP) RemoteAddr() net.Addr {
	return u.conn.RemoteAddr()
}

func (u *UDP) Close() error {
	return u.conn.Close()
}

func (u *UDP) String() string {
	return "udp{" + u.conn.RemoteAddr().String() + "}"
}
