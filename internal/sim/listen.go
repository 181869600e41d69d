package sim

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

const (
	PortRangeStart = wire.DefaultUDPPort
	PortRangeEnd   = 10100
)

// BindUDP listens on host:port. Port 0 takes the first free port in
// PortRangeStart..PortRangeEnd.
func BindUDP(host string, port int) (*net.UDPConn, error) {
	if port != 0 {
		return listenUDP(host, port)
	}
	for p := PortRangeStart; p < PortRangeEnd; p++ {
		conn, err := listenUDP(host, p)
		if err == nil {
			return conn, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no free UDP port in %d..%d", PortRangeStart, PortRangeEnd)
}

func listenUDP(host string, port int) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return net.ListenUDP("udp", addr)
}

// ServeUDP decodes datagrams into s until ctx is cancelled. Datagrams of the
// wrong size are dropped and leave the string untouched.
func ServeUDP(ctx context.Context, conn *net.UDPConn, s *String, log zerolog.Logger) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	// One spare byte keeps an oversized datagram from reading as a valid one.
	buf := make([]byte, wire.UDPFrameLen(s.NumGlobes())+1)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("udp read")
			continue
		}
		globes, err := wire.DecodeUDP(buf[:n], s.NumGlobes())
		if err != nil {
			s.Reject()
			log.Warn().Err(err).Stringer("from", from).Msg("dropped datagram")
			continue
		}
		s.Offer(globes)
	}
}

// ServePipe accepts TCP connections carrying frames in the compositor pipe
// format. A malformed frame closes its connection.
func ServePipe(ctx context.Context, ln net.Listener, s *String, log zerolog.Logger) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("pipe accept: %w", err)
		}
		go func() {
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()
			defer conn.Close()
			readPipe(conn, s, log.With().Stringer("from", conn.RemoteAddr()).Logger())
		}()
	}
}

func readPipe(r io.Reader, s *String, log zerolog.Logger) {
	br := bufio.NewReader(r)
	for {
		f, err := wire.DecodePipe(br, s.NumGlobes())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			s.Reject()
			log.Warn().Err(err).Msg("dropped pipe connection")
			return
		}
		s.Offer(f.Globes)
	}
}
