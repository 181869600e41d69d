// Package transport implements the render backends a Device can push its
// string through: the local compositor pipe, UDP datagrams, the REST API and
// a locally attached SPI strip.
package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

// Kind names a backend on the command line and in config files.
type Kind string

const (
	KindUDP  Kind = "udp"
	KindREST Kind = "rest"
	KindPipe Kind = "pipe"
	KindSPI  Kind = "spi"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindUDP, KindREST, KindPipe, KindSPI:
		return k, nil
	}
	return "", fmt.Errorf("unknown transport %q (udp|rest|pipe|spi)", s)
}

// Target describes where one device lives.
type Target struct {
	Kind Kind
	// Addr is host[:port] for udp and rest, the FIFO path for pipe and the
	// port name for spi.
	Addr string
	// Globes of the string; used by spi to size the strip.
	Globes int
}

// Open builds the transport for a target.
func Open(t Target) (model.Transport, error) {
	switch t.Kind {
	case KindUDP:
		host, port, err := SplitHostPort(t.Addr, wire.DefaultUDPPort)
		if err != nil {
			return nil, err
		}
		return NewUDP(host, port)
	case KindREST:
		return NewREST(t.Addr), nil
	case KindPipe:
		return OpenPipe(t.Addr)
	case KindSPI:
		return OpenSPI(t.Addr, t.Globes)
	}
	return nil, fmt.Errorf("unknown transport %q", t.Kind)
}

// SplitHostPort accepts "host", "host:port" and ":port".
func SplitHostPort(addr string, defaultPort int) (string, int, error) {
	if !strings.Contains(addr, ":") {
		return addr, defaultPort, nil
	}
	host, ps, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(ps)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("address %q: bad port %q", addr, ps)
	}
	return host, port, nil
}
