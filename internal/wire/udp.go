package wire

import (
	"fmt"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

const (
	// UDPHeaderLen bytes lead every datagram. They are reserved and sent as zero.
	UDPHeaderLen = 10
	// DefaultUDPPort is where a Holiday listens for frames.
	DefaultUDPPort = 9988
)

// UDPFrameLen is the only valid datagram size for a string of n globes.
func UDPFrameLen(n int) int {
	return UDPHeaderLen + 3*n
}

// EncodeUDP builds the datagram for a string: the zero header then R,G,B per
// globe in index order.
func EncodeUDP(globes []model.Color) []byte {
	packet := make([]byte, UDPFrameLen(len(globes)))
	off := UDPHeaderLen
	for _, g := range globes {
		packet[off+0] = g.R
		packet[off+1] = g.G
		packet[off+2] = g.B
		off += 3
	}
	return packet
}

// DecodeUDP rebuilds a string of n globes. Any other datagram size is rejected.
func DecodeUDP(packet []byte, n int) ([]model.Color, error) {
	if len(packet) != UDPFrameLen(n) {
		return nil, fmt.Errorf("%w: udp datagram is %d bytes, want %d", ErrFrameLength, len(packet), UDPFrameLen(n))
	}
	globes := make([]model.Color, n)
	data := packet[UDPHeaderLen:]
	for i := range globes {
		globes[i] = model.Color{R: data[i*3+0], G: data[i*3+1], B: data[i*3+2]}
	}
	return globes, nil
}
