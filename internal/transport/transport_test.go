package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

func pattern(n int) []model.Color {
	p := make([]model.Color, n)
	for i := range p {
		p[i] = model.Color{R: uint8(i * 5), G: uint8(255 - i), B: uint8(i)}
	}
	return p
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("UDP")
	require.NoError(t, err)
	assert.Equal(t, KindUDP, k)
	_, err = ParseKind("serial")
	assert.Error(t, err)
}

func TestSplitHostPort(t *testing.T) {
	h, p, err := SplitHostPort("10.0.0.4", 9988)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.4", h)
	assert.Equal(t, 9988, p)

	h, p, err = SplitHostPort("localhost:9990", 9988)
	require.NoError(t, err)
	assert.Equal(t, "localhost", h)
	assert.Equal(t, 9990, p)

	_, _, err = SplitHostPort("localhost:nope", 9988)
	assert.Error(t, err)
}

func TestPipeWritesFrame(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipe(&buf, 4321)
	globes := pattern(model.DefaultNumGlobes)

	require.NoError(t, p.Send(context.Background(), globes))
	assert.Equal(t, wire.EncodePipe(4321, globes), buf.Bytes())

	f, err := wire.DecodePipe(bufio.NewReader(&buf), model.DefaultNumGlobes)
	require.NoError(t, err)
	assert.Equal(t, globes, f.Globes)
	assert.Equal(t, 4321, f.PID)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestPipeSurfacesWriteError(t *testing.T) {
	p := NewPipe(failWriter{}, 1)
	err := p.Send(context.Background(), pattern(3))
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	require.NoError(t, p.Close())
	assert.Error(t, p.Send(context.Background(), pattern(3)))
}

func TestUDPSendsOneDatagram(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	u, err := NewUDP("127.0.0.1", port)
	require.NoError(t, err)
	defer u.Close()

	globes := pattern(model.DefaultNumGlobes)
	require.NoError(t, u.Send(context.Background(), globes))

	buf := make([]byte, 512)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, wire.UDPFrameLen(model.DefaultNumGlobes), n)

	got, err := wire.DecodeUDP(buf[:n], model.DefaultNumGlobes)
	require.NoError(t, err)
	assert.Equal(t, globes, got)
}

func TestUDPHonoursCancelledContext(t *testing.T) {
	u, err := NewUDP("127.0.0.1", 9)
	require.NoError(t, err)
	defer u.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, u.Send(ctx, pattern(2)), context.Canceled)
}

func TestUDPSendAfterClose(t *testing.T) {
	u, err := NewUDP("127.0.0.1", 9)
	require.NoError(t, err)
	require.NoError(t, u.Close())
	assert.ErrorIs(t, u.Send(context.Background(), pattern(2)), net.ErrClosed)
}

func TestRESTPutsLights(t *testing.T) {
	var got []model.Color
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, wire.RESTPath, r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var err error
		got, err = wire.DecodeREST(body, 0)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewREST(srv.URL)
	globes := pattern(10)
	require.NoError(t, r.Send(context.Background(), globes))
	assert.Equal(t, globes, got)
	require.NoError(t, r.Close())
}

func TestRESTStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewREST(srv.URL).Send(context.Background(), pattern(2))
	assert.ErrorContains(t, err, "400")
}

func TestRESTAddressForms(t *testing.T) {
	assert.Equal(t, "http://holiday.local:8080/device/light/setlights", NewREST("holiday.local:8080").URL())
	assert.Equal(t, "https://h/device/light/setlights", NewREST("https://h/").URL())
}

func TestSPIDrawsStrip(t *testing.T) {
	buf := bytes.Buffer{}
	o := nrzled.Opts{NumPixels: 4, Channels: 3, Freq: SPIFreq}
	d, err := nrzled.NewSPI(spitest.NewRecordRaw(&buf), &o)
	require.NoError(t, err)

	s := NewSPI(d, nil, false)
	assert.Equal(t, "spi{nrzled{recordraw}}", s.String())

	require.NoError(t, s.Send(context.Background(), pattern(4)))
	assert.NotZero(t, buf.Len())

	require.NoError(t, s.Close())
	assert.Error(t, s.Send(context.Background(), pattern(4)))
}
