package wire

import (
	"bufio"
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

func randomString(r *rand.Rand, n int) []model.Color {
	out := make([]model.Color, n)
	for i := range out {
		out[i] = model.Color{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256))}
	}
	return out
}

func TestUDPLayout(t *testing.T) {
	globes := []model.Color{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	packet := EncodeUDP(globes)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4, 5, 6}, packet)
	assert.Equal(t, 160, UDPFrameLen(model.DefaultNumGlobes))
}

func TestUDPRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 7, model.DefaultNumGlobes, 150} {
		for k := 0; k < 20; k++ {
			globes := randomString(r, n)
			got, err := DecodeUDP(EncodeUDP(globes), n)
			require.NoError(t, err)
			assert.Equal(t, globes, got)
		}
	}
}

func TestUDPRejectsWrongLength(t *testing.T) {
	n := model.DefaultNumGlobes
	good := EncodeUDP(make([]model.Color, n))
	for _, packet := range [][]byte{nil, good[:len(good)-1], append(good, 0), good[:UDPHeaderLen]} {
		_, err := DecodeUDP(packet, n)
		assert.ErrorIs(t, err, ErrFrameLength)
	}
}

func TestPipeLayout(t *testing.T) {
	out := EncodePipe(0x1234, []model.Color{{R: 0xab, G: 0xcd, B: 0xef}, {R: 0, G: 0, B: 1}})
	assert.Equal(t, "0x000010\n0x001234\n0xABCDEF\n0x000001\n", string(out))
}

func TestPipeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	globes := randomString(r, model.DefaultNumGlobes)
	stream := append(EncodePipe(99, globes), EncodePipe(100, globes[:])...)

	br := bufio.NewReader(bytes.NewReader(stream))
	f, err := DecodePipe(br, model.DefaultNumGlobes)
	require.NoError(t, err)
	assert.Equal(t, 99, f.PID)
	assert.Equal(t, globes, f.Globes)

	f, err = DecodePipe(br, model.DefaultNumGlobes)
	require.NoError(t, err)
	assert.Equal(t, 100, f.PID)
}

func TestPipeAcceptsLowerCase(t *testing.T) {
	in := "0x000010\n0x00002a\n0xabcdef\n"
	f, err := DecodePipe(bufio.NewReader(strings.NewReader(in)), 1)
	require.NoError(t, err)
	assert.Equal(t, 42, f.PID)
	assert.Equal(t, model.Color{R: 0xab, G: 0xcd, B: 0xef}, f.Globes[0])
}

func TestPipeMalformed(t *testing.T) {
	cases := map[string]string{
		"bad header": "0x000011\n0x000001\n0x000000\n",
		"truncated":  "0x000010\n0x000001\n0x000000\n",
		"bad digits": "0x000010\n0x000001\n0xZZ0000\n0x000000\n",
		"short line": "0x000010\n0x000001\n0x0000\n0x000000\n",
		"no newline": "0x000010\n0x000001\n0x000000\n0x0000",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePipe(bufio.NewReader(strings.NewReader(in)), 2)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestRESTRoundTrip(t *testing.T) {
	globes := []model.Color{{R: 0xff, G: 0, B: 0}, {R: 0x12, G: 0x34, B: 0x56}}
	body, err := EncodeREST(globes)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lights":["#ff0000","#123456"]}`, string(body))

	got, err := DecodeREST(body, 2)
	require.NoError(t, err)
	assert.Equal(t, globes, got)

	_, err = DecodeREST(body, 3)
	assert.ErrorIs(t, err, ErrFrameLength)
	_, err = DecodeREST([]byte(`{"lights":["#12"]}`), 0)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeREST([]byte(`{`), 0)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLoadPatternFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xmas.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lights":["#ff0000","#00ff00","#ff0000"]}`), 0o644))

	p, err := LoadPatternFile(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []model.Color{model.Red, model.Green, model.Red}, p)

	_, err = LoadPatternFile(path, 50)
	assert.ErrorIs(t, err, ErrFrameLength)
}
