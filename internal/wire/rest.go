package wire

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// RESTPath is the resource a Holiday exposes for setting all lights at once.
const RESTPath = "/device/light/setlights"

// Lights is the JSON body of the REST API and of pattern files.
type Lights struct {
	Lights []string `json:"lights"`
}

func EncodeREST(globes []model.Color) ([]byte, error) {
	msg := Lights{Lights: make([]string, len(globes))}
	for i, g := range globes {
		msg.Lights[i] = g.Hex()
	}
	return json.Marshal(msg)
}

// DecodeREST parses a lights body. n <= 0 accepts any length.
func DecodeREST(body []byte, n int) ([]model.Color, error) {
	var msg Lights
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n > 0 && len(msg.Lights) != n {
		return nil, fmt.Errorf("%w: %d lights, want %d", ErrFrameLength, len(msg.Lights), n)
	}
	globes := make([]model.Color, len(msg.Lights))
	for i, s := range msg.Lights {
		c, err := model.ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: light %d: %v", ErrMalformed, i, err)
		}
		globes[i] = c
	}
	return globes, nil
}

// LoadPatternFile reads a JSON pattern file in the REST body format.
func LoadPatternFile(path string, n int) ([]model.Color, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := DecodeREST(b, n)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", path, err)
	}
	return p, nil
}
