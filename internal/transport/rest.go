package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

// REST sets all lights with one PUT per frame.
type REST struct {
	url    string
	client *http.Client
}

// NewREST targets addr, given as host[:port] or a full http(s) URL base.
func NewREST(addr string) *REST {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &REST{
		url:    base + wire.RESTPath,
		client: &http.Client{Timeout: 2 * time.Second},
	}
}

func (r *REST) URL() string {
	return r.url
}

func (r *REST) Send(ctx context.Context, globes []model.Color) error {
	body, err := wire.EncodeREST(globes)
	if err != nil {
		return fmt.Errorf("rest: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("rest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("rest: put %s: %w", r.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("rest: put %s: %s", r.url, resp.Status)
	}
	return nil
}

func (r *REST) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
