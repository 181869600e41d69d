package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Port string `yaml:"port"` // e.g. /dev/spidev0.0, empty for the first one
}

// Limit dims frames to a power budget before they are sent.
type Limit struct {
	WhiteCap float64 `yaml:"white_cap"` // fraction of full white per globe, 0 disables
	BudgetmA float64 `yaml:"budget_ma"` // whole string, 0 disables
}

func (l Limit) Enabled() bool {
	return (l.WhiteCap > 0 && l.WhiteCap < 1) || l.BudgetmA > 0
}

type Sim struct {
	NumStrings int    `yaml:"num_strings"`
	PortStart  int    `yaml:"port_start"` // 0 searches 9988..10100
	TCPStart   int    `yaml:"tcp_start"`  // pipe-format listeners, 0 disables
	HTTPStart  int    `yaml:"http_start"` // REST listeners, 0 disables
	ViewerAddr string `yaml:"viewer_addr"`
	Console    bool   `yaml:"console"`
}

type Config struct {
	Transport   string   `yaml:"transport"` // "udp" | "rest" | "pipe" | "spi"
	Devices     []string `yaml:"devices"`   // host[:port] per string
	Host        string   `yaml:"host"`      // used with NumStrings/PortStart when Devices is empty
	NumStrings  int      `yaml:"num_strings"`
	PortStart   int      `yaml:"port_start"`
	Globes      int      `yaml:"globes"`
	FPS         float64  `yaml:"fps"`
	Switchback  int      `yaml:"switchback"`
	Orientation string   `yaml:"orientation"` // "vertical" | "horizontal"
	StopOnError bool     `yaml:"stop_on_error"`
	LogLevel    string   `yaml:"log_level"`

	Limit Limit `yaml:"limit,omitempty"`
	SPI   SPI   `yaml:"spi,omitempty"`
	Sim   Sim   `yaml:"sim,omitempty"`
}

func Default() *Config {
	return &Config{
		Transport:   "udp",
		Host:        "localhost",
		NumStrings:  1,
		PortStart:   9988,
		Globes:      50,
		FPS:         10,
		Orientation: "vertical",
		LogLevel:    "info",
		Sim: Sim{
			NumStrings: 1,
			ViewerAddr: ":8080",
			Console:    true,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Globes <= 0 {
		errs = append(errs, fmt.Errorf("globes must be positive, got %d", c.Globes))
	}
	if c.Switchback < 0 || c.Switchback > c.Globes {
		errs = append(errs, fmt.Errorf("switchback %d outside 0..%d", c.Switchback, c.Globes))
	}
	if c.FPS < 0 {
		errs = append(errs, fmt.Errorf("fps must not be negative, got %g", c.FPS))
	}
	if c.Limit.WhiteCap < 0 || c.Limit.WhiteCap > 1 || c.Limit.BudgetmA < 0 {
		errs = append(errs, fmt.Errorf("limit out of range: white_cap %g, budget_ma %g", c.Limit.WhiteCap, c.Limit.BudgetmA))
	}
	if c.NumStrings < 0 || c.Sim.NumStrings < 0 {
		errs = append(errs, errors.New("string counts must not be negative"))
	}
	return errors.Join(errs...)
}

// Addrs returns one address per string: the explicit device list when set,
// otherwise Host with consecutive ports from PortStart.
func (c *Config) Addrs() []string {
	if len(c.Devices) > 0 {
		return c.Devices
	}
	out := make([]string, c.NumStrings)
	for i := range out {
		out[i] = fmt.Sprintf("%s:%d", c.Host, c.PortStart+i)
	}
	return out
}
