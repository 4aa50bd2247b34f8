// Package env sets up a driver from flags, environment and a config file.
package env

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/link"
	// link implementations.
	_ "github.com/robotalks/emcu.go/pkg/emcu/link/all"
	"github.com/robotalks/emcu.go/pkg/emcu/wire"
)

// Config provides common options to set up a driver.
type Config struct {
	// Link is the URL of the link to the EMCU.
	// e.g. serial:///dev/ttyUSB0?baud=9600
	Link string `yaml:"link,omitempty"`
	// Header is the link header in hex.
	Header string `yaml:"header,omitempty"`
	// ChecksumWindow is "header+length" or "header".
	ChecksumWindow string        `yaml:"checksum_window,omitempty"`
	SettleDelay    time.Duration `yaml:"settle_delay,omitempty"`
	VerifyReplies  bool          `yaml:"verify_replies,omitempty"`

	// MQTTURL and Device locate a bridged EMCU when Link is empty.
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string `yaml:"mqtt_url,omitempty"`
	Device  string `yaml:"device,omitempty"`

	// ConfigFile is a YAML file of the fields above.
	ConfigFile string `yaml:"-"`
}

var defaultConfig = Config{
	Header:         hex.EncodeToString(wire.DefaultHeader),
	ChecksumWindow: wire.WindowHeaderAndLength.String(),
	SettleDelay:    emcu.DefaultSettleDelay,
	MQTTURL:        "mqtt://localhost:1883/emcu/",
}

func init() {
	if val := os.Getenv("EMCU_LINK"); val != "" {
		defaultConfig.Link = val
	}
	if val := os.Getenv("EMCU_HEADER"); val != "" {
		defaultConfig.Header = val
	}
	if val := os.Getenv("EMCU_SETTLE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			defaultConfig.SettleDelay = d
		}
	}
	if val := os.Getenv("EMCU_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("EMCU_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("EMCU_CONFIG"); val != "" {
		defaultConfig.ConfigFile = val
	}
}

var configFlags = map[string]bool{
	"link": true, "header": true, "checksum-window": true, "settle": true,
	"verify-replies": true, "mqtt": true, "device": true,
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Link, "link", defaultConfig.Link, "EMCU link URL")
	flag.StringVar(&defaultConfig.Header, "header", defaultConfig.Header, "Link header in hex")
	flag.StringVar(&defaultConfig.ChecksumWindow, "checksum-window", defaultConfig.ChecksumWindow, "Bytes excluded from checksum: header+length or header")
	flag.DurationVar(&defaultConfig.SettleDelay, "settle", defaultConfig.SettleDelay, "Delay between command and reply")
	flag.BoolVar(&defaultConfig.VerifyReplies, "verify-replies", defaultConfig.VerifyReplies, "Verify replies as checksummed frames")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Bridged device name")
	flag.StringVar(&defaultConfig.ConfigFile, "config", defaultConfig.ConfigFile, "YAML config file")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load applies the config file on the default config. Flags given on the
// command line take precedence over the file.
func Load() (*Config, error) {
	if defaultConfig.ConfigFile == "" {
		return Default(), nil
	}
	explicit := make(map[*flag.Flag]string)
	if flag.Parsed() {
		flag.Visit(func(f *flag.Flag) {
			if configFlags[f.Name] {
				explicit[f] = f.Value.String()
			}
		})
	}
	if err := defaultConfig.LoadFile(defaultConfig.ConfigFile); err != nil {
		return nil, err
	}
	for f, val := range explicit {
		if err := f.Value.Set(val); err != nil {
			return nil, fmt.Errorf("flag -%s: %w", f.Name, err)
		}
	}
	return Default(), nil
}

// MustLoad loads the config and fails on error.
func MustLoad() *Config {
	conf, err := Load()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// LoadFile decodes YAML file path into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// LinkURL returns the link URL, falling back to the bridge of Device.
func (c *Config) LinkURL() (string, error) {
	if c.Link != "" {
		return c.Link, nil
	}
	if c.Device == "" {
		return "", fmt.Errorf("link or device must be specified")
	}
	u, err := url.Parse(c.MQTTURL)
	if err != nil {
		return "", fmt.Errorf("invalid MQTT URL: %w", err)
	}
	q := u.Query()
	q.Set("device", c.Device)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Codec creates the frame codec.
func (c *Config) Codec() (*wire.Codec, error) {
	header, err := hex.DecodeString(c.Header)
	if err != nil {
		return nil, fmt.Errorf("invalid header %q: %w", c.Header, err)
	}
	window, err := wire.ParseWindow(c.ChecksumWindow)
	if err != nil {
		return nil, err
	}
	return &wire.Codec{Header: header, Window: window}, nil
}

// NewSession creates a Session without a link.
func (c *Config) NewSession() (*emcu.Session, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}
	s := emcu.NewSession(nil)
	s.Codec = codec
	s.SettleDelay = c.SettleDelay
	s.VerifyReplies = c.VerifyReplies
	return s, nil
}

// OpenLink opens the configured link.
func (c *Config) OpenLink() (link.Link, error) {
	rawURL, err := c.LinkURL()
	if err != nil {
		return nil, err
	}
	glog.Infof("opening link %s", rawURL)
	return link.Open(rawURL)
}

// Connect opens the link and creates a Driver on it.
func (c *Config) Connect() (*emcu.Driver, error) {
	s, err := c.NewSession()
	if err != nil {
		return nil, err
	}
	l, err := c.OpenLink()
	if err != nil {
		return nil, err
	}
	s.Attach(l)
	return emcu.NewDriver(s), nil
}

// MustConnect connects and fails on error.
func (c *Config) MustConnect() *emcu.Driver {
	drv, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return drv
}
