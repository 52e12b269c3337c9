package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values. Every key has a
// working default so the binaries run without a config file.
type Config struct {
	// Scene
	OffsetSpacing float64

	// Web viewer
	WebPort int

	// MQTT replay
	MQTTBroker         string
	MQTTClientIDReplay string
	TopicFrame         string
	ReplayRateHz       int

	// Recorder
	SerialPort    string
	SerialBaud    int
	GPSSerialPort string
	GPSBaudRate   int
	OutputCSV     string
	GPSOutputCSV  string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		OffsetSpacing:      0.2,
		WebPort:            8080,
		MQTTBroker:         "tcp://localhost:1883",
		MQTTClientIDReplay: "motion-playback-replay",
		TopicFrame:         "playback/frame",
		ReplayRateHz:       100,
		SerialPort:         "/dev/ttyUSB0",
		SerialBaud:         115200,
		GPSSerialPort:      "",
		GPSBaudRate:        9600,
		OutputCSV:          "recording.csv",
		GPSOutputCSV:       "recording_gps.csv",
	}
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads a KEY=VALUE configuration file over the defaults. Blank
// lines and lines starting with # are ignored.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	case "OFFSET_SPACING":
		spacing, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid OFFSET_SPACING %q: %w", value, err)
		}
		if spacing <= 0 {
			return fmt.Errorf("OFFSET_SPACING must be positive, got %v", spacing)
		}
		c.OffsetSpacing = spacing

	case "WEB_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_PORT %q: %w", value, err)
		}
		c.WebPort = port

	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_REPLAY":
		c.MQTTClientIDReplay = value
	case "TOPIC_FRAME":
		c.TopicFrame = value
	case "REPLAY_RATE_HZ":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid REPLAY_RATE_HZ %q: %w", value, err)
		}
		// Capped so the replay ticker interval (1s / rate) stays non-zero.
		if rate <= 0 || rate > 1000 {
			return fmt.Errorf("REPLAY_RATE_HZ must be 1-1000, got %d", rate)
		}
		c.ReplayRateHz = rate

	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD %q: %w", value, err)
		}
		c.SerialBaud = baud
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate
	case "OUTPUT_CSV":
		c.OutputCSV = value
	case "GPS_OUTPUT_CSV":
		c.GPSOutputCSV = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks cross-field constraints.
func (c *Config) validate() error {
	if c.WebPort <= 0 || c.WebPort > 65535 {
		return fmt.Errorf("WEB_PORT out of range: %d", c.WebPort)
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicFrame == "" {
		return fmt.Errorf("TOPIC_FRAME is required")
	}
	return nil
}

// InitGlobal initializes the global configuration. An empty path keeps
// the defaults. Uses sync.Once so repeated calls are harmless.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if configPath == "" {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be
// called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
