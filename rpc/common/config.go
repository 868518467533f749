package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Persistence Mode
// --------------------------------------------------------------------------

// PersistMode controls when the dictionary file is rewritten
type PersistMode string

const (
	// PersistOnMutation rewrites the file only after a command changed the dictionary
	PersistOnMutation PersistMode = "mutation"
	// PersistAlways rewrites the file after every command, including getMeaning.
	// Lookups and failed mutations are saved too.
	PersistAlways PersistMode = "always"
)

// ParsePersistMode converts a string to a PersistMode
func ParsePersistMode(s string) (PersistMode, error) {
	switch PersistMode(strings.ToLower(strings.TrimSpace(s))) {
	case PersistOnMutation:
		return PersistOnMutation, nil
	case PersistAlways:
		return PersistAlways, nil
	default:
		return "", fmt.Errorf("invalid persist mode %q (expected %s or %s)", s, PersistOnMutation, PersistAlways)
	}
}

// --------------------------------------------------------------------------
// Socket configuration
// --------------------------------------------------------------------------

// TCPConf holds options applied to every accepted or dialed TCP connection
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 disables keep-alive
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the dictionary server.
type ServerConfig struct {
	// Listen address, e.g. ":3000" or "127.0.0.1:0"
	Endpoint string
	// Number of workers (= concurrently served connections)
	PoolSize int
	// Path of the persisted dictionary
	DictionaryFile string
	// When to rewrite the dictionary file
	PersistMode PersistMode

	// Admin HTTP api (empty disables it)
	AdminEndpoint string

	// Interval for the periodic statistics log line (0 disables it)
	StatsIntervalSecond int

	// Socket options
	TCP TCPConf

	// Logging configuration
	LogLevel string
}

// EndpointForPort returns the listen address for a port on all interfaces
func EndpointForPort(port int) string {
	return net.JoinHostPort("", strconv.Itoa(port))
}

// Validate checks the configuration for invalid values
func (c *ServerConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if _, _, err := net.SplitHostPort(c.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if c.PoolSize < 1 || c.PoolSize > 255 {
		return fmt.Errorf("pool size must be between 1 and 255, got %d", c.PoolSize)
	}
	if c.DictionaryFile == "" {
		return fmt.Errorf("dictionary file must not be empty")
	}
	if _, err := ParsePersistMode(string(c.PersistMode)); err != nil {
		return err
	}
	if c.StatsIntervalSecond < 0 {
		return fmt.Errorf("stats interval must not be negative")
	}
	if c.TCP.TCPKeepAliveSec < 0 {
		return fmt.Errorf("tcp keepalive must not be negative")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Dictionary Server")
	addField("Endpoint", c.Endpoint)
	addField("Pool Size", strconv.Itoa(c.PoolSize))

	addSection("Storage")
	addField("Dictionary File", c.DictionaryFile)
	addField("Persist Mode", string(c.PersistMode))

	addSection("TCP")
	addField("No Delay", strconv.FormatBool(c.TCP.TCPNoDelay))
	addField("Keep Alive", fmt.Sprintf("%d sec", c.TCP.TCPKeepAliveSec))

	addSection("Observability")
	if c.AdminEndpoint == "" {
		addField("Admin Endpoint", "disabled")
	} else {
		addField("Admin Endpoint", c.AdminEndpoint)
	}
	addField("Stats Interval", fmt.Sprintf("%d sec", c.StatsIntervalSecond))
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the configuration of a dictionary client
type ClientConfig struct {
	Host string
	Port int
	// Timeout for establishing the connection (0 = no timeout).
	// There is no timeout while waiting for a free worker or for a response.
	DialTimeoutSecond int
	TCP               TCPConf
}

// Address returns host:port
func (c *ClientConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the configuration for invalid values
func (c *ClientConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DialTimeoutSecond < 0 {
		return fmt.Errorf("dial timeout must not be negative")
	}
	return nil
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Server", c.Address())
	addField("Dial Timeout", fmt.Sprintf("%d sec", c.DialTimeoutSecond))
	addField("No Delay", strconv.FormatBool(c.TCP.TCPNoDelay))

	return sb.String()
}
