package soaprouter

import "time"

// ApplyDefaults fills any zero-valued fields with the router's
// out-of-the-box settings.
func (c *RouterConfig) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.EventsPath == "" {
		c.EventsPath = "/_events"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/_metrics"
	}
	if c.ObserverAlgorithm == "" {
		c.ObserverAlgorithm = string(AlgorithmBcrypt)
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// ToServerConfig projects the timeout/transport fields of a
// RouterConfig onto a ServerConfig for NewServer.
func (c *RouterConfig) ToServerConfig() ServerConfig {
	cfg := DefaultServerConfig()
	cfg.ReadTimeout = c.ReadTimeout
	cfg.WriteTimeout = c.WriteTimeout
	cfg.IdleTimeout = c.IdleTimeout
	cfg.ShutdownTimeout = c.ShutdownTimeout
	cfg.EnableHTTP2 = c.EnableHTTP2
	cfg.EnableQUIC = c.EnableQUIC
	return cfg
}
