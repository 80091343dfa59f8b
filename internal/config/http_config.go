package config

import "time"

// HTTPConfig defines how the target page is fetched
type HTTPConfig struct {
	TimeoutSeconds     int               `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
	UserAgent          string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"required"`
	FollowRedirects    bool              `json:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects       int               `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"min=0"`
	MaxBodyBytes       int64             `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" validate:"min=0"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	EnableHTTP2        bool              `json:"enable_http2" yaml:"enable_http2"`
	Proxy              string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	CustomHeaders      map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
}

// NewDefaultHTTPConfig creates default HTTP configuration
func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		TimeoutSeconds:     DefaultHTTPTimeoutSeconds,
		UserAgent:          DefaultHTTPUserAgent,
		FollowRedirects:    true,
		MaxRedirects:       DefaultHTTPMaxRedirects,
		MaxBodyBytes:       DefaultHTTPMaxBodyBytes,
		InsecureSkipVerify: false,
		EnableHTTP2:        true,
		CustomHeaders:      map[string]string{},
	}
}

// Timeout returns the per-request timeout
func (hc HTTPConfig) Timeout() time.Duration {
	return time.Duration(hc.TimeoutSeconds) * time.Second
}
