package config

import "time"

// MonitorConfig controls the polling loop and the alert burst
type MonitorConfig struct {
	CheckIntervalSeconds    int `json:"check_interval_seconds,omitempty" yaml:"check_interval_seconds,omitempty" validate:"min=1"`
	ReminderIntervalSeconds int `json:"reminder_interval_seconds,omitempty" yaml:"reminder_interval_seconds,omitempty" validate:"min=1"`
	// AlertBurstSize is the total number of emails, the first one included.
	AlertBurstSize int `json:"alert_burst_size,omitempty" yaml:"alert_burst_size,omitempty" validate:"min=1,max=100"`
	// MetricsAddr enables the Prometheus endpoint when set, e.g. ":9090".
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CheckIntervalSeconds:    DefaultCheckIntervalSeconds,
		ReminderIntervalSeconds: DefaultReminderIntervalSeconds,
		AlertBurstSize:          DefaultAlertBurstSize,
	}
}

// CheckInterval returns the wait between page checks
func (mc MonitorConfig) CheckInterval() time.Duration {
	return time.Duration(mc.CheckIntervalSeconds) * time.Second
}

// ReminderInterval returns the wait between two emails of a burst
func (mc MonitorConfig) ReminderInterval() time.Duration {
	return time.Duration(mc.ReminderIntervalSeconds) * time.Second
}
