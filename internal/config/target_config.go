package config

import "strings"

// TargetConfig describes the page being watched and what counts as a hit.
type TargetConfig struct {
	URL       string   `json:"url,omitempty" yaml:"url,omitempty" validate:"required,url"`
	Keywords  []string `json:"keywords,omitempty" yaml:"keywords,omitempty" validate:"required,min=1,dive,required"`
	SiteName  string   `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	EventName string   `json:"event_name,omitempty" yaml:"event_name,omitempty"`
}

// NewDefaultTargetConfig creates default target configuration
func NewDefaultTargetConfig() TargetConfig {
	keywords := make([]string, len(DefaultTargetKeywords))
	copy(keywords, DefaultTargetKeywords)
	return TargetConfig{
		URL:       DefaultTargetURL,
		Keywords:  keywords,
		SiteName:  DefaultTargetSiteName,
		EventName: DefaultTargetEventName,
	}
}

// NormalizedKeywords returns the keywords lowercased and trimmed, skipping blanks.
func (tc TargetConfig) NormalizedKeywords() []string {
	out := make([]string, 0, len(tc.Keywords))
	for _, kw := range tc.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
