package config

import "git.home.luguber.info/inful/gitbatch/internal/foundation/normalization"

// Log output formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var logFormats = normalization.NewNormalizer(map[string]string{
	LogFormatJSON: LogFormatJSON,
	LogFormatText: LogFormatText,
}, "")

// NormalizeLogFormat trims and lower-cases raw. Unknown values are returned
// unchanged so that Validate can name them.
func NormalizeLogFormat(raw string) string {
	if f, err := logFormats.NormalizeWithError(raw); err == nil {
		return f
	}
	return raw
}
