package preview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce is the default debounce for followed sources.
const DefaultDebounce = 100 * time.Millisecond

// validate is the shared validator instance.
var validate = validator.New()

// Duration is a time.Duration that decodes from strings like "50ms" in
// JSON, YAML and TOML. Plain numbers are read as nanoseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String formats d like time.Duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalText parses a duration string. TOML decoding goes through here.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return d.UnmarshalText([]byte(s))
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s: %w", data, err)
	}
	*d = Duration(n)
	return nil
}

// UnmarshalYAML accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}
	return d.UnmarshalText([]byte(node.Value))
}

// Config is the file form of a Session's tuning.
type Config struct {
	// JoinTimeout bounds how long a request waits for the job it supersedes.
	JoinTimeout Duration `json:"join_timeout" yaml:"join_timeout" toml:"join_timeout" validate:"gte=0"`

	// Debounce coalesces bursts from a followed source.
	Debounce Duration `json:"debounce" yaml:"debounce" toml:"debounce" validate:"gte=0"`

	// FormatTimeout bounds each formatter call. Zero leaves it unbounded.
	FormatTimeout Duration `json:"format_timeout" yaml:"format_timeout" toml:"format_timeout" validate:"gte=0"`

	// ErrorHistory is how many recent errors to keep. Zero keeps only the last one.
	ErrorHistory int `json:"error_history" yaml:"error_history" toml:"error_history" validate:"gte=0,lte=1024"`

	// QuietLevel is the verbosity used while the formatter runs.
	QuietLevel int `json:"quiet_level" yaml:"quiet_level" toml:"quiet_level" validate:"gte=0"`

	// QueueSize is the capacity of the display update queue.
	QueueSize int `json:"queue_size" yaml:"queue_size" toml:"queue_size" validate:"gte=0"`
}

// DefaultConfig returns the configuration a Session uses when none is given.
func DefaultConfig() Config {
	return Config{
		JoinTimeout: Duration(DefaultJoinTimeout),
		Debounce:    Duration(DefaultDebounce),
		QuietLevel:  DefaultQuietLevel,
		QueueSize:   DefaultQueueSize,
	}
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// LoadConfig decodes data over DefaultConfig and validates the result.
func LoadConfig(data []byte, codec Codec) (Config, error) {
	cfg := DefaultConfig()
	if err := codec.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s config: %w", codec.ContentType(), err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}
