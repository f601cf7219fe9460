package logtypes

import (
	"encoding"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/gobwas/glob"
)

// RedisValue is a value Redis can store as a string: text, integer, float or
// raw bytes. Every RedisValue is an encoding.BinaryMarshaler, which Redis
// clients such as go-redis accept directly as command arguments.
type RedisValue interface {
	encoding.BinaryMarshaler
	redisValue()
}

type (
	RedisString string
	RedisInt    int64
	RedisFloat  float64
	RedisBytes  []byte
)

func (RedisString) redisValue() {}
func (RedisInt) redisValue()    {}
func (RedisFloat) redisValue()  {}
func (RedisBytes) redisValue()  {}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v RedisString) MarshalBinary() ([]byte, error) { return []byte(v), nil }

// MarshalBinary implements encoding.BinaryMarshaler.
func (v RedisInt) MarshalBinary() ([]byte, error) {
	return strconv.AppendInt(nil, int64(v), 10), nil
}

// MarshalBinary implements encoding.BinaryMarshaler using the shortest
// representation that round-trips, as Redis clients do.
func (v RedisFloat) MarshalBinary() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(v), 'f', -1, 64), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v RedisBytes) MarshalBinary() ([]byte, error) { return slices.Clone([]byte(v)), nil }

// RedisValueOf converts a Go scalar into a RedisValue.
func RedisValueOf(v any) (RedisValue, error) {
	switch val := v.(type) {
	case RedisValue:
		return val, nil
	case string:
		return RedisString(val), nil
	case []byte:
		return RedisBytes(slices.Clone(val)), nil
	case int:
		return RedisInt(val), nil
	case int32:
		return RedisInt(val), nil
	case int64:
		return RedisInt(val), nil
	case float32:
		return RedisFloat(val), nil
	case float64:
		return RedisFloat(val), nil
	case bool:
		if val {
			return RedisInt(1), nil
		}

		return RedisInt(0), nil
	default:
		return nil, fmt.Errorf("unsupported redis value type %T", v)
	}
}

// RedisHash is the field/value content of a Redis hash.
type RedisHash map[string]RedisValue

// Args flattens h into field, value pairs ordered by field, ready for HSET.
func (h RedisHash) Args() []any {
	args := make([]any, 0, len(h)*2)

	for _, field := range sortedKeys(h) {
		args = append(args, field, h[field])
	}

	return args
}

// RetentionRule bounds how long, and how many, log entries stored under the
// keys matching KeyPattern are kept. Entries below MinLevel are not covered.
// Unknown keys are kept in Extra for the storage implementation.
type RetentionRule struct {
	Name       string         `yaml:"name"`
	KeyPattern string         `yaml:"keyPattern"`
	MinLevel   Level          `yaml:"minLevel"`
	TTL        time.Duration  `yaml:"ttl"`
	MaxEntries int64          `yaml:"maxEntries"`
	Extra      map[string]any `yaml:",inline"`
}

// Validate checks the pattern and that the rule bounds at least one dimension.
func (r RetentionRule) Validate() error {
	if r.KeyPattern == "" {
		return fmt.Errorf("%w %q: key pattern is required", ErrInvalidRetentionRule, r.Name)
	}

	if _, err := glob.Compile(r.KeyPattern); err != nil {
		return fmt.Errorf("%w %q: key pattern: %w", ErrInvalidRetentionRule, r.Name, err)
	}

	if r.MinLevel < LevelTrace || r.MinLevel > LevelFatal {
		return fmt.Errorf("%w %q: unknown level %d", ErrInvalidRetentionRule, r.Name, r.MinLevel)
	}

	if r.TTL < 0 || r.MaxEntries < 0 {
		return fmt.Errorf("%w %q: ttl and max entries must not be negative", ErrInvalidRetentionRule, r.Name)
	}

	if r.TTL == 0 && r.MaxEntries == 0 {
		return fmt.Errorf("%w %q: ttl or max entries is required", ErrInvalidRetentionRule, r.Name)
	}

	return nil
}

// Matches reports whether r covers an entry at level stored under key.
// KeyPattern is a Redis KEYS style glob: '*' and '?' match any byte,
// including '/' and ':'.
func (r RetentionRule) Matches(key string, level Level) bool {
	if !level.Enabled(r.MinLevel) {
		return false
	}

	g, err := glob.Compile(r.KeyPattern)

	return err == nil && g.Match(key)
}

// RetentionPolicy is an ordered list of rules; the first match applies.
type RetentionPolicy struct {
	Rules []RetentionRule `yaml:"rules"`
}

// Validate validates every rule and rejects duplicate rule names.
func (p RetentionPolicy) Validate() error {
	seen := make(map[string]struct{}, len(p.Rules))

	for _, rule := range p.Rules {
		if err := rule.Validate(); err != nil {
			return err
		}

		if rule.Name == "" {
			continue
		}

		if _, dup := seen[rule.Name]; dup {
			return fmt.Errorf("%w %q: duplicate rule name", ErrInvalidRetentionRule, rule.Name)
		}

		seen[rule.Name] = struct{}{}
	}

	return nil
}

// Match returns the first rule covering an entry at level stored under key.
func (p RetentionPolicy) Match(key string, level Level) (RetentionRule, bool) {
	for _, rule := range p.Rules {
		if rule.Matches(key, level) {
			return rule, true
		}
	}

	return RetentionRule{}, false
}
