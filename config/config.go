// Package config provides the configuration of a dictscot instance. Configuration is layered with
// viper (defaults, config file, environment) and resolved once at startup into a validated BotConfig
// that is handed to the components that need it
package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	PlatformKey                           = "platform"              // Chat platform to connect to: discord or slack
	TokenKey                              = "token"                 // Bot credential, string value
	APIURLKey                             = "apiURL"                // Base url of the dictionary service
	TransformURLKey                       = "transformURL"          // Url of the text transformation service. Leaving it empty disables transformation
	DebugKey                              = "debug"                 // Debug mode, boolean value
	HTTPTimeoutKey                        = "httpTimeout"           // Timeout of each http call to the dictionary and transformation services
	HandledEventCacheSizeKey              = "handledEventCacheSize" // The number of handled event ids kept to drop re-delivered events
	GuildIDKey                            = "guildID"               // Discord guild to register commands in. Commands are registered globally when empty
	ThreadedRepliesKey                    = "threadedReplies"       // Reply in threads (slack only), boolean value
	MessageProcessingPartitionCount       = "advanced.messageProcessingPartitionCount"
	MessageProcessingBufferedMessageCount = "advanced.messageProcessingBufferedMessageCount"
)

// Environment variables bound to configuration keys
const (
	TokenEnv        = "TOKEN"
	APIURLEnv       = "API_URL"
	TransformURLEnv = "HYOKACHAN_URL"
	envPrefix       = "DICTSCOT"
)

// Platform values
const (
	DiscordPlatform = "discord"
	SlackPlatform   = "slack"
)

const (
	defaultPlatform                     = DiscordPlatform
	defaultHTTPTimeout                  = 30 * time.Second
	defaultHandledEventCacheSize        = 5000
	defaultMessageProcessingPartitions  = 16
	defaultMessageProcessingBufferCount = 10
)

// BotConfig holds the resolved configuration of a dictscot instance
type BotConfig struct {
	Platform              string         `mapstructure:"platform" validate:"required,oneof=discord slack"`
	Token                 string         `mapstructure:"token" validate:"required"`
	APIURL                string         `mapstructure:"apiURL" validate:"required,url"`
	TransformURL          string         `mapstructure:"transformURL" validate:"omitempty,url"`
	Debug                 bool           `mapstructure:"debug"`
	HTTPTimeout           time.Duration  `mapstructure:"httpTimeout" validate:"gte=0"`
	HandledEventCacheSize int            `mapstructure:"handledEventCacheSize" validate:"gt=0"`
	GuildID               string         `mapstructure:"guildID"`
	ThreadedReplies       bool           `mapstructure:"threadedReplies"`
	Advanced              AdvancedConfig `mapstructure:"advanced"`
}

// AdvancedConfig holds tuning values of the event processing
type AdvancedConfig struct {
	MessageProcessingPartitionCount       int `mapstructure:"messageProcessingPartitionCount" validate:"gt=0"`
	MessageProcessingBufferedMessageCount int `mapstructure:"messageProcessingBufferedMessageCount" validate:"gte=0"`
}

// TransformEnabled returns true if a transformation service is configured
func (c BotConfig) TransformEnabled() bool {
	return c.TransformURL != ""
}

// ConfigurationError is returned when required configuration is missing or invalid. It is fatal
// and meant to abort startup before connecting to the chat platform
type ConfigurationError struct {
	Problems []string
}

// Error returns all configuration problems on a single line
func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// envByKey maps keys to the environment variable a user would most likely set
var envByKey = map[string]string{
	TokenKey:        TokenEnv,
	APIURLKey:       APIURLEnv,
	TransformURLKey: TransformURLEnv,
}

// NewViperWithDefaults creates a new viper instance with defaults and environment bindings
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()
	v = LayerConfigWithDefaults(v)
	BindEnv(v)

	return v
}

// LayerConfigWithDefaults sets defaults on an existing viper instance without overriding values
// already set on it
func LayerConfigWithDefaults(v *viper.Viper) (lv *viper.Viper) {
	v.SetDefault(PlatformKey, defaultPlatform)
	v.SetDefault(DebugKey, false)
	v.SetDefault(HTTPTimeoutKey, defaultHTTPTimeout)
	v.SetDefault(HandledEventCacheSizeKey, defaultHandledEventCacheSize)
	v.SetDefault(ThreadedRepliesKey, false)
	v.SetDefault(GuildIDKey, "")
	v.SetDefault(MessageProcessingPartitionCount, defaultMessageProcessingPartitions)
	v.SetDefault(MessageProcessingBufferedMessageCount, defaultMessageProcessingBufferCount)

	return v
}

// BindEnv binds the well-known environment variables (TOKEN, API_URL, HYOKACHAN_URL) along with
// DICTSCOT_ prefixed variables for all other keys
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envByKey {
		// BindEnv only fails without a key
		_ = v.BindEnv(key, env)
	}
}

// NewDefaults returns a BotConfig holding default values only. Required values are left empty
func NewDefaults() (c BotConfig) {
	return BotConfig{
		Platform:              defaultPlatform,
		HTTPTimeout:           defaultHTTPTimeout,
		HandledEventCacheSize: defaultHandledEventCacheSize,
		Advanced: AdvancedConfig{
			MessageProcessingPartitionCount:       defaultMessageProcessingPartitions,
			MessageProcessingBufferedMessageCount: defaultMessageProcessingBufferCount,
		},
	}
}

// Load resolves the viper configuration into a BotConfig and validates it. Validation failures are
// reported as a *ConfigurationError
func Load(v *viper.Viper) (c *BotConfig, err error) {
	c = new(BotConfig)
	if err = v.Unmarshal(c); err != nil {
		return nil, &ConfigurationError{Problems: []string{errors.Wrap(err, "decoding configuration").Error()}}
	}

	if err = Validate(*c); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate validates a BotConfig and returns a *ConfigurationError listing every invalid key
func Validate(c BotConfig) (err error) {
	validate := newValidator()

	err = validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &ConfigurationError{Problems: []string{err.Error()}}
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		problems = append(problems, describe(fe))
	}

	return &ConfigurationError{Problems: problems}
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// describe renders a validation failure using the configuration key and its environment variable
func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "BotConfig.")

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(key)
	b.WriteString("]")

	switch fe.Tag() {
	case "required":
		b.WriteString(" is required")
	case "url":
		b.WriteString(" must be a valid url")
	case "oneof":
		b.WriteString(" must be one of [" + fe.Param() + "]")
	default:
		b.WriteString(" failed [" + fe.Tag() + "] validation")
	}

	if env, ok := envByKey[key]; ok {
		b.WriteString(" (set " + env + ")")
	}

	return b.String()
}
