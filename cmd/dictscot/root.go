package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexandre-normand/dictscot"
	"github.com/alexandre-normand/dictscot/config"
	"github.com/alexandre-normand/dictscot/dictionary"
	"github.com/alexandre-normand/dictscot/gateway/discord"
	"github.com/alexandre-normand/dictscot/gateway/slack"
	"github.com/alexandre-normand/dictscot/httpclient"
	"github.com/alexandre-normand/dictscot/plugins"
	"github.com/alexandre-normand/dictscot/transform"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	name = "dictscot"

	configFlag   = "config"
	platformFlag = "platform"
	debugFlag    = "debug"
)

func newRootCmd() *cobra.Command {
	v := config.NewViperWithDefaults()

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Chat bot answering with the meaning of registered words",
		Version:       dictscot.VERSION,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString(configFlag)
			if err := readConfigFile(v, configFile); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, v, newGateway)
		},
	}

	cmd.Flags().String(configFlag, "", "Config file path (optional, ~ is expanded)")
	cmd.Flags().String(platformFlag, config.DiscordPlatform, "Chat platform to connect to (discord or slack)")
	cmd.Flags().Bool(debugFlag, false, "Enable debug logging")
	_ = v.BindPFlag(config.PlatformKey, cmd.Flags().Lookup(platformFlag))
	_ = v.BindPFlag(config.DebugKey, cmd.Flags().Lookup(debugFlag))

	return cmd
}

// readConfigFile merges the content of a config file into v. An empty path leaves v untouched
func readConfigFile(v *viper.Viper, path string) (err error) {
	if path == "" {
		return nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "expanding config path [%s]", path)
	}

	v.SetConfigFile(expanded)
	if err = v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file [%s]", expanded)
	}

	return nil
}

// gatewayFactory creates the gateway the bot runs on
type gatewayFactory func(c config.BotConfig, logger dictscot.SLogger) (gw dictscot.Gateway, err error)

// run loads the configuration and runs the bot until ctx is cancelled or the gateway is lost
func run(ctx context.Context, v *viper.Viper, gatewayFor gatewayFactory) (err error) {
	c, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := log.New(os.Stdout, "", log.Lshortfile|log.LstdFlags)

	bot, err := newBot(*c, dictscot.OptionLog(logger))
	if err != nil {
		return err
	}
	defer bot.Close()

	gw, err := gatewayFor(*c, dictscot.NewSLogger(logger, c.Debug))
	if err != nil {
		return err
	}

	return bot.Run(ctx, gw)
}

// newBot builds a bot with the dictionary plugin (transforming answers when a transformation service
// is configured) and the versioner plugin
func newBot(c config.BotConfig, options ...dictscot.Option) (bot *dictscot.Dictscot, err error) {
	clientOptions := []httpclient.Option{httpclient.OptionTimeout(c.HTTPTimeout), httpclient.OptionDebug(c.Debug), httpclient.OptionUserAgent(name + "/" + dictscot.VERSION)}

	var dictOptions []plugins.DictionaryOption
	if c.TransformEnabled() {
		dictOptions = append(dictOptions, plugins.WithTransformer(transform.NewClient(c.TransformURL, clientOptions...)))
	}

	dict := plugins.NewDictionary(dictionary.NewClient(c.APIURL, clientOptions...), dictOptions...)
	versioner := plugins.NewVersioner(name, dictscot.VERSION)

	return dictscot.NewBot(name, c, options...).
		WithPlugin(&dict.Plugin).
		WithPlugin(&versioner.Plugin).
		Build()
}

// newGateway creates the gateway of the configured platform
func newGateway(c config.BotConfig, logger dictscot.SLogger) (gw dictscot.Gateway, err error) {
	switch c.Platform {
	case config.DiscordPlatform:
		return discord.New(c.Token, discord.OptionGuildID(c.GuildID), discord.OptionLog(logger))
	case config.SlackPlatform:
		return slack.New(c.Token, c.Debug, slack.OptionThreadedReplies(c.ThreadedReplies), slack.OptionLog(logger)), nil
	default:
		return nil, errors.Errorf("unsupported platform [%s]", c.Platform)
	}
}
