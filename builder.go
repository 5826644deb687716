package dictscot

import (
	"io"

	"github.com/alexandre-normand/dictscot/config"
)

// Builder holds a dictscot instance to build
type Builder struct {
	bot *Dictscot
	err error
}

// NewBot returns a new Builder used to set up a new dictscot
func NewBot(name string, c config.BotConfig, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, c, options...)

	return sb
}

// WithPlugin adds a plugin to the dictscot instance
func (sb *Builder) WithPlugin(p *Plugin) *Builder {
	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithPluginErr adds a plugin that has a creation function returning (Plugin, error) to the dictscot instance
func (sb *Builder) WithPluginErr(p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithPluginCloserErr adds a plugin that has a creation function returning (io.Closer, Plugin, error) to the dictscot instance
func (sb *Builder) WithPluginCloserErr(closer io.Closer, p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	if closer != nil {
		sb.bot.closers = append(sb.bot.closers, closer)
	}

	return sb
}

// Build returns the built dictscot instance. If there was an error during
// setup, the error is returned along with a nil dictscot
func (sb *Builder) Build() (s *Dictscot, err error) {
	if sb.err != nil {
		return nil, sb.err
	}

	return sb.bot, sb.err
}
