package plugins

import (
	"context"
	"fmt"

	"github.com/alexandre-normand/dictscot"
	"github.com/alexandre-normand/dictscot/dictionary"
	"github.com/alexandre-normand/dictscot/transform"
	"github.com/pkg/errors"
)

const (
	// DictionaryPluginName holds identifying name for the dictionary plugin
	DictionaryPluginName = "dictionary"

	// RegisterCommandName is the name of the command registering a word and its meaning
	RegisterCommandName = "register"

	registerFailureText      = "ちょっと何言ってるかわかんないですｗ"
	registerConfirmationText = "「%s」は「%s」なんですね！覚えました！"
)

// DictionaryService is implemented by any value able to look up and register dictionary entries
type DictionaryService interface {
	Get(ctx context.Context, key string) (result dictionary.LookupResult, err error)
	Register(ctx context.Context, key string, value string) (outcome dictionary.RegisterOutcome, err error)
}

// Transformer is implemented by any value able to transform the text of an answer
type Transformer interface {
	Transform(ctx context.Context, text string) (result transform.Result, err error)
}

// Dictionary holds the plugin data for the dictionary plugin. The dictionary plugin consists of a hear
// action answering messages whose text is a known word and of a command to register new words
type Dictionary struct {
	dictscot.Plugin

	dict        DictionaryService
	transformer Transformer
}

// DictionaryOption defines an option for the dictionary plugin
type DictionaryOption func(d *Dictionary)

// WithTransformer sets a transformer through which found values go before being sent
func WithTransformer(transformer Transformer) DictionaryOption {
	return func(d *Dictionary) {
		d.transformer = transformer
	}
}

// NewDictionary creates a new instance of the dictionary plugin
func NewDictionary(dict DictionaryService, options ...DictionaryOption) (d *Dictionary) {
	d = new(Dictionary)
	d.dict = dict

	for _, opt := range options {
		opt(d)
	}

	d.Plugin = dictscot.Plugin{Name: DictionaryPluginName,
		Commands: []dictscot.CommandDefinition{{
			Name:        RegisterCommandName,
			Description: "辞書に登録します",
			Options: []dictscot.CommandOption{
				{Name: "word", Description: "登録する単語", Required: true},
				{Name: "meaning", Description: "単語の意味", Required: true},
			},
			Answer: d.register,
		}},
		HearActions: []dictscot.ActionDefinition{{
			Match: func(m *dictscot.IncomingMessage) bool {
				return m.Text != ""
			},
			Usage:       "say a registered word",
			Description: "Reply with the meaning of registered words",
			Answer:      d.lookup,
		}}}

	return d
}

// lookup answers with the meaning of the message text if it is a registered word
func (d *Dictionary) lookup(ctx context.Context, m *dictscot.IncomingMessage) (*dictscot.Answer, error) {
	result, err := d.dict.Get(ctx, m.Text)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up [%s]", m.Text)
	}

	if !result.Found {
		d.Logger.Debugf("[%s] No value for key [%s]", DictionaryPluginName, m.Text)
		return nil, nil
	}

	text, err := d.transformValue(ctx, result.Value)
	if err != nil {
		return nil, err
	}

	return &dictscot.Answer{Text: text}, nil
}

// transformValue runs the value through the transformer, if any. The original value is the fallback
// when the transformer has nothing to offer
func (d *Dictionary) transformValue(ctx context.Context, value string) (text string, err error) {
	if d.transformer == nil {
		return value, nil
	}

	result, err := d.transformer.Transform(ctx, value)
	if err != nil {
		return "", errors.Wrapf(err, "transforming [%s]", value)
	}

	switch result.Status {
	case transform.Transformed:
		return result.Text, nil
	case transform.Unavailable:
		d.Logger.Printf("[%s] Transformation unavailable for [%s], falling back to the original value", DictionaryPluginName, value)
	default:
		d.Logger.Printf("[%s] Transformation of [%s] had no result, falling back to the original value", DictionaryPluginName, value)
	}

	return value, nil
}

// register registers a word with its meaning. A failed registration is followed by the confirmation
// anyway so both answers are returned in that case
func (d *Dictionary) register(ctx context.Context, c *dictscot.CommandInvocation) ([]*dictscot.Answer, error) {
	word, okWord := c.Arg(0)
	meaning, okMeaning := c.Arg(1)
	if !okWord || !okMeaning {
		d.Logger.Debugf("[%s] Ignoring invocation [%s] without a word and its meaning: %v", DictionaryPluginName, c.ID, c.Args)
		return nil, nil
	}

	outcome, err := d.dict.Register(ctx, word, meaning)
	if err != nil {
		return nil, errors.Wrapf(err, "registering [%s]", word)
	}

	answers := make([]*dictscot.Answer, 0, 2)
	if outcome != dictionary.Success {
		d.Logger.Printf("[%s] Failed to register word [%s]", DictionaryPluginName, word)
		answers = append(answers, &dictscot.Answer{Text: registerFailureText})
	} else {
		d.Logger.Printf("[%s] Successfully registered word: %s %s", DictionaryPluginName, word, meaning)
	}

	return append(answers, &dictscot.Answer{Text: fmt.Sprintf(registerConfirmationText, word, meaning)}), nil
}
