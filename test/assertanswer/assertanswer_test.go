package assertanswer_test

import (
	"testing"

	"github.com/alexandre-normand/dictscot"
	"github.com/alexandre-normand/dictscot/test/assertanswer"
	"github.com/stretchr/testify/assert"
)

func TestHasTextNoMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasText(mockT, &dictscot.Answer{Text: "this is my final answer"}, "this is my first answer"))
}

func TestHasTextNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasText(mockT, nil, "this is my first answer"))
}

func TestHasTextMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasText(mockT, &dictscot.Answer{Text: "this is my final answer"}, "this is my final answer"))
}

func TestHasTextContainingMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasTextContaining(mockT, &dictscot.Answer{Text: "this is my final answer"}, "final"))
}

func TestHasTextContainingNoMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasTextContaining(mockT, &dictscot.Answer{Text: "this is my final answer"}, "the gopher always has more answers"))
}

func TestHasTextContainingNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasTextContaining(mockT, nil, "the gopher always has more answers"))
}

func TestHasOptionsMismatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasOptions(mockT, &dictscot.Answer{Text: "this is my final answer", Options: []dictscot.AnswerOption{dictscot.AnswerInThread()}}, assertanswer.ResolvedAnswerOption{Key: dictscot.EphemeralOpt, Value: "true"}))
}

func TestHasOptionsMissingOne(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasOptions(mockT, &dictscot.Answer{Text: "this is my final answer", Options: []dictscot.AnswerOption{dictscot.AnswerInThread(), dictscot.AnswerEphemeral()}}, assertanswer.ResolvedAnswerOption{Key: dictscot.ThreadedReplyOpt, Value: "true"}))
}

func TestHasOptionsMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasOptions(mockT, &dictscot.Answer{Text: "this is my final answer", Options: []dictscot.AnswerOption{dictscot.AnswerInThread(), dictscot.AnswerEphemeral()}}, assertanswer.ResolvedAnswerOption{Key: dictscot.ThreadedReplyOpt, Value: "true"}, assertanswer.ResolvedAnswerOption{Key: dictscot.EphemeralOpt, Value: "true"}))
}

func TestHasOptionsNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasOptions(mockT, nil))
}
