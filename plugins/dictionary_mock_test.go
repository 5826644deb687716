package plugins_test

import (
	"context"

	"github.com/alexandre-normand/dictscot/dictionary"
	"github.com/alexandre-normand/dictscot/transform"
	"github.com/stretchr/testify/mock"
)

// mockDictionary holds a mock to implement of mock of DictionaryService
type mockDictionary struct {
	mock.Mock
}

// Get mocks an implementation of Get
func (md *mockDictionary) Get(ctx context.Context, key string) (result dictionary.LookupResult, err error) {
	args := md.Called(key)

	return args.Get(0).(dictionary.LookupResult), args.Error(1)
}

// Register mocks an implementation of Register
func (md *mockDictionary) Register(ctx context.Context, key string, value string) (outcome dictionary.RegisterOutcome, err error) {
	args := md.Called(key, value)

	return args.Get(0).(dictionary.RegisterOutcome), args.Error(1)
}

// mockTransformer holds a mock to implement of mock of Transformer
type mockTransformer struct {
	mock.Mock
}

// Transform mocks an implementation of Transform
func (mt *mockTransformer) Transform(ctx context.Context, text string) (result transform.Result, err error) {
	args := mt.Called(text)

	return args.Get(0).(transform.Result), args.Error(1)
}
