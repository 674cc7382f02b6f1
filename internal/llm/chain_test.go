package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name     string
	response string
	err      error
	calls    int
	closed   bool
}

func (f *fakeProvider) Complete(context.Context, CompletionRequest) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &fakeProvider{name: "first", response: "from first"}
	second := &fakeProvider{name: "second", response: "from second"}
	chain := NewChainFromProviders([]Provider{first, second}, zap.NewNop())

	result, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "from first", result)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", response: "rescued"}
	chain := NewChainFromProviders([]Provider{first, second}, zap.NewNop())

	result, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "rescued", result)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_EachProviderTriedOnce(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", err: errors.New("also down")}
	chain := NewChainFromProviders([]Provider{first, second}, zap.NewNop())

	_, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

	require.Error(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_ExhaustionPreservesLastStatus(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", err: &StatusError{Provider: "second", Status: http.StatusTooManyRequests, Body: "slow down"}}
	chain := NewChainFromProviders([]Provider{first, second}, zap.NewNop())

	_, err := chain.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsQuotaExceeded(err))
}

func TestChain_CloseClosesAllProviders(t *testing.T) {
	first := &fakeProvider{name: "first"}
	second := &fakeProvider{name: "second"}
	chain := NewChainFromProviders([]Provider{first, second}, zap.NewNop())

	require.NoError(t, chain.Close())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestStatusErrorClassification(t *testing.T) {
	assert.True(t, IsRateLimited(&StatusError{Status: 429}))
	assert.True(t, IsQuotaExceeded(&StatusError{Status: 402}))
	assert.False(t, IsRateLimited(&StatusError{Status: 500}))
	assert.False(t, IsRateLimited(errors.New("plain error")))
}
