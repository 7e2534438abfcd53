package translator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/protocol"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

func TestSelectionTranslateSingleChunk(t *testing.T) {
	provider := &scriptProvider{fn: func(_ int, req *providers.Request) (*providers.Response, error) {
		return echoTranslate(req)
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh"}, nil)
	out, err := sel.Translate(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, "T:hello world", out)
	assert.Equal(t, 1, provider.calls)
}

func TestSelectionTranslateLongTextChunked(t *testing.T) {
	text := strings.Repeat("A full sentence right here. ", 20)
	provider := &scriptProvider{fn: func(_ int, req *providers.Request) (*providers.Response, error) {
		return echoTranslate(req)
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh", ChunkSize: 100}, nil)
	out, err := sel.Translate(context.Background(), text)
	require.NoError(t, err)
	assert.Greater(t, provider.calls, 1)
	assert.Contains(t, out, "T:")
	// 每块都带前缀，去掉前缀后应能还原全文
	assert.Equal(t, text, strings.ReplaceAll(out, "T:", ""))
}

func TestSelectionChunkFailureKeepsOriginal(t *testing.T) {
	provider := &scriptProvider{fn: func(call int, req *providers.Request) (*providers.Response, error) {
		return nil, errors.New("backend down")
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh"}, nil)
	out, err := sel.Translate(context.Background(), "keep me")
	require.NoError(t, err)
	assert.Equal(t, "keep me", out)
}

func TestSelectionUnparseableReplyStripped(t *testing.T) {
	provider := &scriptProvider{fn: func(_ int, req *providers.Request) (*providers.Response, error) {
		return &providers.Response{Payload: "plain translated text"}, nil
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh"}, nil)
	out, err := sel.Translate(context.Background(), "source")
	require.NoError(t, err)
	assert.Equal(t, "plain translated text", out)
}

func TestSelectionEmptyText(t *testing.T) {
	provider := &scriptProvider{fn: func(_ int, req *providers.Request) (*providers.Response, error) {
		t.Fatal("provider should not be called")
		return nil, nil
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh"}, nil)
	_, err := sel.Translate(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrNothingToTranslate)
}

func TestSelectionContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptProvider{fn: func(_ int, req *providers.Request) (*providers.Response, error) {
		return echoTranslate(req)
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh"}, nil)
	_, err := sel.Translate(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectionPayloadWellFormed(t *testing.T) {
	provider := &scriptProvider{fn: func(_ int, req *providers.Request) (*providers.Response, error) {
		items := protocol.DecodeRequest(req.Payload)
		require.Len(t, items, 1)
		assert.Equal(t, `a < b & c > d`, items[0])
		return echoTranslate(req)
	}}

	sel := NewSelection(provider, SelectionOptions{TargetLang: "zh"}, nil)
	out, err := sel.Translate(context.Background(), `a < b & c > d`)
	require.NoError(t, err)
	assert.Equal(t, `T:a < b & c > d`, out)
}
