package synonym

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frizinak/uiloc/llm"
)

type fakeLLM struct {
	reply string
	err   error
	last  llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, r llm.Request) (string, error) {
	f.last = r
	return f.reply, f.err
}

func TestLLM(t *testing.T) {
	f := &fakeLLM{reply: `{"keywords":["cancel"],"synonyms":["abort","Cancel"," stop ","quit","exit"]}`}
	p := NewLLM(f, 4, zerolog.Nop())

	terms, err := p.Synonyms(context.Background(), "cancel match", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel", "abort", "stop", "quit"}, terms)
	assert.True(t, f.last.JSON)
	assert.Contains(t, f.last.User, "English")
}

func TestLLMErrors(t *testing.T) {
	p := NewLLM(&fakeLLM{reply: `{"keywords":"cancel"}`}, 0, zerolog.Nop())
	_, err := p.Synonyms(context.Background(), "cancel", "en")
	var merr *llm.MalformedResponseError
	assert.ErrorAs(t, err, &merr)

	p = NewLLM(&fakeLLM{err: &llm.HTTPError{Status: 500, Message: "down"}}, 0, zerolog.Nop())
	_, err = p.Synonyms(context.Background(), "cancel", "en")
	var herr *llm.HTTPError
	assert.ErrorAs(t, err, &herr)
}
