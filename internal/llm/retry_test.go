package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetrying(inner Client, attempts int) (*RetryingClient, *[]time.Duration) {
	r := NewRetryingClient(inner, attempts, 10*time.Millisecond)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func TestRetryingClient_SucceedsAfterFailures(t *testing.T) {
	fake := NewFakeClient("", "", `{"ok": true}`)
	fake.Errors = []error{errors.New("503"), errors.New("503")}
	r, waits := newTestRetrying(fake, 3)

	out, err := r.GenerateJSON(context.Background(), "p", TierStandard)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, 3, fake.Calls())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *waits)
}

func TestRetryingClient_GivesUp(t *testing.T) {
	boom := errors.New("quota exceeded")
	fake := NewFakeClient("x")
	fake.Errors = []error{boom, boom, boom, boom}
	r, waits := newTestRetrying(fake, 3)

	_, err := r.GenerateContent(context.Background(), "p", TierLite)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, fake.Calls())
	assert.Len(t, *waits, 2)
}

func TestRetryingClient_StopsOnCancel(t *testing.T) {
	fake := NewFakeClient("x")
	fake.Errors = []error{errors.New("fail"), errors.New("fail")}
	r := NewRetryingClient(fake, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.GenerateContent(ctx, "p", TierLite)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.Calls())
}

func TestRetryingClient_MinimumOneAttempt(t *testing.T) {
	fake := NewFakeClient("hello")
	r := NewRetryingClient(fake, 0, 0)

	out, err := r.GenerateContent(context.Background(), "p", TierLite)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "fake-model", r.GetModel(TierLite))
	assert.NoError(t, r.Close())
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(ResumeDocumentSchema("Convert this resume."), "Jane Doe, engineer")

	assert.Contains(t, prompt, "Convert this resume.")
	assert.Contains(t, prompt, `"personalDetails": {"fullName"`)
	assert.Contains(t, prompt, "(required)")
	assert.Contains(t, prompt, "Jane Doe, engineer")
	assert.Contains(t, prompt, `"customSections"`)
}
