package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvResolver(t *testing.T) {
	t.Setenv("DEPLOYPIPE_TEST_TOKEN", "s3cret")
	r := NewEnvResolver()

	value, err := r.Resolve(context.Background(), "DEPLOYPIPE_TEST_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = r.Resolve(context.Background(), "DEPLOYPIPE_TEST_UNSET")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "")
	assert.ErrorContains(t, err, "empty")
}

func TestEnvResolver_EmptyValueIsMissing(t *testing.T) {
	r := &EnvResolver{lookup: func(string) (string, bool) { return "", true }}
	_, err := r.Resolve(context.Background(), "GITHUB_TOKEN")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnvResolver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEnvResolver().Resolve(ctx, "GITHUB_TOKEN")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatic(t *testing.T) {
	r := Static{"GITHUB_TOKEN": "abc"}

	value, err := r.Resolve(context.Background(), "GITHUB_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	_, err = r.Resolve(context.Background(), "ci/github-token")
	assert.ErrorIs(t, err, ErrNotFound)
}
