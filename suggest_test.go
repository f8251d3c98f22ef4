package syntaxcat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestFunctions(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	got, err := svc.SuggestFunctions(ctx, "uper", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "upper", got[0].Function.Name)
	assert.InDelta(t, 0.8, got[0].Score, 1e-9)

	got, err = svc.SuggestFunctions(ctx, "ABS", 5)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "abs", got[0].Function.Name)
	assert.Equal(t, 1.0, got[0].Score)

	got, err = svc.SuggestFunctions(ctx, "absolute", 5)
	require.NoError(t, err)
	require.Len(t, got, 1, "display names are matched too")
	assert.Equal(t, "abs", got[0].Function.Name)

	got, err = svc.SuggestFunctions(ctx, "zzzzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.SuggestFunctions(ctx, " ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestFunctions_Limit(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, WithProvider(&testProvider{}))
	ctx := context.Background()

	for _, name := range []string{"upper1", "upper2", "upper3"} {
		_, err := svc.CreateFunction(ctx, &Function{Name: name, Category: CategoryString})
		require.NoError(t, err)
	}
	got, err := svc.SuggestFunctions(ctx, "upper", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "upper", got[0].Function.Name)
	assert.Equal(t, "upper1", got[1].Function.Name)
}

func TestSimilarity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		query, candidate string
		want             float64
	}{
		{"len", "len", 1},
		{"len", "LEN", 1},
		{"up", "upper", 0.95},
		{"lenn", "len", 0.75},
		{"x", "", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, similarity(tt.query, tt.candidate), 1e-9, "%s vs %s", tt.query, tt.candidate)
	}
}
