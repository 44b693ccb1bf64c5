package dynsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopBuild(context.Context, *BuildContext[string]) (any, error) {
	return nil, nil
}

func TestChain_Validate(t *testing.T) {
	tests := []struct {
		name    string
		chain   Chain[string]
		wantErr string
	}{
		{
			name:    "empty chain",
			chain:   Chain[string]{},
			wantErr: "chain is empty",
		},
		{
			name: "valid three stage chain",
			chain: Chain[string]{
				{Suffix: "Details", Build: nopBuild},
				{Suffix: "Factory", DependsOn: []string{"Details"}, Build: nopBuild},
				{Suffix: "Template", Canonical: "template", DependsOn: []string{"Factory"}, Build: nopBuild},
			},
		},
		{
			name: "empty suffix",
			chain: Chain[string]{
				{Suffix: "", Canonical: "x", Build: nopBuild},
			},
			wantErr: "empty suffix",
		},
		{
			name: "duplicate suffix",
			chain: Chain[string]{
				{Suffix: "Details", Build: nopBuild},
				{Suffix: "Details", Canonical: "details", Build: nopBuild},
			},
			wantErr: "duplicate suffix",
		},
		{
			name: "nil builder",
			chain: Chain[string]{
				{Suffix: "Details", Canonical: "details"},
			},
			wantErr: "nil builder",
		},
		{
			name: "dependency on later kind",
			chain: Chain[string]{
				{Suffix: "Factory", DependsOn: []string{"Details"}, Build: nopBuild},
				{Suffix: "Details", Canonical: "details", Build: nopBuild},
			},
			wantErr: "not an earlier kind",
		},
		{
			name: "no canonical kind",
			chain: Chain[string]{
				{Suffix: "Details", Build: nopBuild},
			},
			wantErr: "exactly one canonical kind",
		},
		{
			name: "two canonical kinds",
			chain: Chain[string]{
				{Suffix: "Details", Canonical: "details", Build: nopBuild},
				{Suffix: "Template", Canonical: "template", Build: nopBuild},
			},
			wantErr: "exactly one canonical kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chain.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidChain)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChain_CanonicalKind(t *testing.T) {
	chain := Chain[string]{
		{Suffix: "Details", Build: nopBuild},
		{Suffix: "Template", Canonical: "template", Build: nopBuild},
		{Suffix: "Extra", DependsOn: []string{"Template"}, Build: nopBuild},
	}

	kind, ok := chain.CanonicalKind()
	require.True(t, ok)
	assert.Equal(t, "Template", kind.Suffix)
	assert.Equal(t, "template", kind.Canonical)

	_, ok = Chain[string]{{Suffix: "Details", Build: nopBuild}}.CanonicalKind()
	assert.False(t, ok)
}

func TestKind_KeyFor(t *testing.T) {
	kind := Kind[string]{Suffix: "RedisTemplate"}

	assert.Equal(t, "db1RedisTemplate", kind.KeyFor("db1"))
	// Pure function: identical input yields the identical key
	assert.Equal(t, kind.KeyFor("db1"), kind.KeyFor("db1"))
	assert.Equal(t, "db2RedisTemplate", kind.KeyFor("db2"))
}
