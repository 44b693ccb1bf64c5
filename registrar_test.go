package dynsource

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testConfig struct {
	Value string
}

// testChain mirrors the shape of the real three-stage chains with builders
// that only touch strings.
func testChain() Chain[testConfig] {
	return Chain[testConfig]{
		{
			Suffix: "TestConnectionDetails",
			Build: func(_ context.Context, bc *BuildContext[testConfig]) (any, error) {
				return bc.Config().Value + "-details", nil
			},
		},
		{
			Suffix:    "TestConnectionFactory",
			DependsOn: []string{"TestConnectionDetails"},
			Build: func(ctx context.Context, bc *BuildContext[testConfig]) (any, error) {
				details, err := bc.Resource(ctx, "TestConnectionDetails")
				if err != nil {
					return nil, err
				}
				return details.(string) + "-factory", nil
			},
		},
		{
			Suffix:    "TestTemplate",
			Canonical: "testTemplate",
			DependsOn: []string{"TestConnectionFactory"},
			Build: func(ctx context.Context, bc *BuildContext[testConfig]) (any, error) {
				factory, err := bc.Resource(ctx, "TestConnectionFactory")
				if err != nil {
					return nil, err
				}
				return factory.(string) + "-template", nil
			},
		},
	}
}

func TestRegister_SkipsWhenNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		set  Set[testConfig]
	}{
		{name: "nil databases", set: Set[testConfig]{Primary: "db1"}},
		{name: "empty databases", set: Set[testConfig]{Primary: "db1", Databases: map[string]testConfig{}}},
		{name: "fully zero set", set: Set[testConfig]{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := Register(tt.set, testChain(), reg)
			assert.NoError(t, err)
			assert.Equal(t, 0, reg.Len())
			assert.Empty(t, reg.Aliases())
		})
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	databases := map[string]testConfig{
		"db1": {Value: "one"},
		"db2": {Value: "two"},
	}

	tests := []struct {
		name    string
		set     Set[testConfig]
		wantErr error
	}{
		{
			name:    "blank primary",
			set:     Set[testConfig]{Primary: "", Databases: databases},
			wantErr: ErrBlankPrimary,
		},
		{
			name:    "whitespace primary",
			set:     Set[testConfig]{Primary: "   ", Databases: databases},
			wantErr: ErrBlankPrimary,
		},
		{
			name:    "primary not in databases",
			set:     Set[testConfig]{Primary: "db9", Databases: databases},
			wantErr: ErrPrimaryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := Register(tt.set, testChain(), reg)
			assert.ErrorIs(t, err, tt.wantErr)
			// All-or-nothing: nothing was registered
			assert.Equal(t, 0, reg.Len())
			assert.Empty(t, reg.Aliases())
		})
	}
}

func TestRegister_InvalidChain(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{Primary: "db1", Databases: map[string]testConfig{"db1": {}}}

	err := Register(set, Chain[testConfig]{}, reg)
	assert.ErrorIs(t, err, ErrInvalidChain)
	assert.Equal(t, 0, reg.Len())
}

func TestRegister_InvalidDatabaseName(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{
		Primary:   "db one",
		Databases: map[string]testConfig{"db one": {}},
	}

	err := Register(set, testChain(), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database name")
	assert.Equal(t, 0, reg.Len())
}

func TestRegister_PerBackendCompleteness(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{
		Primary: "db1",
		Databases: map[string]testConfig{
			"db1": {Value: "one"},
			"db2": {Value: "two"},
			"db3": {Value: "three"},
		},
	}

	require.NoError(t, Register(set, testChain(), reg))

	// N databases x |chain| kinds direct registrations
	assert.Equal(t, 3*3, reg.Len())
	for _, name := range []string{"db1", "db2", "db3"} {
		for _, suffix := range []string{"TestConnectionDetails", "TestConnectionFactory", "TestTemplate"} {
			assert.True(t, reg.Has(name+suffix), "missing %s%s", name, suffix)
		}
	}
}

func TestRegister_DependencyOrdering(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{
		Primary: "db1",
		Databases: map[string]testConfig{
			"db1": {Value: "one"},
			"db2": {Value: "two"},
		},
	}

	require.NoError(t, Register(set, testChain(), reg))

	position := make(map[string]int)
	for i, key := range reg.Keys() {
		position[key] = i
	}
	for _, name := range []string{"db1", "db2"} {
		assert.Less(t, position[name+"TestConnectionDetails"], position[name+"TestConnectionFactory"])
		assert.Less(t, position[name+"TestConnectionFactory"], position[name+"TestTemplate"])
	}
}

func TestRegister_PrimaryDuplication(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{
		Primary: "db1",
		Databases: map[string]testConfig{
			"db1": {Value: "one"},
			"db2": {Value: "two"},
		},
	}

	require.NoError(t, Register(set, testChain(), reg))

	// Exactly one extra registration: the canonical duplicate of the
	// primary database's template
	aliases := reg.Aliases()
	require.Len(t, aliases, 1)
	assert.Equal(t, "db1TestTemplate", aliases["testTemplate"])

	// Every primary-database kind is flagged primary under its own key;
	// the canonical duplicate is flagged too
	assert.True(t, reg.IsPrimary("db1TestConnectionDetails"))
	assert.True(t, reg.IsPrimary("db1TestConnectionFactory"))
	assert.True(t, reg.IsPrimary("db1TestTemplate"))
	assert.True(t, reg.IsPrimary("testTemplate"))

	// Non-primary databases carry no flags
	assert.False(t, reg.IsPrimary("db2TestConnectionDetails"))
	assert.False(t, reg.IsPrimary("db2TestConnectionFactory"))
	assert.False(t, reg.IsPrimary("db2TestTemplate"))

	// The canonical key resolves to the primary database's instance
	canonical, err := reg.Get(t.Context(), "testTemplate")
	require.NoError(t, err)
	direct, err := reg.Get(t.Context(), "db1TestTemplate")
	require.NoError(t, err)
	assert.Equal(t, direct, canonical)
	assert.Equal(t, "one-details-factory-template", canonical)
}

func TestRegister_BuildersSeeOwnConfigOnly(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{
		Primary: "db1",
		Databases: map[string]testConfig{
			"db1": {Value: "one"},
			"db2": {Value: "two"},
		},
	}

	require.NoError(t, Register(set, testChain(), reg))

	one, err := reg.Get(t.Context(), "db1TestTemplate")
	require.NoError(t, err)
	two, err := reg.Get(t.Context(), "db2TestTemplate")
	require.NoError(t, err)
	assert.Equal(t, "one-details-factory-template", one)
	assert.Equal(t, "two-details-factory-template", two)
}

func TestRegister_UndeclaredDependencyLookupFails(t *testing.T) {
	chain := Chain[testConfig]{
		{
			Suffix: "TestConnectionDetails",
			Build: func(context.Context, *BuildContext[testConfig]) (any, error) {
				return "details", nil
			},
		},
		{
			Suffix:    "TestTemplate",
			Canonical: "testTemplate",
			// TestConnectionDetails deliberately not declared
			Build: func(ctx context.Context, bc *BuildContext[testConfig]) (any, error) {
				return bc.Resource(ctx, "TestConnectionDetails")
			},
		},
	}

	reg := NewRegistry()
	set := Set[testConfig]{Primary: "db1", Databases: map[string]testConfig{"db1": {}}}
	require.NoError(t, Register(set, chain, reg))

	_, err := reg.Get(t.Context(), "db1TestTemplate")
	assert.ErrorIs(t, err, ErrUndeclaredDependency)
}

func TestRegister_SingletonsReachBuilders(t *testing.T) {
	chain := Chain[testConfig]{
		{
			Suffix:    "TestTemplate",
			Canonical: "testTemplate",
			Build: func(_ context.Context, bc *BuildContext[testConfig]) (any, error) {
				return bc.Singleton("greeting")
			},
		},
	}

	singletons := NewSingletons()
	resolved := false
	singletons.Provide("greeting", func() (any, error) {
		resolved = true
		return "hello", nil
	})

	reg := NewRegistry()
	set := Set[testConfig]{Primary: "db1", Databases: map[string]testConfig{"db1": {}}}
	require.NoError(t, Register(set, chain, reg, WithSingletons(singletons)))

	// Registration never resolves singletons; only first use does
	assert.False(t, resolved)

	v, err := reg.Get(t.Context(), "db1TestTemplate")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.True(t, resolved)
}

func TestRegister_LogsProgress(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	reg := NewRegistry()
	set := Set[testConfig]{
		Primary: "db1",
		Databases: map[string]testConfig{
			"db1": {Value: "one"},
			"db2": {Value: "two"},
		},
	}

	require.NoError(t, Register(set, testChain(), reg, WithLogger(logger)))

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "add a database named [db1] success")
	assert.Contains(t, messages, "add a database named [db2] success")
	assert.Contains(t, messages, "initial loaded [2] database, primary database named [db1]")
}

func TestRegister_DuplicateAcrossInvocations(t *testing.T) {
	reg := NewRegistry()
	set := Set[testConfig]{Primary: "db1", Databases: map[string]testConfig{"db1": {Value: "one"}}}

	require.NoError(t, Register(set, testChain(), reg))
	// Registering the same set into the same registry collides on keys
	err := Register(set, testChain(), reg)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func ExampleRegister() {
	reg := NewRegistry()
	set := Set[testConfig]{
		Primary: "db1",
		Databases: map[string]testConfig{
			"db1": {Value: "one"},
			"db2": {Value: "two"},
		},
	}

	if err := Register(set, testChain(), reg); err != nil {
		fmt.Println(err)
		return
	}

	template, _ := reg.Get(context.Background(), "testTemplate")
	fmt.Println(template)
	// Output: one-details-factory-template
}
