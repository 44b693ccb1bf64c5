package memory

import (
	"context"

	"github.com/dynsource/dynsource"
)

// Registry key suffixes for the memory resource chain.
const (
	SuffixStore    = "MemoryStore"
	SuffixTemplate = "MemoryTemplate"

	// CanonicalTemplate is the bare key the primary database's template is
	// duplicated under.
	CanonicalTemplate = "memoryTemplate"
)

// Chain returns the two-stage memory resource chain: store -> template.
func Chain() dynsource.Chain[Config] {
	return dynsource.Chain[Config]{
		{
			Suffix: SuffixStore,
			Build:  buildStore,
		},
		{
			Suffix:    SuffixTemplate,
			Canonical: CanonicalTemplate,
			DependsOn: []string{SuffixStore},
			Build:     buildTemplate,
		},
	}
}

func buildStore(_ context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	return NewStore(bc.Config().CleanupInterval), nil
}

func buildTemplate(ctx context.Context, bc *dynsource.BuildContext[Config]) (any, error) {
	v, err := bc.Resource(ctx, SuffixStore)
	if err != nil {
		return nil, err
	}
	return NewTemplate(v.(*Store)), nil
}
