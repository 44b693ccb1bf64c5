package dynsource

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dynsource/dynsource/utils"
)

// Register walks the configured databases of set and registers the full
// resource chain for each of them into reg, in chain order, with explicit
// dependency edges. After the loop, every resource of the primary database
// is flagged primary under its own key, and the chain's canonical kind is
// additionally aliased under its bare canonical name.
//
// An absent or empty database map is not an error: the integration is simply
// not configured and nothing is registered. A non-empty map with a blank or
// dangling primary name is a hard validation failure, reported before any
// registry mutation.
//
// Resources are built lazily on first lookup, so a backend that is
// unreachable does not fail here; it fails when the resource is first used.
func Register[C any](set Set[C], chain Chain[C], reg *Registry, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if len(set.Databases) == 0 {
		o.logger.Debug("no databases configured, skipping registration")
		return nil
	}

	if err := chain.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(set.Primary) == "" {
		return ErrBlankPrimary
	}
	if _, ok := set.Databases[set.Primary]; !ok {
		return fmt.Errorf("%w: [%s] is not a configured database", ErrPrimaryNotFound, set.Primary)
	}

	names := make([]string, 0, len(set.Databases))
	for name := range set.Databases {
		if err := utils.ValidateDatabaseName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	log := o.logger.Sugar()
	for _, name := range names {
		config := set.Databases[name]
		for _, kind := range chain {
			deps := make([]string, len(kind.DependsOn))
			for i, dep := range kind.DependsOn {
				deps[i] = name + dep
			}

			bc := &BuildContext[C]{
				name:       name,
				config:     config,
				kind:       kind,
				registry:   reg,
				singletons: o.singletons,
			}
			build := kind.Build
			supplier := func(ctx context.Context) (any, error) {
				return build(ctx, bc)
			}

			if err := reg.Register(kind.KeyFor(name), supplier, deps...); err != nil {
				return err
			}
		}
		log.Infof("add a database named [%s] success", name)
	}

	for _, kind := range chain {
		if err := reg.MarkPrimary(kind.KeyFor(set.Primary)); err != nil {
			return err
		}
	}
	canonical, _ := chain.CanonicalKind()
	if err := reg.Alias(canonical.Canonical, canonical.KeyFor(set.Primary)); err != nil {
		return err
	}
	if err := reg.MarkPrimary(canonical.Canonical); err != nil {
		return err
	}

	log.Infof("initial loaded [%d] database, primary database named [%s]", len(names), set.Primary)
	return nil
}
