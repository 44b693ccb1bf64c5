// Package dynsource registers named sets of datasource resources into a
// lazy, string-keyed registry.
//
// Each backend integration (redis, mongo, postgres, memory) describes its
// resources as an ordered Chain of Kinds: connection details, then a client
// or connection factory, then a higher-level template. Register walks a
// configured database map, registers every stage of the chain per database
// under deterministic {name}{Suffix} keys with explicit dependency edges,
// and duplicates the primary database's canonical resource under its bare
// name (for example "redisTemplate") so callers that do not care about
// multiple databases get a default.
//
// Construction is deferred: nothing connects anywhere until a resource is
// first looked up, and each resource is built at most once.
package dynsource
