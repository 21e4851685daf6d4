// Package roles maps method identifiers to roles and required layer sets
// via the method catalog. Lookup misses never fail: an unknown method or
// unrecognized role degrades to the conservative all-layers requirement.
package roles

import (
	"log/slog"
	"regexp"
	"strings"

	"calibra/internal/config"
	"calibra/internal/logging"
	"calibra/internal/score"
)

// Resolver indexes the method catalog and answers role and required-layer
// queries. Safe for concurrent use after construction.
type Resolver struct {
	byCanonical   map[string]config.MethodSpec
	byClassMethod map[string]config.MethodSpec
	executor      *regexp.Regexp
	log           *slog.Logger
}

// NewResolver builds the catalog index. The executor pattern comes from
// the thresholds document; an empty pattern disables the override.
func NewResolver(docs *config.Documents) (*Resolver, error) {
	r := &Resolver{
		byCanonical:   make(map[string]config.MethodSpec, len(docs.Catalog.Methods)),
		byClassMethod: make(map[string]config.MethodSpec, len(docs.Catalog.Methods)),
		log:           logging.New("roles"),
	}
	for _, m := range docs.Catalog.Methods {
		r.byCanonical[m.Canonical] = m
		if m.Class != "" && m.Method != "" {
			r.byClassMethod[m.Class+"."+m.Method] = m
		}
	}
	if p := docs.Thresholds.ExecutorPattern; p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		r.executor = re
	}
	return r, nil
}

// Lookup finds a catalog entry by canonical identifier, then by
// class.method pair, then by best-effort substring match.
func (r *Resolver) Lookup(methodID string) (config.MethodSpec, bool) {
	if m, ok := r.byCanonical[methodID]; ok {
		return m, true
	}
	if m, ok := r.byClassMethod[methodID]; ok {
		return m, true
	}
	for canonical, m := range r.byCanonical {
		if strings.Contains(methodID, canonical) || strings.Contains(canonical, methodID) {
			return m, true
		}
	}
	return config.MethodSpec{}, false
}

// IsExecutor reports whether the identifier matches the configured
// executor naming pattern.
func (r *Resolver) IsExecutor(methodID string) bool {
	return r.executor != nil && r.executor.MatchString(methodID)
}

// Resolve maps a method identifier to its role. A method absent from the
// catalog, or carrying an unrecognized role, resolves to core so that it
// is never under-validated.
func (r *Resolver) Resolve(methodID string) score.Role {
	spec, ok := r.Lookup(methodID)
	if !ok {
		r.log.Debug("method not in catalog, defaulting to core", "method", methodID)
		return score.RoleCore
	}
	role, err := score.ParseRole(spec.Role)
	if err != nil {
		r.log.Warn("unrecognized catalog role, defaulting to core",
			"method", methodID, "role", spec.Role)
		return score.RoleCore
	}
	return role
}

// RequiredLayers returns the layers a method must pass. The executor
// override wins over the catalog role; lookup misses require all eight.
func (r *Resolver) RequiredLayers(methodID string) []score.LayerID {
	if r.IsExecutor(methodID) {
		return score.AllLayers()
	}
	return r.Resolve(methodID).RequiredLayers()
}
