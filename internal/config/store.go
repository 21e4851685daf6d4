package config

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"calibra/internal/logging"
	"calibra/internal/score"
)

// Document base names. Each may be .yaml, .yml, or .json.
const (
	docCatalog       = "catalog"
	docIntrinsic     = "intrinsic"
	docCompatibility = "compatibility"
	docFusion        = "fusion"
	docThresholds    = "thresholds"
)

// ConfigError marks a configuration contract violation. These fail fast and
// are never silently corrected.
type ConfigError struct {
	Doc string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Doc == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Doc, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Documents is the fully loaded, validated, read-only configuration state.
type Documents struct {
	Catalog       Catalog
	Intrinsic     IntrinsicRegistry
	Compatibility map[string]score.CompatibilityMapping
	Fusion        FusionSpec
	Thresholds    Thresholds

	// Hash is a SHA-256 digest over the raw document bytes, recorded on
	// results for audit and compared by the meta layer.
	Hash string
}

// Store loads the five registry documents from a directory exactly once,
// on first use, and serves the same immutable Documents to every caller
// afterwards. Concurrent first-time callers block until the single load
// completes; no partial state is ever observable.
type Store struct {
	dir string

	once sync.Once
	docs *Documents
	err  error
}

// NewStore creates a Store for the given config directory. Nothing is read
// until the first Documents call.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory this store reads from.
func (s *Store) Dir() string { return s.dir }

// Documents returns the loaded configuration, loading it on first call.
func (s *Store) Documents() (*Documents, error) {
	s.once.Do(func() {
		s.docs, s.err = load(s.dir)
	})
	return s.docs, s.err
}

func load(dir string) (*Documents, error) {
	log := logging.New("config")

	var docs Documents
	hasher := sha256.New()

	type target struct {
		base string
		out  any
	}
	var compat CompatibilityDoc
	targets := []target{
		{docCatalog, &docs.Catalog},
		{docIntrinsic, &docs.Intrinsic},
		{docCompatibility, &compat},
		{docFusion, &docs.Fusion},
		{docThresholds, &docs.Thresholds},
	}
	// Hash inputs sorted by base name so the digest is order-independent.
	sort.Slice(targets, func(i, j int) bool { return targets[i].base < targets[j].base })

	for _, t := range targets {
		path, data, err := readDocument(dir, t.base)
		if err != nil {
			return nil, &ConfigError{Doc: t.base, Err: err}
		}
		if err := unmarshalDocument(data, filepath.Ext(path), t.out); err != nil {
			return nil, &ConfigError{Doc: t.base, Err: err}
		}
		hasher.Write([]byte(t.base))
		hasher.Write(data)
	}
	docs.Hash = fmt.Sprintf("sha256:%x", hasher.Sum(nil))

	if err := validateIntrinsic(&docs.Intrinsic); err != nil {
		return nil, &ConfigError{Doc: docIntrinsic, Err: err}
	}
	if err := validateThresholds(&docs.Thresholds); err != nil {
		return nil, &ConfigError{Doc: docThresholds, Err: err}
	}
	if err := validateFusion(&docs.Fusion); err != nil {
		return nil, &ConfigError{Doc: docFusion, Err: err}
	}
	if err := validateCatalog(&docs.Catalog); err != nil {
		return nil, &ConfigError{Doc: docCatalog, Err: err}
	}

	mappings, err := buildCompatibility(&compat, docs.Thresholds.Penalties.UndeclaredCompatibility)
	if err != nil {
		return nil, &ConfigError{Doc: docCompatibility, Err: err}
	}
	docs.Compatibility = mappings

	log.Info("configuration loaded",
		"dir", dir,
		"methods", len(docs.Catalog.Methods),
		"intrinsic", len(docs.Intrinsic.Methods),
		"compatibility", len(docs.Compatibility),
		"fusion_roles", len(docs.Fusion.Roles),
		"hash", docs.Hash)
	return &docs, nil
}

// readDocument finds <dir>/<base>.{yaml,yml,json} and returns its path and
// raw bytes. A missing required registry file is a configuration error.
func readDocument(dir, base string) (string, []byte, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, base+ext)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !os.IsNotExist(err) {
			return "", nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return "", nil, fmt.Errorf("required document %s.{yaml,yml,json} not found in %s", base, dir)
}

func unmarshalDocument(data []byte, ext string, out any) error {
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// buildCompatibility converts the raw doc into validated mappings and runs
// the registry-wide anti-universality check once.
func buildCompatibility(doc *CompatibilityDoc, undeclaredPenalty float64) (map[string]score.CompatibilityMapping, error) {
	threshold := doc.AntiUniversalityThreshold
	if threshold <= 0.0 || threshold > 1.0 {
		return nil, fmt.Errorf("anti_universality_threshold %v out of range (0,1]", threshold)
	}
	mappings := make(map[string]score.CompatibilityMapping, len(doc.Methods))
	ids := make([]string, 0, len(doc.Methods))
	for id := range doc.Methods {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		entry := doc.Methods[id]
		m, err := score.NewCompatibilityMapping(id, entry.Questions, entry.Dimensions, entry.Policies, undeclaredPenalty)
		if err != nil {
			return nil, err
		}
		if err := m.CheckAntiUniversality(threshold); err != nil {
			return nil, err
		}
		mappings[id] = m
	}
	return mappings, nil
}
