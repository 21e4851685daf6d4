package config_test

import (
	"strings"
	"testing"

	"calibra/internal/config"
	"calibra/internal/config/configtest"
)

func TestStore_LoadsValidDocuments(t *testing.T) {
	dir := configtest.Write(t, configtest.Valid())
	docs, err := config.NewStore(dir).Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs.Catalog.Methods) != 5 {
		t.Errorf("catalog methods: got %d, want 5", len(docs.Catalog.Methods))
	}
	if len(docs.Intrinsic.Methods) != 5 {
		t.Errorf("intrinsic methods: got %d, want 5", len(docs.Intrinsic.Methods))
	}
	if len(docs.Compatibility) != 2 {
		t.Errorf("compatibility methods: got %d, want 2", len(docs.Compatibility))
	}
	if len(docs.Fusion.Roles) != 8 {
		t.Errorf("fusion roles: got %d, want 8", len(docs.Fusion.Roles))
	}
	if !strings.HasPrefix(docs.Hash, "sha256:") {
		t.Errorf("hash: got %q, want sha256 prefix", docs.Hash)
	}
	if docs.Thresholds.ConditionalRatio != 0.8 {
		t.Errorf("conditional ratio: got %v, want 0.8", docs.Thresholds.ConditionalRatio)
	}
}

func TestStore_LoadsOnce(t *testing.T) {
	dir := configtest.Write(t, configtest.Valid())
	s := config.NewStore(dir)
	first, err := s.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	second, err := s.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if first != second {
		t.Error("expected the same Documents pointer on repeat calls")
	}
}

func TestStore_MissingDocument(t *testing.T) {
	docs := configtest.Valid()
	delete(docs, "fusion")
	dir := configtest.Write(t, docs)
	if _, err := config.NewStore(dir).Documents(); err == nil {
		t.Fatal("expected error for missing fusion document")
	}
}

func TestStore_RejectsBrokenDocuments(t *testing.T) {
	cases := []struct {
		name  string
		patch func(d map[string]string)
	}{
		{
			name: "intrinsic weights off sum",
			patch: func(d map[string]string) {
				d["intrinsic"] = strings.Replace(d["intrinsic"], "theory: 0.4", "theory: 0.5", 1)
			},
		},
		{
			name: "fusion weights off sum",
			patch: func(d map[string]string) {
				d["fusion"] = strings.Replace(d["fusion"], "base: 0.2\n      unit: 0.2", "base: 0.3\n      unit: 0.2", 1)
			},
		},
		{
			name: "bad executor pattern",
			patch: func(d map[string]string) {
				d["thresholds"] = strings.Replace(d["thresholds"],
					`executor_pattern: "^D[0-9]+_Q[0-9]+$"`, `executor_pattern: "["`, 1)
			},
		},
		{
			name: "universal method",
			patch: func(d map[string]string) {
				d["compatibility"] = strings.Replace(d["compatibility"],
					"questions: {Q1: 1.0, Q2: 0.7, Q3: 0.3}", "questions: {Q1: 1.0, Q2: 1.0, Q3: 1.0}", 1)
				d["compatibility"] = strings.Replace(d["compatibility"],
					"dimensions: {DIM01: 1.0, DIM02: 0.7, DIM03: 0.3}", "dimensions: {DIM01: 1.0}", 1)
				d["compatibility"] = strings.Replace(d["compatibility"],
					"policies: {PA01: 0.7, PA02: 0.3}", "policies: {PA01: 1.0}", 1)
			},
		},
		{
			name: "non-discrete compatibility level",
			patch: func(d map[string]string) {
				d["compatibility"] = strings.Replace(d["compatibility"], "Q2: 0.7", "Q2: 0.55", 1)
			},
		},
		{
			name: "unknown aggregation",
			patch: func(d map[string]string) {
				d["thresholds"] = strings.Replace(d["thresholds"],
					"aggregation: weighted_average", "aggregation: alchemy", 1)
			},
		},
		{
			name: "meta levels wrong length",
			patch: func(d map[string]string) {
				d["thresholds"] = strings.Replace(d["thresholds"],
					"transparency_levels: [0.0, 0.4, 0.7, 1.0]", "transparency_levels: [0.0, 0.5, 1.0]", 1)
			},
		},
		{
			name: "duplicate canonical",
			patch: func(d map[string]string) {
				d["catalog"] = strings.Replace(d["catalog"],
					"canonical: format_helper", "canonical: plan_scorer", 1)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs := configtest.Valid()
			tc.patch(docs)
			dir := configtest.Write(t, docs)
			if _, err := config.NewStore(dir).Documents(); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}
