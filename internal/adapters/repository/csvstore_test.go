package repository

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/growthdash/internal/domain/skills"
)

func TestCSVStore_Load(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "skills.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.Count(); got != 4 {
		t.Fatalf("expected 4 rows, got %d", got)
	}

	entries := store.Entries()
	want := skills.Entry{Industry: "Tech", Skill: "SQL", DemandLevel: "Very High", PeakPeriod: "Q1 2025", Details: "Query tuning"}
	if entries[1] != want {
		t.Errorf("expected trimmed row %+v, got %+v", want, entries[1])
	}
	if entries[0].Details != "Scripting, data pipelines" {
		t.Errorf("quoted cell not preserved: %q", entries[0].Details)
	}
	if entries[3].Details != "" {
		t.Errorf("expected empty details, got %q", entries[3].Details)
	}

	industries := store.Industries()
	if strings.Join(industries, ",") != "Tech,Finance" {
		t.Errorf("expected first-seen industries Tech,Finance, got %v", industries)
	}

	// Callers get copies.
	entries[0].Skill = "mutated"
	industries[0] = "mutated"
	if store.Entries()[0].Skill != "Python" || store.Industries()[0] != "Tech" {
		t.Error("store state leaked through returned slices")
	}
}

func TestCSVStore_Recommend(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "skills.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := skills.Recommend(store, "Tech", "")
	if len(rec.Skills) != 3 {
		t.Fatalf("expected 3 Tech skills, got %d", len(rec.Skills))
	}
	order := []string{rec.Skills[0].Skill, rec.Skills[1].Skill, rec.Skills[2].Skill}
	if strings.Join(order, ",") != "SQL,Python,Go" {
		t.Errorf("unexpected ranking %v", order)
	}
}

func TestCSVStore_BundledData(t *testing.T) {
	store, err := Load(filepath.Join("..", "..", "..", "data", "high_skills.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Count() == 0 || len(store.Industries()) == 0 {
		t.Fatal("bundled reference data is empty")
	}
}

func TestCSVStore_InvalidSources(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrNoRows},
		{name: "header only", input: "industry,Skill,Demand_Level,Peak_Period,Details\n", wantErr: ErrNoRows},
		{name: "blank rows only", input: "industry,Skill,Demand_Level,Peak_Period,Details\n,,,,\n", wantErr: ErrNoRows},
		{name: "missing column", input: "industry,Skill,Peak_Period,Details\nTech,Go,Q1,x\n", wantErr: ErrMissingColumn},
		{name: "wrong case header", input: "Industry,Skill,Demand_Level,Peak_Period,Details\nTech,Go,High,Q1,x\n", wantErr: ErrMissingColumn},
		{name: "bad quoting", input: "industry,Skill,Demand_Level,Peak_Period,Details\nTech,\"Go,High,Q1,x\n", wantErr: ErrInvalidSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidSource) {
				t.Fatalf("expected ErrInvalidSource, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource for missing file, got %v", err)
	}
}

func TestCSVStore_Options(t *testing.T) {
	input := "sector,name,level,peak,notes\nTech,Go,High,Q1,x\n"
	store, err := Parse(strings.NewReader(input), WithColumns(map[string]string{
		ColumnIndustry:    "sector",
		ColumnSkill:       "name",
		ColumnDemandLevel: "level",
		ColumnPeakPeriod:  "peak",
		ColumnDetails:     "notes",
		"unknown":         "ignored",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e := store.Entries()[0]; e.Skill != "Go" || e.DemandLevel != "High" {
		t.Errorf("unexpected entry %+v", e)
	}

	bom := "\ufeffindustry,Skill,Demand_Level,Peak_Period,Details\nTech,Go,High,Q1,x\n"
	if _, err := Parse(strings.NewReader(bom)); err != nil {
		t.Errorf("expected BOM-prefixed header to load, got %v", err)
	}
}
