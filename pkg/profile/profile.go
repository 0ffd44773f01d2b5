// Package profile defines optional cleaning profiles: declarative
// YAML/JSON documents that toggle pipeline stages, extend the column
// name heuristics, and adjust imputation fallbacks. The zero profile
// reproduces the default pipeline exactly.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/preenlabs/preen/pkg/cleaner"
	"github.com/preenlabs/preen/pkg/dataset"
)

// Stages toggles individual pipeline stages. A nil field means
// enabled; profiles only ever switch stages off.
type Stages struct {
	TextNormalizer  *bool `json:"text_normalizer,omitempty" yaml:"text_normalizer,omitempty"`
	TemporalParser  *bool `json:"temporal_parser,omitempty" yaml:"temporal_parser,omitempty"`
	EmailNormalizer *bool `json:"email_normalizer,omitempty" yaml:"email_normalizer,omitempty"`
	Deduplicator    *bool `json:"deduplicator,omitempty" yaml:"deduplicator,omitempty"`
	Imputer         *bool `json:"imputer,omitempty" yaml:"imputer,omitempty"`
}

func enabled(b *bool) bool {
	return b == nil || *b
}

// Profile configures a cleaning run.
type Profile struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" validate:"max=128"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Stages toggles pipeline stages; all enabled by default.
	Stages Stages `json:"stages,omitempty" yaml:"stages,omitempty"`

	// TemporalColumns and EmailColumns name columns (exact,
	// case-insensitive) forced into the temporal/email class on top
	// of the builtin name-substring heuristics.
	TemporalColumns []string `json:"temporal_columns,omitempty" yaml:"temporal_columns,omitempty" validate:"dive,required"`
	EmailColumns    []string `json:"email_columns,omitempty" yaml:"email_columns,omitempty" validate:"dive,required"`

	// TemporalFormats appends Go time layouts to the builtin parse
	// table; the builtins are never removed.
	TemporalFormats []string `json:"temporal_formats,omitempty" yaml:"temporal_formats,omitempty" validate:"dive,timelayout"`

	// TextFallback replaces the default "Unknown" fill for all-null
	// textual columns.
	TextFallback string `json:"text_fallback,omitempty" yaml:"text_fallback,omitempty" validate:"max=64"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// A Go time layout must carry the reference year to parse one.
	_ = v.RegisterValidation("timelayout", func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), "2006")
	})
	return v
}

// Default returns the profile that reproduces the builtin pipeline.
func Default() *Profile {
	return &Profile{}
}

// FromFile loads a profile from a JSON or YAML file.
func FromFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- profiles are user-supplied files
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported profile file format: %s", filepath.Ext(path))
	}
}

// FromJSON creates a profile from JSON data.
func FromJSON(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse JSON profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FromYAML creates a profile from YAML data.
func FromYAML(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile's field constraints.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid profile: field %s fails %q", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}

// Pipeline builds the cleaning pipeline this profile describes.
func (p *Profile) Pipeline() *cleaner.Pipeline {
	if p == nil {
		return cleaner.Default()
	}

	var stages []cleaner.Stage
	if enabled(p.Stages.TextNormalizer) {
		stages = append(stages, cleaner.NewTextNormalizer())
	}
	if enabled(p.Stages.TemporalParser) {
		stages = append(stages, cleaner.NewTemporalParser(p.TemporalFormats...))
	}
	if enabled(p.Stages.EmailNormalizer) {
		stages = append(stages, cleaner.NewEmailNormalizer())
	}
	if enabled(p.Stages.Deduplicator) {
		stages = append(stages, cleaner.NewDeduplicator())
	}
	if enabled(p.Stages.Imputer) {
		imp := cleaner.NewImputer()
		if p.TextFallback != "" {
			imp.TextFallback = p.TextFallback
		}
		stages = append(stages, imp)
	}

	hints := dataset.Hints{
		TemporalColumns: p.TemporalColumns,
		EmailColumns:    p.EmailColumns,
	}
	return cleaner.NewPipeline(stages...).WithClassifier(hints.ClassifyAll)
}
