// Package templates persists mapping configurations as named YAML
// bundles. A reloaded template is equivalent to manually entered
// mappings: it flows through the same engine validation path, so a
// stale template that no longer matches its files fails the run the
// same way a bad fresh configuration would.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/pkg/errors"
	"soa-reconciliation-service/pkg/logger"
)

// Template is a named, serializable mapping configuration.
type Template struct {
	Name      string    `yaml:"name"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`

	SOAFile         string `yaml:"soa_file,omitempty"`
	SOASheet        string `yaml:"soa_sheet,omitempty"`
	SOADateColumn   string `yaml:"soa_date_column,omitempty"`
	SOAAmountColumn string `yaml:"soa_amount_column,omitempty"`

	// Sources are stored in processing order; the sequence is part of
	// the configuration.
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig is the persisted form of one reference source.
type SourceConfig struct {
	Name         string                `yaml:"name"`
	File         string                `yaml:"file"`
	Sheet        string                `yaml:"sheet,omitempty"`
	DateColumn   string                `yaml:"date_column,omitempty"`
	AmountColumn string                `yaml:"amount_column,omitempty"`
	Mappings     []models.FieldMapping `yaml:"mappings"`
}

// Validate performs structural checks on the template. Column existence
// is checked against real file headers by the engine, not here.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if len(t.Sources) == 0 {
		return fmt.Errorf("template has no reference sources")
	}
	for _, source := range t.Sources {
		if strings.TrimSpace(source.Name) == "" {
			return fmt.Errorf("reference source with empty name")
		}
		if len(source.Mappings) == 0 {
			return fmt.Errorf("source '%s' has no mappings", source.Name)
		}
		for _, mapping := range source.Mappings {
			if err := mapping.Validate(); err != nil {
				return fmt.Errorf("source '%s': %w", source.Name, err)
			}
		}
	}
	return nil
}

// Store reads and writes templates under a directory, one YAML file per
// template.
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.FileError(errors.CodeFileUnreadable, dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logger.GetGlobalLogger().WithComponent("template_store"),
	}, nil
}

// DefaultDir returns the per-user template directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".soarecon", "templates")
	}
	return filepath.Join(home, ".soarecon", "templates")
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// Save writes the template, overwriting any previous version of the
// same name.
func (s *Store) Save(t *Template) error {
	if err := t.Validate(); err != nil {
		return errors.TemplateError(errors.CodeTemplateInvalid, t.Name, err)
	}

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	data, err := yaml.Marshal(t)
	if err != nil {
		return errors.TemplateError(errors.CodeTemplateInvalid, t.Name, err)
	}

	if err := os.WriteFile(s.path(t.Name), data, 0o644); err != nil {
		return errors.FileError(errors.CodeFileUnreadable, s.path(t.Name), err)
	}

	s.logger.WithField("template", t.Name).Info("Saved template")
	return nil
}

// Load reads a template by name and validates its structure.
func (s *Store) Load(name string) (*Template, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.TemplateError(errors.CodeTemplateNotFound, name, err)
		}
		return nil, errors.FileError(errors.CodeFileUnreadable, s.path(name), err)
	}

	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.TemplateError(errors.CodeTemplateInvalid, name, err)
	}
	if err := t.Validate(); err != nil {
		return nil, errors.TemplateError(errors.CodeTemplateInvalid, name, err)
	}

	return &t, nil
}

// List returns the names of all saved templates, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileUnreadable, s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved template.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return errors.TemplateError(errors.CodeTemplateNotFound, name, err)
	}
	if err != nil {
		return errors.FileError(errors.CodeFileUnreadable, s.path(name), err)
	}
	s.logger.WithField("template", name).Info("Deleted template")
	return nil
}
