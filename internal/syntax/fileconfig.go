package syntax

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape a declarative syntax table takes: each
// field is optional, a single rune given as a one-character string.
// Unset fields keep the table's current binding.
type fileConfig struct {
	SimpleMode bool `yaml:"simpleMode"`

	Parent      string `yaml:"parent"`
	Root        string `yaml:"root"`
	Placeholder string `yaml:"placeholder"`
	Context     string `yaml:"context"`

	Property   string `yaml:"property"`
	Collection string `yaml:"collection"`
	Each       string `yaml:"each"`

	PropertyOpen  string `yaml:"propertyOpen"`
	PropertyClose string `yaml:"propertyClose"`
	CallOpen      string `yaml:"callOpen"`
	CallClose     string `yaml:"callClose"`
	EvalOpen      string `yaml:"evalOpen"`
	EvalClose     string `yaml:"evalClose"`
}

// LoadYAML parses doc (a YAML document of the fileConfig shape) and applies
// every field it sets to t, for embedders who'd rather declare their path
// grammar than write the SetPrefix/SetSeparator/SetContainer calls by hand.
// Fields left empty keep the table's existing binding.
func (t *Table) LoadYAML(doc []byte) error {
	var cfg fileConfig
	if err := yaml.Unmarshal(doc, &cfg); err != nil {
		return fmt.Errorf("pathkit: syntax: %w", err)
	}

	type runeRebind struct {
		role Role
		val  string
		set  func(Role, rune) error
	}
	rebinds := []runeRebind{
		{RoleParent, cfg.Parent, t.SetPrefix},
		{RoleRoot, cfg.Root, t.SetPrefix},
		{RolePlaceholder, cfg.Placeholder, t.SetPrefix},
		{RoleContext, cfg.Context, t.SetPrefix},
		{RoleProperty, cfg.Property, t.SetSeparator},
		{RoleCollection, cfg.Collection, t.SetSeparator},
		{RoleEach, cfg.Each, t.SetSeparator},
	}
	for _, r := range rebinds {
		if r.val == "" {
			continue
		}
		ch, err := oneRune(r.val)
		if err != nil {
			return err
		}
		if err := r.set(r.role, ch); err != nil {
			return err
		}
	}

	containerPairs := []struct {
		role        Role
		open, close string
	}{
		{RolePropertyContainer, cfg.PropertyOpen, cfg.PropertyClose},
		{RoleCall, cfg.CallOpen, cfg.CallClose},
		{RoleEvalProperty, cfg.EvalOpen, cfg.EvalClose},
	}
	for _, c := range containerPairs {
		if c.open == "" && c.close == "" {
			continue
		}
		existing := t.containers[c.role]
		open, close := existing.Open, existing.Close
		if c.open != "" {
			r, err := oneRune(c.open)
			if err != nil {
				return err
			}
			open = r
		}
		if c.close != "" {
			r, err := oneRune(c.close)
			if err != nil {
				return err
			}
			close = r
		}
		if err := t.SetContainer(c.role, open, close); err != nil {
			return err
		}
	}

	if cfg.SimpleMode {
		t.SetSimpleMode(true)
	}
	return nil
}

func oneRune(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("pathkit: syntax: %q is not a single character", s)
	}
	return runes[0], nil
}
