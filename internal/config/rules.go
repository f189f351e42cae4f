package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule drives server mediated uploads for one entity/property pair
type Rule struct {
	MaxFiles         int      `yaml:"max_files"`
	MaxSize          int64    `yaml:"max_size"`
	Folder           string   `yaml:"folder"`
	Dimensions       []int    `yaml:"dimensions"`
	AllowedMimetypes []string `yaml:"allowed_mimetypes"`
	KeepOriginal     bool     `yaml:"keep_original"`
}

// DefaultAllowedMimetypes lists the media types a rule accepts when it names none.
// Matching is a plain string compare, the host mime database is never consulted.
var DefaultAllowedMimetypes = []string{
	// Images
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/bmp",
	"image/tiff",

	// Videos
	"video/mp4",
	"video/webm",
	"video/quicktime",
	"video/x-msvideo",
	"video/x-matroska",

	"application/pdf",
}

// DefaultRule returns the rule used when nothing more specific is configured
func DefaultRule() Rule {
	return Rule{
		MaxFiles:         5,
		MaxSize:          100 << 20,
		Folder:           "uploads",
		Dimensions:       []int{},
		AllowedMimetypes: append([]string(nil), DefaultAllowedMimetypes...),
	}
}

// Allows reports whether mimeType is accepted, an empty list accepts everything
func (r Rule) Allows(mimeType string) bool {
	if len(r.AllowedMimetypes) == 0 {
		return true
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for _, allowed := range r.AllowedMimetypes {
		allowed = strings.ToLower(allowed)
		if allowed == mimeType {
			return true
		}
		if strings.HasSuffix(allowed, "/*") && strings.HasPrefix(mimeType, strings.TrimSuffix(allowed, "*")) {
			return true
		}
	}
	return false
}

// withDefaults fills zero fields from DefaultRule
func (r Rule) withDefaults() Rule {
	def := DefaultRule()
	if r.MaxFiles <= 0 {
		r.MaxFiles = def.MaxFiles
	}
	if r.MaxSize <= 0 {
		r.MaxSize = def.MaxSize
	}
	if r.Folder == "" {
		r.Folder = def.Folder
	}
	if r.AllowedMimetypes == nil {
		r.AllowedMimetypes = def.AllowedMimetypes
	}
	if r.Dimensions == nil {
		r.Dimensions = []int{}
	}
	return r
}

// Rules is the registry of upload rules keyed by "entity/property"
type Rules struct {
	fallback Rule
	rules    map[string]Rule
}

// NewRules builds a registry, missing fields are defaulted
func NewRules(rules map[string]Rule) *Rules {
	r := &Rules{fallback: DefaultRule(), rules: make(map[string]Rule, len(rules))}
	for key, rule := range rules {
		r.rules[strings.ToLower(key)] = rule.withDefaults()
	}
	return r
}

// Lookup returns the rule for entity/property or the default one
func (r *Rules) Lookup(entity, property string) Rule {
	if rule, ok := r.rules[strings.ToLower(entity+"/"+property)]; ok {
		return rule
	}
	return r.fallback
}

type rulesFile struct {
	Rules map[string]Rule `yaml:"rules"`
}

// LoadRules reads the YAML rule file at path, an empty path yields only the default rule
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return NewRules(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	return NewRules(file.Rules), nil
}
