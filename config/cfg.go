package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	MarginsConfig struct {
		Top    float64 `yaml:"top" validate:"gte=0"`
		Right  float64 `yaml:"right" validate:"gte=0"`
		Bottom float64 `yaml:"bottom" validate:"gte=0"`
		Left   float64 `yaml:"left" validate:"gte=0"`
	}

	FontsConfig struct {
		// Family is the name substituted for every face when one of the
		// candidates could be registered.
		Family     string   `yaml:"family" validate:"required"`
		RequireCJK bool     `yaml:"require_cjk"`
		Candidates []string `yaml:"candidates"`
	}

	MetainformationConfig struct {
		Creator       string `yaml:"creator"`
		TitleTemplate string `yaml:"title_template"`
	}

	DocumentConfig struct {
		PageSize       PageSize      `yaml:"page_size" validate:"gte=0"`
		Margins        MarginsConfig `yaml:"margins"`
		Leading        float64       `yaml:"leading" validate:"gt=0"`
		RuleMode       RuleMode      `yaml:"hr_mode" validate:"gte=0"`
		Backend        Backend       `yaml:"backend" validate:"gte=0"`
		StylesheetPath string        `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		// used when output is a directory
		OutputNameTemplate    string                       `yaml:"output_name_template"`
		FileNameTransliterate bool                         `yaml:"file_name_transliterate"`
		DefaultStyles         map[string]map[string]string `yaml:"default_styles"`
		Fonts                 FontsConfig                  `yaml:"fonts"`
		Metainformation       MetainformationConfig        `yaml:"metainformation"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// TemplateFieldName names configuration fields holding templates expanded
// per document.
type TemplateFieldName string

// NOTE: must match yaml field names above, these fields must reach us
// unexpanded.
const (
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
	TitleTemplateFieldName      TemplateFieldName = "title_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(TitleTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if !process {
		return cfg, nil
	}
	if err := gencfg.Sanitize(cfg); err != nil {
		return nil, err
	}
	if err := gencfg.Validate(cfg); err != nil {
		return nil, err
	}
	cfg.Document.Fonts.Candidates = compactCandidates(cfg.Document.Fonts.Candidates)
	return cfg, nil
}

// compactCandidates drops entries which expanded to nothing for the current
// OS and duplicates, keeping the original order.
func compactCandidates(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if len(c) == 0 {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// LoadConfiguration expands embedded template to get sane defaults, then
// superimposes values from the file at path (if any) and validates result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg, err = unmarshalConfig(data, cfg, true); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
