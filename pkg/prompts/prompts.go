package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	Summary SummaryPrompts `yaml:"summary"`
}

type SummaryPrompts struct {
	Video string `yaml:"video"`
}

type VideoParams struct {
	TakeawayCount int
}

// Load reads prompts.yaml from the working directory, falling back to the
// prompts compiled into the binary when the file does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return p, err
}

func Default() (*Prompts, error) {
	return parse(defaultPrompts)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	if p.Summary.Video == "" {
		return nil, errors.New("prompts file has no summary.video prompt")
	}
	return &p, nil
}

func (p *Prompts) RenderVideo(params VideoParams) (string, error) {
	return render(p.Summary.Video, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
