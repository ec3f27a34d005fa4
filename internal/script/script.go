package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/haltia/conveyor/internal/engine"
)

// PipelineScript is the YAML declaration of a pipeline: a stage list, an
// optional default agent label, and global tool-version declarations.
type PipelineScript struct {
	Name   string            `yaml:"name"`
	Agent  string            `yaml:"agent"`
	Tools  map[string]string `yaml:"tools"`
	Stages []Stage           `yaml:"stages"`
}

type Stage struct {
	Stage string `yaml:"stage"`
	Agent string `yaml:"agent"`
	Steps []Step `yaml:"steps"`
}

// Step declares exactly one action.
type Step struct {
	Step     string    `yaml:"step"`
	Checkout *Checkout `yaml:"checkout"`
	Script   string    `yaml:"script"`
	Archive  *Archive  `yaml:"archive"`
	Publish  *Publish  `yaml:"publish"`
}

type Checkout struct {
	Repository string `yaml:"repository"`
	Credential string `yaml:"credential"`
}

type Archive struct {
	Pattern        string `yaml:"pattern"`
	FollowSymlinks bool   `yaml:"follow_symlinks"`
}

type Publish struct {
	Pattern  string `yaml:"pattern"`
	KeepRuns int    `yaml:"keep_runs"`
}

func Parse(data []byte) (*PipelineScript, error) {
	ps := new(PipelineScript)
	if err := yaml.Unmarshal(data, ps); err != nil {
		return nil, fmt.Errorf("err unmarshaling pipeline script: %w", err)
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

func ParseFile(path string) (*PipelineScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("err reading pipeline script: %w", err)
	}
	return Parse(data)
}

// Validate checks the declaration statically, before anything runs.
func (ps *PipelineScript) Validate() error {
	if ps.Name == "" {
		return fmt.Errorf("pipeline script has no name")
	}
	if len(ps.Stages) == 0 {
		return fmt.Errorf("pipeline '%s' declares no stages", ps.Name)
	}

	seen := make(map[string]bool)
	for _, stage := range ps.Stages {
		if stage.Stage == "" {
			return fmt.Errorf("pipeline '%s' has a stage without a name", ps.Name)
		}
		if seen[stage.Stage] {
			return fmt.Errorf("duplicate stage name '%s'", stage.Stage)
		}
		seen[stage.Stage] = true

		if len(stage.Steps) == 0 {
			return fmt.Errorf("stage '%s' declares no steps", stage.Stage)
		}
		for i, step := range stage.Steps {
			if err := step.validate(); err != nil {
				return fmt.Errorf("stage '%s' step %d: %w", stage.Stage, i+1, err)
			}
		}
	}
	return nil
}

func (s *Step) validate() error {
	actions := 0
	if s.Checkout != nil {
		actions++
		if s.Checkout.Repository == "" {
			return fmt.Errorf("checkout without a repository")
		}
	}
	if s.Script != "" {
		actions++
	}
	if s.Archive != nil {
		actions++
		if s.Archive.Pattern == "" {
			return fmt.Errorf("archive without a pattern")
		}
	}
	if s.Publish != nil {
		actions++
		if s.Publish.Pattern == "" {
			return fmt.Errorf("publish without a pattern")
		}
	}
	if actions != 1 {
		return fmt.Errorf("a step declares exactly one of checkout, script, archive or publish")
	}
	return nil
}

// Build turns a validated declaration into a pipeline value for the engine.
// Tool versions are resolved here, once, before any stage runs.
func (ps *PipelineScript) Build() *engine.Pipeline {
	p := engine.NewPipeline(ps.Name, requirement(ps.Agent), buildStages(ps.Stages)...)
	p.Env = ToolEnv(ps.Tools)
	return p
}

func buildStages(stages []Stage) []*engine.Stage {
	out := make([]*engine.Stage, 0, len(stages))
	for _, decl := range stages {
		steps := make([]engine.Step, 0, len(decl.Steps))
		for _, s := range decl.Steps {
			steps = append(steps, s.build())
		}
		stage := engine.NewStage(decl.Stage, steps...)
		if decl.Agent != "" {
			stage.OnAgent(engine.RequireLabel(decl.Agent))
		}
		out = append(out, stage)
	}
	return out
}

func (s *Step) build() engine.Step {
	switch {
	case s.Checkout != nil:
		return engine.Checkout(s.Checkout.Repository, s.Checkout.Credential)
	case s.Archive != nil:
		return engine.ArchiveArtifacts(s.Archive.Pattern, s.Archive.FollowSymlinks)
	case s.Publish != nil:
		return engine.PublishTestResults(
			s.Publish.Pattern,
			engine.RetentionPolicy{KeepRuns: s.Publish.KeepRuns},
		)
	default:
		return engine.ShellCommand(s.Script)
	}
}

func requirement(label string) engine.AgentRequirement {
	if label == "" || label == "any" {
		return engine.AnyAgent()
	}
	return engine.RequireLabel(label)
}

// ToolEnv maps tool-version declarations to environment variables, e.g.
// {maven: 3.9.6} becomes MAVEN_VERSION=3.9.6.
func ToolEnv(tools map[string]string) map[string]string {
	env := make(map[string]string, len(tools))
	for tool, version := range tools {
		key := strings.ToUpper(strings.ReplaceAll(tool, "-", "_")) + "_VERSION"
		env[key] = version
	}
	return env
}
