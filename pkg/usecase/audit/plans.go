package audit

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Plans is the YAML configuration naming the explanation plans
// requested from the narrator and the narrative-style profile they
// are rendered with.
type Plans struct {
	Profile string   `yaml:"profile"`
	Plans   []string `yaml:"plans"`
}

// LoadPlans reads an explanation-plan configuration file.
func LoadPlans(path string) (*Plans, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read plan config", goerr.V("path", path))
	}

	var plans Plans
	if err := yaml.Unmarshal(raw, &plans); err != nil {
		return nil, goerr.Wrap(err, "failed to parse plan config", goerr.V("path", path))
	}
	if len(plans.Plans) == 0 {
		return nil, goerr.New("plan config names no plans", goerr.V("path", path))
	}
	return &plans, nil
}
