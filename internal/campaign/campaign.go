// Package campaign loads multi-target prospecting campaigns from YAML files.
package campaign

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Target is one prospecting query within a campaign.
type Target struct {
	Title    string `yaml:"title"`
	Industry string `yaml:"industry"`
	Location string `yaml:"location"`
	Count    int    `yaml:"count"`
}

// Campaign is a named batch of target queries sharing a product pitch and
// an output. Product and ValueProp feed the outreach drafts for every target.
type Campaign struct {
	Name      string   `yaml:"name"`
	Product   string   `yaml:"product"`
	ValueProp string   `yaml:"value_proposition"`
	Output    string   `yaml:"output"`
	Targets   []Target `yaml:"targets"`
}

// Load reads and validates a campaign file.
func Load(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "campaign: read %s", path)
	}

	var c Campaign
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrapf(err, "campaign: parse %s", path)
	}

	if c.Name == "" {
		return nil, eris.New("campaign: name is required")
	}
	if len(c.Targets) == 0 {
		return nil, eris.New("campaign: at least one target is required")
	}
	for i, t := range c.Targets {
		if t.Title == "" {
			return nil, eris.Errorf("campaign: target %d: title is required", i)
		}
	}

	return &c, nil
}

// Queries converts the campaign targets into pipeline target queries.
func (c *Campaign) Queries() []model.TargetQuery {
	queries := make([]model.TargetQuery, len(c.Targets))
	for i, t := range c.Targets {
		queries[i] = model.TargetQuery{
			Title:     t.Title,
			Industry:  t.Industry,
			Location:  t.Location,
			Count:     t.Count,
			Product:   c.Product,
			ValueProp: c.ValueProp,
		}
	}
	return queries
}
