// Package mapping loads shaping rules from YAML files.
//
// Example:
//
//	created: [version, changeset, timestamp, user, uid]
//	tags:
//	  - amenity
//	  - cuisine
//	  - name
//	  - phone
//	problem_chars: '[=\+/&<>;''"\?%#$@\,\. \t\r\n]'
//
// Omitted sections use the defaults of the shape package. An empty list
// disables the section.
package mapping

import (
	"io/ioutil"

	"github.com/omniscale/osmdoc/shape"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Created      *[]string `yaml:"created"`
	Tags         *[]string `yaml:"tags"`
	ProblemChars *string   `yaml:"problem_chars"`
}

func FromFile(filename string) (shape.Rules, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return shape.Rules{}, errors.Wrap(err, "reading rules")
	}
	rules, err := New(b)
	if err != nil {
		return shape.Rules{}, errors.Wrapf(err, "rules file %s", filename)
	}
	return rules, nil
}

func New(b []byte) (shape.Rules, error) {
	conf := Config{}
	if err := yaml.UnmarshalStrict(b, &conf); err != nil {
		return shape.Rules{}, err
	}
	return conf.Rules()
}

func (c *Config) Rules() (shape.Rules, error) {
	created := shape.DefaultCreated
	if c.Created != nil {
		created = *c.Created
	}
	tags := shape.DefaultAllowed
	if c.Tags != nil {
		tags = *c.Tags
	}
	problemChars := shape.DefaultProblemChars
	if c.ProblemChars != nil {
		problemChars = *c.ProblemChars
	}
	return shape.NewRules(created, tags, problemChars)
}
