// Package scorefile reads model score collections from YAML or JSON files.
//
// A score file names an experiment and lists its models in display order:
//
//	name: churn-baseline
//	models:
//	  - model: LogReg
//	    scores:
//	      cv_accuracy: [0.81, 0.79, 0.80]
//	    holdout:
//	      cv_accuracy: 0.805
//
// A bare list of models is accepted too; the experiment is then named after the file.
package scorefile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScores wraps every validation problem found in a score file.
var ErrInvalidScores = errors.New("invalid score file")

// FileLoader loads score collections from local files.
type FileLoader struct{}

var _ contract.ScoreLoader = &FileLoader{} // Compile-time check

// NewFileLoader creates a new score file loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// LoadScores reads every path and merges the models into one experiment, keeping
// file order then model order. The experiment takes the first name it finds.
func (l *FileLoader) LoadScores(ctx context.Context, paths ...string) (schema.Experiment, error) {
	if len(paths) == 0 {
		return schema.Experiment{}, errors.New("--scores is required")
	}

	var merged schema.Experiment
	seen := make(map[string]string)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return schema.Experiment{}, err
		}
		exp, err := ReadFile(path)
		if err != nil {
			return schema.Experiment{}, err
		}
		if merged.Name == "" {
			merged.Name = exp.Name
		}
		for _, m := range exp.Models {
			if prev, dup := seen[m.Model]; dup {
				return schema.Experiment{}, fmt.Errorf("model %q appears in both %s and %s", m.Model, prev, filepath.Base(path))
			}
			seen[m.Model] = filepath.Base(path)
			merged.Models = append(merged.Models, m)
		}
	}
	return merged, nil
}

// ReadFile parses and validates one score file.
func ReadFile(path string) (schema.Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Experiment{}, fmt.Errorf("failed to read score file: %w", err)
	}
	exp, err := Parse(data)
	if err != nil {
		return schema.Experiment{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if exp.Name == "" {
		exp.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return exp, nil
}

// Parse decodes a score document. JSON documents parse as YAML.
func Parse(data []byte) (schema.Experiment, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return schema.Experiment{}, fmt.Errorf("failed to parse scores: %w", err)
	}
	if len(node.Content) == 0 {
		return schema.Experiment{}, fmt.Errorf("%w: document is empty", ErrInvalidScores)
	}

	var exp schema.Experiment
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&exp.Models); err != nil {
			return schema.Experiment{}, fmt.Errorf("failed to decode models: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&exp); err != nil {
			return schema.Experiment{}, fmt.Errorf("failed to decode experiment: %w", err)
		}
	default:
		return schema.Experiment{}, fmt.Errorf("%w: expected a mapping or a list of models", ErrInvalidScores)
	}

	if err := Validate(exp); err != nil {
		return schema.Experiment{}, err
	}
	return exp, nil
}

// Validate reports every problem in the experiment at once.
func Validate(exp schema.Experiment) error {
	var merr error
	if len(exp.Models) == 0 {
		merr = multierror.Append(merr, errors.New("no models listed"))
	}

	names := make(map[string]struct{}, len(exp.Models))
	for i, m := range exp.Models {
		where := fmt.Sprintf("models[%d]", i)
		if strings.TrimSpace(m.Model) == "" {
			merr = multierror.Append(merr, fmt.Errorf("%s: model name is empty", where))
		} else {
			where = fmt.Sprintf("%s (%s)", where, m.Model)
			if _, dup := names[m.Model]; dup {
				merr = multierror.Append(merr, fmt.Errorf("%s: duplicate model name", where))
			}
			names[m.Model] = struct{}{}
		}

		if len(m.Scores) == 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s: no scores", where))
		}
		for metric, folds := range m.Scores {
			if len(folds) == 0 {
				merr = multierror.Append(merr, fmt.Errorf("%s: metric %q has no fold scores", where, metric))
			}
			for j, v := range folds {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					merr = multierror.Append(merr, fmt.Errorf("%s: metric %q fold %d is not finite", where, metric, j))
				}
			}
		}
		for metric, v := range m.Holdout {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				merr = multierror.Append(merr, fmt.Errorf("%s: holdout %q is not finite", where, metric))
			}
		}
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScores, merr)
	}
	return nil
}
