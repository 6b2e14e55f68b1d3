// Package matrix loads the declarative requirements matrix pack: an
// _index.yaml naming one YAML file per method family, each declaring
// per-input-family requirement levels for its methods. The loader is pure
// loading and validation; no applicability judgment happens here, and the
// raw YAML form never escapes this package.
package matrix

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/decodestack/decode-gate/internal/models"
	"github.com/decodestack/decode-gate/internal/utils"
)

// IndexFileName is the required entry point of a matrix pack directory.
const IndexFileName = "_index.yaml"

type indexEntry struct {
	File   string `yaml:"file" validate:"required"`
	Family string `yaml:"family" validate:"required"`
}

type indexFile struct {
	SchemaVersion string       `yaml:"schema_version" validate:"required"`
	InputFamilies []string     `yaml:"input_families" validate:"required,min=1,dive,required"`
	Matrices      []indexEntry `yaml:"matrices" validate:"required,min=1,dive"`
}

type methodSpec struct {
	Label    string            `yaml:"label" validate:"required"`
	Requires map[string]string `yaml:"requires" validate:"required"`
}

type matrixFile struct {
	Family  string                `yaml:"family" validate:"required"`
	Methods map[string]methodSpec `yaml:"methods" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads and validates a matrix pack directory into the strongly
// typed RequirementsMatrix.
func Load(dir string) (models.RequirementsMatrix, error) {
	indexPath := filepath.Join(dir, IndexFileName)

	var index indexFile
	if err := readYAML(indexPath, &index); err != nil {
		return models.RequirementsMatrix{}, err
	}
	if err := validate.Struct(index); err != nil {
		return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load", fmt.Sprintf("invalid index %s", indexPath), err)
	}

	// The index and the code must agree on the canonical family list.
	canonical := models.Families()
	if len(index.InputFamilies) != len(canonical) {
		return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load",
			fmt.Sprintf("%s: input_families mismatch: index has %v, expected %v", indexPath, index.InputFamilies, canonical), nil)
	}
	for i, f := range index.InputFamilies {
		if models.Family(f) != canonical[i] {
			return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load",
				fmt.Sprintf("%s: input_families mismatch: index has %v, expected %v", indexPath, index.InputFamilies, canonical), nil)
		}
	}

	methods := map[string]models.MethodRequirements{}

	for _, entry := range index.Matrices {
		docPath := filepath.Join(dir, entry.File)

		var doc matrixFile
		if err := readYAML(docPath, &doc); err != nil {
			return models.RequirementsMatrix{}, err
		}
		if err := validate.Struct(doc); err != nil {
			return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load", fmt.Sprintf("invalid matrix file %s", docPath), err)
		}
		if doc.Family != entry.Family {
			return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load",
				fmt.Sprintf("family mismatch for %s: index says %q but file says %q", docPath, entry.Family, doc.Family), nil)
		}

		for methodID, spec := range doc.Methods {
			if prev, exists := methods[methodID]; exists {
				return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load",
					fmt.Sprintf("duplicate method id %q in %s (already defined in %s)", methodID, entry.File, prev.SourceFile), nil)
			}

			requires := make(map[models.Family]models.RequirementLevel, len(spec.Requires))
			for family, level := range spec.Requires {
				requires[models.Family(family)] = models.RequirementLevel(level)
			}

			method := models.MethodRequirements{
				MethodID:     methodID,
				MethodFamily: entry.Family,
				Label:        spec.Label,
				Requires:     requires,
				SourceFile:   entry.File,
			}
			if err := method.Validate(); err != nil {
				return models.RequirementsMatrix{}, utils.NewAppError("matrix.Load", fmt.Sprintf("invalid method in %s", docPath), err)
			}
			methods[methodID] = method
		}
	}

	return models.RequirementsMatrix{
		SchemaVersion: index.SchemaVersion,
		Methods:       methods,
	}, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return utils.NewAppError("matrix.Load", fmt.Sprintf("read %s", path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return utils.NewAppError("matrix.Load", fmt.Sprintf("parse %s", path), err)
	}
	return nil
}
