package task

import (
	"fmt"
	"strings"
)

// Supported tasks.
const (
	GPQA    = "gpqa"
	MMLUPro = "mmlu_pro"
)

// DefaultSeed matches the seed used across the original experiment runs so
// published confidence intervals stay reproducible.
const DefaultSeed = 19106

// DefaultBootstrapSamples is the default resample count for confidence intervals.
const DefaultBootstrapSamples = 10000

// DefaultConfidence is the default confidence level for intervals.
const DefaultConfidence = 0.95

// Canonical dataset sizes. The two-stage faithfulness bootstrap needs the size
// of the dataset before filtering to changed examples.
const (
	GPQADiamondExamples       = 198
	MMLUProValidationExamples = 70
	MMLUProTest200Examples    = 200
)

// Names lists the supported task names.
var Names = []string{GPQA, MMLUPro}

// Valid reports whether name is a supported task.
func Valid(name string) bool {
	return name == GPQA || name == MMLUPro
}

// DatasetSize returns the canonical dataset size for a task. For MMLU-Pro the
// input path disambiguates the test200 subset from the validation split.
func DatasetSize(name, inputPath string) (int, error) {
	switch name {
	case GPQA:
		return GPQADiamondExamples, nil
	case MMLUPro:
		if strings.Contains(strings.ToLower(inputPath), "test200") {
			return MMLUProTest200Examples, nil
		}
		return MMLUProValidationExamples, nil
	default:
		return 0, fmt.Errorf("unsupported task %q (must be one of %s)", name, strings.Join(Names, ", "))
	}
}
