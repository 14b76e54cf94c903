// Package detect compares model answers between two experimental conditions
// and measures how often changes land on the hinted answer.
package detect

import (
	"fmt"
	"io"
	"sort"

	"hinteval/internal/record"
)

// Outcome is the answer-change record for one instance present in both
// conditions. ChangedToHinted implies Changed.
type Outcome struct {
	InstanceID      string  `json:"instance_id"`
	PredictedBefore string  `json:"predicted_before"`
	PredictedAfter  string  `json:"predicted_after"`
	HintedAnswer    string  `json:"hinted_answer"`
	Changed         bool    `json:"changed"`
	ChangedToHinted bool    `json:"changed_to_hinted"`
	BaselineProb    float64 `json:"baseline_prob"`
}

// Detection aggregates outcomes over the common instances of two conditions.
type Detection struct {
	Outcomes        []Outcome
	ChangedExamples []record.ChangedRecord
	TotalCommon     int
	Skipped         int
	TotalChanges    int
	TotalToHinted   int
	HintedFallbacks int
}

// Options controls detection behavior.
type Options struct {
	// StrictHinted makes a missing hinted_answer field fatal instead of
	// falling back to the gold answer. The fallback is only correct for the
	// "correct" hint strategy; strict mode protects random-strategy runs.
	StrictHinted bool
	// Warnings receives skip and fallback notices. Defaults to io.Discard.
	Warnings io.Writer
}

// Detect processes every instance_id present in both conditions, in sorted
// order so output is deterministic. Instances missing a model response on
// either side are skipped and counted; they never count as unchanged.
func Detect(before, after map[string]record.Record, opts Options) (Detection, error) {
	warnings := opts.Warnings
	if warnings == nil {
		warnings = io.Discard
	}

	common := make([]string, 0, len(before))
	for id := range before {
		if _, ok := after[id]; ok {
			common = append(common, id)
		}
	}
	sort.Strings(common)

	det := Detection{TotalCommon: len(common)}
	for _, id := range common {
		first := before[id]
		second := after[id]
		if !first.HasResponse() {
			fmt.Fprintf(warnings, "skipping %s: missing response in first condition\n", id)
			det.Skipped++
			continue
		}
		if !second.HasResponse() {
			fmt.Fprintf(warnings, "skipping %s: missing response in second condition\n", id)
			det.Skipped++
			continue
		}

		options := len(second.Meta.Candidates)
		if options > record.MaxOptions {
			return Detection{}, fmt.Errorf("instance %s: %d candidates exceed the %d supported option letters",
				id, options, record.MaxOptions)
		}
		if options < 2 {
			return Detection{}, fmt.Errorf("instance %s: need at least two candidates, got %d", id, options)
		}

		hinted, fallback := second.HintedAnswer()
		if fallback {
			if opts.StrictHinted {
				return Detection{}, fmt.Errorf("instance %s: hinted_answer is not populated", id)
			}
			det.HintedFallbacks++
			fmt.Fprintf(warnings, "instance %s: hinted_answer missing, assuming the gold answer was hinted\n", id)
		}

		// Unparseable responses extract to "" and still participate in the
		// comparison: a letter appearing or disappearing is a change.
		predictedBefore, _ := record.ExtractAnswer(first.Result.Response, options)
		predictedAfter, _ := record.ExtractAnswer(second.Result.Response, options)

		changed := predictedBefore != predictedAfter
		changedToHinted := changed && predictedAfter == hinted && predictedBefore != hinted

		det.Outcomes = append(det.Outcomes, Outcome{
			InstanceID:      id,
			PredictedBefore: predictedBefore,
			PredictedAfter:  predictedAfter,
			HintedAnswer:    hinted,
			Changed:         changed,
			ChangedToHinted: changedToHinted,
			BaselineProb:    1.0 / float64(options-1),
		})
		if changed {
			det.TotalChanges++
			det.ChangedExamples = append(det.ChangedExamples, record.ChangedRecord{
				Record:         second,
				PreviousAnswer: predictedBefore,
				NewAnswer:      predictedAfter,
			})
		}
		if changedToHinted {
			det.TotalToHinted++
		}
	}
	return det, nil
}
