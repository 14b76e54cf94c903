// Package accuracy scores a single condition's answers against the gold
// labels, with bootstrap confidence intervals over the outcome categories.
package accuracy

import (
	"fmt"
	"io"

	"hinteval/internal/bootstrap"
	"hinteval/internal/record"
)

type category int

const (
	parseableCorrect category = iota
	parseableIncorrect
	unparseable
)

// Results is the accuracy JSON document for one condition file.
type Results struct {
	Total       int `json:"total_examples"`
	Correct     int `json:"correct_count"`
	Parseable   int `json:"parseable_count"`
	Unparseable int `json:"unparseable_count"`

	AccuracyTotal     float64 `json:"accuracy_total"`
	AccuracyParseable float64 `json:"accuracy_parseable"`

	AccuracyTotalCI     [2]float64 `json:"accuracy_total_ci"`
	AccuracyParseableCI [2]float64 `json:"accuracy_parseable_ci"`

	BootstrapSamples int     `json:"n_bootstrap_samples"`
	ConfidenceLevel  float64 `json:"confidence_level"`
}

// Evaluate categorizes every record as parseable-correct, parseable-incorrect
// or unparseable and bootstraps both accuracy rates over the categories.
// Records without a response or without a valid gold answer are warned about
// and scored as unparseable; they stay in the denominator.
func Evaluate(records []record.Record, eng *bootstrap.Engine, warnings io.Writer) (Results, error) {
	if len(records) == 0 {
		return Results{}, fmt.Errorf("no records to score")
	}
	if warnings == nil {
		warnings = io.Discard
	}

	categories := make([]category, 0, len(records))
	res := Results{
		Total:            len(records),
		BootstrapSamples: eng.Samples(),
		ConfidenceLevel:  eng.Confidence(),
	}
	for _, rec := range records {
		options := len(rec.Meta.Candidates)
		if options < 2 || options > record.MaxOptions {
			return Results{}, fmt.Errorf("record %s: unsupported candidate count %d", rec.InstanceID, options)
		}
		gold := rec.Meta.Answer
		if !record.ValidLetter(gold, options) {
			fmt.Fprintf(warnings, "record %s: gold answer %q is not a valid option, scoring as unparseable\n",
				rec.InstanceID, gold)
			categories = append(categories, unparseable)
			continue
		}
		if !rec.HasResponse() {
			fmt.Fprintf(warnings, "record %s: missing response, scoring as unparseable\n", rec.InstanceID)
			categories = append(categories, unparseable)
			continue
		}
		predicted, ok := record.ExtractAnswer(rec.Result.Response, options)
		if !ok {
			categories = append(categories, unparseable)
			continue
		}
		if predicted == gold {
			categories = append(categories, parseableCorrect)
		} else {
			categories = append(categories, parseableIncorrect)
		}
	}

	for _, c := range categories {
		switch c {
		case parseableCorrect:
			res.Correct++
			res.Parseable++
		case parseableIncorrect:
			res.Parseable++
		default:
			res.Unparseable++
		}
	}
	res.AccuracyTotal = accuracyTotal(categories)
	res.AccuracyParseable = accuracyParseable(categories)

	total := bootstrap.IntervalOf(eng, categories, accuracyTotal)
	res.AccuracyTotalCI = [2]float64{total.Lower, total.Upper}
	parseable := bootstrap.IntervalOf(eng, categories, accuracyParseable)
	res.AccuracyParseableCI = [2]float64{parseable.Lower, parseable.Upper}
	return res, nil
}

func accuracyTotal(sample []category) float64 {
	if len(sample) == 0 {
		return 0
	}
	correct := 0
	for _, c := range sample {
		if c == parseableCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(sample))
}

// accuracyParseable conditions on parseable outcomes; a resample with none
// falls back to 0.0 rather than an undefined value.
func accuracyParseable(sample []category) float64 {
	correct := 0
	parseable := 0
	for _, c := range sample {
		switch c {
		case parseableCorrect:
			correct++
			parseable++
		case parseableIncorrect:
			parseable++
		}
	}
	if parseable == 0 {
		return 0.0
	}
	return float64(correct) / float64(parseable)
}
