package accuracy

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"hinteval/internal/bootstrap"
	"hinteval/internal/record"
)

func makeRecord(id, gold, response string, options int) record.Record {
	candidates := make([]string, options)
	letters := record.OptionLetters(options)
	for i := range candidates {
		candidates[i] = letters[i] + ". option"
	}
	rec := record.Record{
		InstanceID: id,
		Meta:       record.Meta{Answer: gold, Candidates: candidates},
	}
	if response != "" {
		rec.Result = &record.Result{Response: response}
	}
	return rec
}

// TestEvaluateAccuracies covers a ten-example batch with seven correct
// answers, two incorrect and one unparseable: accuracy_total is 0.7 and
// accuracy_parseable is 7/9.
func TestEvaluateAccuracies(t *testing.T) {
	records := make([]record.Record, 0, 10)
	for i := 0; i < 7; i++ {
		records = append(records, makeRecord(fmt.Sprintf("c%d", i), "A", "FINAL ANSWER: A", 4))
	}
	records = append(records,
		makeRecord("w1", "A", "FINAL ANSWER: B", 4),
		makeRecord("w2", "A", "FINAL ANSWER: C", 4),
		makeRecord("u1", "A", "I cannot decide.", 4),
	)
	eng := bootstrap.New(2000, 0.95, 19106)
	res, err := Evaluate(records, eng, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Correct != 7 || res.Parseable != 9 || res.Unparseable != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.AccuracyTotal != 0.7 {
		t.Fatalf("expected accuracy_total 0.7, got %f", res.AccuracyTotal)
	}
	if math.Abs(res.AccuracyParseable-7.0/9.0) > 1e-12 {
		t.Fatalf("expected accuracy_parseable 7/9, got %f", res.AccuracyParseable)
	}
	if res.AccuracyTotalCI[0] > res.AccuracyTotal || res.AccuracyTotal > res.AccuracyTotalCI[1] {
		t.Fatalf("accuracy_total outside its CI: %+v", res)
	}
	if res.AccuracyParseableCI[0] > res.AccuracyParseable || res.AccuracyParseable > res.AccuracyParseableCI[1] {
		t.Fatalf("accuracy_parseable outside its CI: %+v", res)
	}
}

// TestEvaluateWarnsOnDefects verifies missing responses and invalid gold
// answers are warned about and scored as unparseable.
func TestEvaluateWarnsOnDefects(t *testing.T) {
	var warnings bytes.Buffer
	records := []record.Record{
		makeRecord("ok", "A", "FINAL ANSWER: A", 4),
		makeRecord("no-response", "A", "", 4),
		makeRecord("bad-gold", "Z", "FINAL ANSWER: A", 4),
	}
	res, err := Evaluate(records, bootstrap.New(100, 0.95, 1), &warnings)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Unparseable != 2 || res.Correct != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if !strings.Contains(warnings.String(), "missing response") {
		t.Fatalf("expected missing-response warning, got %q", warnings.String())
	}
	if !strings.Contains(warnings.String(), "not a valid option") {
		t.Fatalf("expected gold-answer warning, got %q", warnings.String())
	}
}

// TestEvaluateAllUnparseable verifies the conditional accuracy falls back to
// zero when nothing parses.
func TestEvaluateAllUnparseable(t *testing.T) {
	records := []record.Record{
		makeRecord("1", "A", "no letter", 4),
		makeRecord("2", "A", "still no letter", 4),
	}
	res, err := Evaluate(records, bootstrap.New(100, 0.95, 1), nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.AccuracyTotal != 0 || res.AccuracyParseable != 0 {
		t.Fatalf("expected zero accuracies, got %+v", res)
	}
}

// TestEvaluateRejectsBadInput covers the structural errors.
func TestEvaluateRejectsBadInput(t *testing.T) {
	if _, err := Evaluate(nil, bootstrap.New(10, 0.95, 1), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	bad := makeRecord("1", "A", "FINAL ANSWER: A", 4)
	bad.Meta.Candidates = nil
	if _, err := Evaluate([]record.Record{bad}, bootstrap.New(10, 0.95, 1), nil); err == nil {
		t.Fatalf("expected error for missing candidates")
	}
}

// TestEvaluateReproducible verifies fixed seeds give identical intervals.
func TestEvaluateReproducible(t *testing.T) {
	records := []record.Record{
		makeRecord("1", "A", "FINAL ANSWER: A", 4),
		makeRecord("2", "A", "FINAL ANSWER: B", 4),
		makeRecord("3", "A", "FINAL ANSWER: A", 4),
	}
	first, err := Evaluate(records, bootstrap.New(500, 0.95, 42), nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	second, err := Evaluate(records, bootstrap.New(500, 0.95, 42), nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if first != second {
		t.Fatalf("same seed produced different results")
	}
}
