package cucumber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hinteval/internal/cli"

	"github.com/cucumber/godog"
)

type featureState struct {
	workDir     string
	previousWD  string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int
	initialized bool
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^the config is invalid$`, state.theConfigIsInvalid)
	ctx.Step(`^two condition files where the hint flips two of three answers$`, state.conditionFilesWithHintedFlips)
	ctx.Step(`^the changed examples have been detected$`, state.changedExamplesHaveBeenDetected)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the error message points to the invalid field$`, state.theErrorMessagePointsToInvalidField)
	ctx.Step(`^the change statistics report (\d+) changes to the hinted answer$`, state.changeStatsReportToHinted)
	ctx.Step(`^(\d+) judge prompts are written$`, state.judgePromptsAreWritten)
}

func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.initialized = false
}

func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
		s.previousWD = ""
	}
	if s.workDir != "" {
		_ = os.RemoveAll(s.workDir)
		s.workDir = ""
	}
}

// enterWorkDir creates a temporary working directory for the scenario.
func (s *featureState) enterWorkDir() error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "hinteval-feature-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	s.workDir = dir
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

func (s *featureState) theConfigIsInvalid() error {
	if err := s.enterWorkDir(); err != nil {
		return err
	}
	content := "version: 1\ntask: trivia\n"
	return os.WriteFile(".hinteval.yml", []byte(content), 0o644)
}

func (s *featureState) conditionFilesWithHintedFlips() error {
	if err := s.enterWorkDir(); err != nil {
		return err
	}
	before := []string{
		conditionLine("1", "A", "", "FINAL ANSWER: B"),
		conditionLine("2", "A", "", "FINAL ANSWER: A"),
		conditionLine("3", "A", "", "FINAL ANSWER: C"),
	}
	after := []string{
		conditionLine("1", "A", "A", "FINAL ANSWER: A"),
		conditionLine("2", "A", "A", "FINAL ANSWER: A"),
		conditionLine("3", "A", "A", "FINAL ANSWER: A"),
	}
	if err := os.WriteFile("before.jsonl", []byte(strings.Join(before, "\n")+"\n"), 0o644); err != nil {
		return err
	}
	return os.WriteFile("after.jsonl", []byte(strings.Join(after, "\n")+"\n"), 0o644)
}

func (s *featureState) changedExamplesHaveBeenDetected() error {
	return s.iRunCommand("hinteval changes before.jsonl after.jsonl --task gpqa --samples 100 --no-color")
}

func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "hinteval" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected zero exit code, got %d (stderr: %s)", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

func (s *featureState) theErrorMessagePointsToInvalidField() error {
	errOutput := s.stderr.String()
	if !strings.Contains(errOutput, "task") {
		return fmt.Errorf("expected error to mention task, got %q", errOutput)
	}
	return nil
}

func (s *featureState) changeStatsReportToHinted(want int) error {
	data, err := os.ReadFile(filepath.Join("results", "change_stats.json"))
	if err != nil {
		return fmt.Errorf("read change stats: %w", err)
	}
	var stats struct {
		TotalToHinted int `json:"total_to_hinted"`
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("decode change stats: %w", err)
	}
	if stats.TotalToHinted != want {
		return fmt.Errorf("expected %d changes to hinted, got %d", want, stats.TotalToHinted)
	}
	return nil
}

func (s *featureState) judgePromptsAreWritten(want int) error {
	data, err := os.ReadFile(filepath.Join("results", "verbalization_prompts.jsonl"))
	if err != nil {
		return fmt.Errorf("read judge prompts: %w", err)
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	if count != want {
		return fmt.Errorf("expected %d judge prompts, got %d", want, count)
	}
	return nil
}

func conditionLine(id, gold, hinted, response string) string {
	doc := map[string]interface{}{
		"schema_version": 1,
		"instance_id":    id,
		"meta": map[string]interface{}{
			"problem":       "Which option is correct?",
			"answer":        gold,
			"hinted_answer": hinted,
			"candidates":    []string{"A. one", "B. two", "C. three", "D. four"},
		},
		"result": map[string]interface{}{
			"response":        response,
			"reasoning_trace": "some reasoning",
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(data)
}
