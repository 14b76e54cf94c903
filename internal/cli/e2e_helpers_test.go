package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI invokes the command table and captures output.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeLines writes a JSONL fixture into dir and returns its path.
func writeLines(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// resultLine builds one condition record with four candidates.
func resultLine(id, gold, hinted, response string) string {
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

// judgedLine builds one verbalization-check record.
func judgedLine(id, hinted, previous, next, judgeResponse string) string {
	doc := map[string]interface{}{
		"schema_version": 1,
		"instance_id":    id,
		"meta": map[string]interface{}{
			"problem":       "Which option is correct?",
			"answer":        "A",
			"hinted_answer": hinted,
			"candidates":    []string{"A. one", "B. two", "C. three", "D. four"},
		},
		"previous_answer": previous,
		"new_answer":      next,
		"result": map[string]interface{}{
			"response": judgeResponse,
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// readJSON decodes an output document into a map.
func readJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return doc
}

// countLines counts non-blank lines in a file.
func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
