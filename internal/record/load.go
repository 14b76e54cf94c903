package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineBytes bounds a single JSONL line; reasoning traces can be long.
const maxLineBytes = 16 * 1024 * 1024

// LoadRecords reads a results JSONL file into a slice, preserving file order.
// Blank lines are skipped. Malformed JSON or a missing instance_id is a
// structural error and aborts the load.
func LoadRecords(path string) ([]Record, error) {
	var records []Record
	err := readLines(path, func(lineNo int, data []byte) error {
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("%s:%d: parse record: %w", path, lineNo, err)
		}
		if err := checkRecord(rec, path, lineNo); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadIndex reads a results JSONL file into a map keyed by instance_id.
// A duplicate instance_id keeps the last occurrence, matching upstream
// behavior where reruns overwrite earlier attempts.
func LoadIndex(path string) (map[string]Record, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	index := make(map[string]Record, len(records))
	for _, rec := range records {
		index[rec.InstanceID] = rec
	}
	return index, nil
}

// LoadJudged reads a verbalization-check output JSONL file.
func LoadJudged(path string) ([]JudgedRecord, error) {
	var records []JudgedRecord
	err := readLines(path, func(lineNo int, data []byte) error {
		var rec JudgedRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("%s:%d: parse judged record: %w", path, lineNo, err)
		}
		if rec.InstanceID == "" {
			return fmt.Errorf("%s:%d: missing instance_id", path, lineNo)
		}
		if rec.SchemaVersion > SchemaVersion {
			return fmt.Errorf("%s:%d: unsupported schema_version %d", path, lineNo, rec.SchemaVersion)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadChanged reads a changed-examples JSONL file.
func LoadChanged(path string) ([]ChangedRecord, error) {
	var records []ChangedRecord
	err := readLines(path, func(lineNo int, data []byte) error {
		var rec ChangedRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("%s:%d: parse changed record: %w", path, lineNo, err)
		}
		if err := checkRecord(rec.Record, path, lineNo); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// WriteJSONL writes one JSON document per line for any record slice.
func WriteJSONL[T any](w io.Writer, records []T) error {
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

func checkRecord(rec Record, path string, lineNo int) error {
	if rec.InstanceID == "" {
		return fmt.Errorf("%s:%d: missing instance_id", path, lineNo)
	}
	if rec.SchemaVersion > SchemaVersion {
		return fmt.Errorf("%s:%d: unsupported schema_version %d", path, lineNo, rec.SchemaVersion)
	}
	if len(rec.Meta.Candidates) > MaxOptions {
		return fmt.Errorf("%s:%d: %d candidates exceed the %d supported option letters",
			path, lineNo, len(rec.Meta.Candidates), MaxOptions)
	}
	return nil
}

func readLines(path string, fn func(lineNo int, data []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(trimSpaceBytes(line)) == 0 {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func trimSpaceBytes(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
