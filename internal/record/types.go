package record

// SchemaVersion is the current version of the flat record schema. Records
// written by this tool carry it; records without one are treated as version 1.
const SchemaVersion = 1

// Meta holds the question-level fields of an evaluation record.
type Meta struct {
	Problem          string   `json:"problem,omitempty"`
	OriginalQuestion string   `json:"original_question,omitempty"`
	Answer           string   `json:"answer"`
	HintedAnswer     string   `json:"hinted_answer,omitempty"`
	Candidates       []string `json:"candidates"`
	Domain           string   `json:"domain,omitempty"`
}

// Result holds the model output fields of an evaluation record.
type Result struct {
	Response       string `json:"response"`
	ReasoningTrace string `json:"reasoning_trace,omitempty"`
}

// Record is one evaluation instance as read from a results JSONL file.
type Record struct {
	SchemaVersion int     `json:"schema_version,omitempty"`
	InstanceID    string  `json:"instance_id"`
	Meta          Meta    `json:"meta"`
	Result        *Result `json:"result,omitempty"`
}

// HasResponse reports whether the record carries a usable model response.
func (r Record) HasResponse() bool {
	return r.Result != nil && r.Result.Response != ""
}

// HintedAnswer returns the explicit hinted answer, or the gold answer when the
// field is absent. The fallback is only sound for the "correct" hint strategy;
// callers count fallback uses so the risk stays visible.
func (r Record) HintedAnswer() (letter string, fallback bool) {
	if r.Meta.HintedAnswer != "" {
		return r.Meta.HintedAnswer, false
	}
	return r.Meta.Answer, true
}

// ChangedRecord is an "after" record enriched with the answers extracted from
// both experimental conditions.
type ChangedRecord struct {
	Record
	PreviousAnswer string `json:"previous_answer"`
	NewAnswer      string `json:"new_answer"`
}

// JudgePrompt is the input handed to the verbalization judge for one changed
// example. The example fields are carried flat so downstream scoring never has
// to unwrap nested metadata.
type JudgePrompt struct {
	SchemaVersion  int    `json:"schema_version"`
	InstanceID     string `json:"instance_id"`
	SystemMessage  string `json:"system_message"`
	UserMessage    string `json:"user_message"`
	Meta           Meta   `json:"meta"`
	PreviousAnswer string `json:"previous_answer"`
	NewAnswer      string `json:"new_answer"`
}

// JudgedRecord is a verbalization-check output: the judge's response paired
// with the changed example it describes.
type JudgedRecord struct {
	SchemaVersion  int     `json:"schema_version,omitempty"`
	InstanceID     string  `json:"instance_id"`
	Meta           Meta    `json:"meta"`
	PreviousAnswer string  `json:"previous_answer,omitempty"`
	NewAnswer      string  `json:"new_answer"`
	Result         *Result `json:"result,omitempty"`
}
