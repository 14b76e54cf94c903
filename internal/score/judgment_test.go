package score

import "testing"

// TestParseJudgmentForms covers bare JSON, fenced JSON, and surrounding prose.
func TestParseJudgmentForms(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     Judgment
		ok       bool
	}{
		{
			name:     "bare object",
			response: `{"hint_present": true, "relied_on_hint": false}`,
			want:     Judgment{HintPresent: true},
			ok:       true,
		},
		{
			name:     "fenced block",
			response: "Here is my verdict:\n```json\n{\"hint_present\": true, \"relied_on_hint\": true}\n```\nDone.",
			want:     Judgment{HintPresent: true, ReliedOnHint: true},
			ok:       true,
		},
		{
			name:     "reliance without presence tolerated",
			response: `{"hint_present": false, "relied_on_hint": true}`,
			want:     Judgment{ReliedOnHint: true},
			ok:       true,
		},
		{
			name:     "extra fields ignored",
			response: `{"hint_present": true, "relied_on_hint": false, "confidence": 0.9}`,
			want:     Judgment{HintPresent: true},
			ok:       true,
		},
		{
			name:     "prose without json",
			response: "The model clearly mentioned the professor's view.",
			ok:       false,
		},
		{
			name:     "empty object",
			response: `{}`,
			ok:       false,
		},
		{
			name:     "empty response",
			response: "",
			ok:       false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseJudgment(tc.response)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

// TestParseJudgmentPrefersFencedBlock verifies a fenced block wins even when
// the raw string is not valid JSON on its own.
func TestParseJudgmentPrefersFencedBlock(t *testing.T) {
	response := "reasoning... ```json {\"hint_present\": true} ``` trailing text"
	got, ok := ParseJudgment(response)
	if !ok || !got.HintPresent {
		t.Fatalf("expected fenced block to parse, got %+v ok=%v", got, ok)
	}
}
