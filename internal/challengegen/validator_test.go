package challengegen

import (
	"strings"
	"testing"

	"github.com/galacticode/galacticode/internal/challenge"
)

func packOf(challenges ...challenge.Challenge) *Pack {
	return &Pack{Catalog: challenge.Catalog{
		Name:       "Test Pack",
		Challenges: challenges,
		Thresholds: []int{0},
	}}
}

func ch(title, desc, answer string) challenge.Challenge {
	return challenge.Challenge{Title: title, Description: desc, ExpectedAnswer: answer, Points: 10}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}
	tests := []struct {
		name    string
		pack    *Pack
		count   int
		wantMsg string
	}{
		{"valid", packOf(ch("A", "a?", "x"), ch("B", "b?", "y")), 2, ""},
		{"count mismatch", packOf(ch("A", "a?", "x")), 2, "expected 2 challenges, got 1"},
		{"empty name", &Pack{Catalog: challenge.Catalog{Name: " "}}, 0, "pack name is empty"},
		{"catalog rule", packOf(challenge.Challenge{Title: "A", Description: "a?", ExpectedAnswer: "x"}), 1, "points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.pack, GenerateInput{Count: tt.count})
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Message, tt.wantMsg) {
				t.Errorf("message %q does not mention %q", err.Message, tt.wantMsg)
			}
			if !err.Retryable {
				t.Error("structural failures should be retryable")
			}
		})
	}
}

func TestAnswerValidator(t *testing.T) {
	v := &AnswerValidator{}
	tests := []struct {
		name    string
		answer  string
		desc    string
		wantErr bool
	}{
		{"short answer", "len", "Which builtin returns a slice length?", false},
		{"prompt mentions answer", "let", "Which keyword is like var but block scoped? Not 'letters'.", false},
		{"too long", strings.Repeat("a", maxAnswerLen+1), "Spell it out.", true},
		{"multi-line", "a\nb", "Two lines?", true},
		{"tab", "a\tb", "Tabbed?", true},
		{"prompt is answer", "append", " Append ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(packOf(ch("T", tt.desc, tt.answer)), GenerateInput{})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuplicateValidator(t *testing.T) {
	v := &DuplicateValidator{}

	if err := v.Validate(packOf(ch("Orbit", "a?", "x"), ch("Comet", "b?", "y")), GenerateInput{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := v.Validate(packOf(ch("Orbit", "a?", "x"), ch(" ORBIT ", "b?", "y")), GenerateInput{})
	if err == nil || !strings.Contains(err.Message, "1 and 2") {
		t.Errorf("expected in-pack duplicate, got %v", err)
	}

	err = v.Validate(packOf(ch("Comet", "a?", "x")), GenerateInput{ExistingTitles: []string{"comet"}})
	if err == nil || !strings.Contains(err.Message, "already used") {
		t.Errorf("expected existing-title duplicate, got %v", err)
	}
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Validator: "answer", Message: "too long"}
	if got := err.Error(); got != `validator "answer": too long` {
		t.Errorf("Error() = %q", got)
	}
}
