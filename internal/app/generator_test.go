package app

import (
	"fmt"
	"strconv"
	"testing"

	"arithmetic-quiz-service/internal/domain"
)

var allOperators = []domain.Operator{domain.OpAdd, domain.OpSubtract, domain.OpMultiply, domain.OpDivide}

func TestGeneratedChoicesAreWellFormed(t *testing.T) {
	gen := NewTaskGenerator(NewRandomSource(1))
	for grade := 0; grade <= 7; grade++ {
		for _, task := range gen.Generate(200, allOperators, grade) {
			if len(task.Choices) != 4 {
				t.Fatalf("expected 4 choices, got %v", task.Choices)
			}
			seen := make(map[string]bool)
			hits := 0
			for _, choice := range task.Choices {
				n, err := strconv.Atoi(choice)
				if err != nil || n < 0 {
					t.Fatalf("choice %q is not a non-negative integer", choice)
				}
				if seen[choice] {
					t.Fatalf("duplicate choice %q in %v", choice, task.Choices)
				}
				seen[choice] = true
				if choice == task.CorrectAnswer {
					hits++
				}
			}
			if hits != 1 {
				t.Fatalf("correct answer %s present %d times in %v", task.CorrectAnswer, hits, task.Choices)
			}
			if !task.FreeAnswerAllowed {
				t.Fatalf("expected free answers to be allowed")
			}
		}
	}
}

func TestGeneratedResultsMatchQuestion(t *testing.T) {
	gen := NewTaskGenerator(NewRandomSource(2))
	for _, task := range gen.Generate(500, allOperators, 4) {
		var a, b int
		var op string
		if _, err := fmt.Sscanf(task.Question, "%d %s %d = ?", &a, &op, &b); err != nil {
			t.Fatalf("parse question %q: %v", task.Question, err)
		}
		want := 0
		switch domain.Operator(op) {
		case domain.OpAdd:
			want = a + b
		case domain.OpSubtract:
			want = a - b
			if want < 0 {
				t.Fatalf("negative subtraction result in %q", task.Question)
			}
		case domain.OpMultiply:
			want = a * b
		case domain.OpDivide:
			if b < 2 || b > 12 {
				t.Fatalf("divisor out of range in %q", task.Question)
			}
			want = a / b
			if want < 2 || want > 12 || want*b != a {
				t.Fatalf("inexact division in %q", task.Question)
			}
		default:
			t.Fatalf("unexpected operator %q", op)
		}
		if task.CorrectAnswer != strconv.Itoa(want) {
			t.Fatalf("%q: expected %d, got %s", task.Question, want, task.CorrectAnswer)
		}
		if len(task.Metadata.Operators) != 1 || string(task.Metadata.Operators[0]) != op {
			t.Fatalf("metadata operators %v do not match %q", task.Metadata.Operators, op)
		}
	}
}

func TestGradeOneAdditionRange(t *testing.T) {
	gen := NewTaskGenerator(NewRandomSource(3))
	for i := 0; i < 300; i++ {
		task := gen.Generate(1, []domain.Operator{domain.OpAdd}, 1)[0]
		var a, b int
		if _, err := fmt.Sscanf(task.Question, "%d + %d = ?", &a, &b); err != nil {
			t.Fatalf("parse question %q: %v", task.Question, err)
		}
		if a < 0 || a > 20 || b < 0 || b > 20 {
			t.Fatalf("operands outside [1,20]: %q", task.Question)
		}
		if task.CorrectAnswer != strconv.Itoa(a+b) {
			t.Fatalf("expected %d, got %s", a+b, task.CorrectAnswer)
		}
		if task.Metadata.Grade != 1 || task.Metadata.Difficulty != domain.DifficultyEasy {
			t.Fatalf("unexpected metadata %+v", task.Metadata)
		}
	}
}

func TestUnknownGradeFallsBackToDefaultRange(t *testing.T) {
	gen := NewTaskGenerator(NewRandomSource(4))
	for _, task := range gen.Generate(200, []domain.Operator{domain.OpMultiply}, 42) {
		var a, b int
		if _, err := fmt.Sscanf(task.Question, "%d × %d = ?", &a, &b); err != nil {
			t.Fatalf("parse question %q: %v", task.Question, err)
		}
		if a < 1 || a > 50 || b < 1 || b > 50 {
			t.Fatalf("operands outside [1,50]: %q", task.Question)
		}
	}
}

func TestGenerateIDsFollowRequestOrder(t *testing.T) {
	tasks := NewTaskGenerator(NewRandomSource(5)).Generate(7, nil, 2)
	if len(tasks) != 7 {
		t.Fatalf("expected 7 tasks, got %d", len(tasks))
	}
	for i, task := range tasks {
		if want := fmt.Sprintf("t%d", i+1); task.ID != want {
			t.Fatalf("expected id %s, got %s", want, task.ID)
		}
		if task.Metadata.Operators[0] != domain.OpAdd {
			t.Fatalf("expected addition when no operator is given, got %v", task.Metadata.Operators)
		}
	}
	if got := NewTaskGenerator(NewRandomSource(5)).Generate(0, nil, 2); len(got) != 0 {
		t.Fatalf("expected no tasks for count 0, got %d", len(got))
	}
}

func TestUnknownOperatorFallsBackToAddition(t *testing.T) {
	task := NewTaskGenerator(NewRandomSource(6)).Generate(1, []domain.Operator{"%"}, 1)[0]
	if task.Metadata.Operators[0] != domain.OpAdd {
		t.Fatalf("expected addition fallback, got %v", task.Metadata.Operators)
	}
}

func TestOperatorsAreDrawnPerTask(t *testing.T) {
	gen := NewTaskGenerator(NewRandomSource(8))
	counts := make(map[domain.Operator]int)
	for _, task := range gen.Generate(400, []domain.Operator{domain.OpAdd, domain.OpDivide}, 3) {
		counts[task.Metadata.Operators[0]]++
	}
	if counts[domain.OpAdd] < 100 || counts[domain.OpDivide] < 100 {
		t.Fatalf("expected both operators to be drawn, got %v", counts)
	}
}

func TestShuffleDoesNotFavourAPosition(t *testing.T) {
	gen := NewTaskGenerator(NewRandomSource(9))
	positions := make([]int, 4)
	const n = 4000
	for _, task := range gen.Generate(n, []domain.Operator{domain.OpAdd}, 3) {
		for i, choice := range task.Choices {
			if choice == task.CorrectAnswer {
				positions[i]++
			}
		}
	}
	for i, hits := range positions {
		if hits < n/4-200 || hits > n/4+200 {
			t.Fatalf("position %d holds the answer %d/%d times: %v", i, hits, n, positions)
		}
	}
}

func TestParseOperators(t *testing.T) {
	ops, rejected := ParseOperators("+, x,/ ,−,?,+")
	want := []domain.Operator{domain.OpAdd, domain.OpMultiply, domain.OpDivide, domain.OpSubtract}
	if fmt.Sprint(ops) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
	if len(rejected) != 1 || rejected[0] != "?" {
		t.Fatalf("expected ? to be rejected, got %v", rejected)
	}

	ops, _ = ParseOperators("13")
	if len(ops) != 1 || ops[0] != domain.OpAdd {
		t.Fatalf("expected fallback to addition for unknown token, got %v", ops)
	}

	ops, _ = ParseOperators("")
	if len(ops) != 1 || ops[0] != domain.OpAdd {
		t.Fatalf("expected addition for empty input, got %v", ops)
	}
}
