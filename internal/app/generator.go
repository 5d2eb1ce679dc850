package app

import (
	"fmt"
	"strconv"
	"strings"

	"arithmetic-quiz-service/internal/domain"
)

const (
	choiceCount    = 4
	maxOffset      = 10
	divisionMin    = 2
	divisionMax    = 12
	taskCategory   = 1
	taskIDPrefix   = "t"
	questionSuffix = " = ?"
)

// gradeRange is the inclusive operand range for a grade.
type gradeRange struct {
	min, max   int
	difficulty domain.Difficulty
}

var gradeRanges = map[int]gradeRange{
	1: {1, 20, domain.DifficultyEasy},
	2: {1, 50, domain.DifficultyEasy},
	3: {1, 100, domain.DifficultyMedium},
	4: {1, 200, domain.DifficultyMedium},
	5: {1, 500, domain.DifficultyHard},
	6: {1, 1000, domain.DifficultyHard},
}

var fallbackRange = gradeRange{1, 50, domain.DifficultyEasy}

// rangeForGrade falls back to [1,50] for grades outside 1..6.
func rangeForGrade(grade int) gradeRange {
	if r, ok := gradeRanges[grade]; ok {
		return r
	}
	return fallbackRange
}

// TaskGenerator synthesizes arithmetic tasks with shuffled multiple-choice options.
type TaskGenerator struct {
	rnd RandomSource
}

func NewTaskGenerator(rnd RandomSource) *TaskGenerator {
	return &TaskGenerator{rnd: rnd}
}

// Generate returns count tasks with ids t1..tN. Each task uses an operator
// drawn uniformly from operators; an empty list means addition.
func (g *TaskGenerator) Generate(count int, operators []domain.Operator, grade int) []domain.Task {
	if len(operators) == 0 {
		operators = []domain.Operator{domain.OpAdd}
	}
	tasks := make([]domain.Task, 0, max(count, 0))
	for i := 0; i < count; i++ {
		op := operators[0]
		if len(operators) > 1 {
			op = operators[g.rnd.IntRange(0, len(operators)-1)]
		}
		tasks = append(tasks, g.task(i+1, op, grade))
	}
	return tasks
}

func (g *TaskGenerator) task(n int, op domain.Operator, grade int) domain.Task {
	r := rangeForGrade(grade)
	a := g.rnd.IntRange(r.min, r.max)
	b := g.rnd.IntRange(r.min, r.max)

	var result int
	switch op {
	case domain.OpSubtract:
		if b > a {
			a, b = b, a
		}
		result = a - b
	case domain.OpMultiply:
		result = a * b
	case domain.OpDivide:
		// Division ignores the grade range so the quotient stays an integer.
		result = g.rnd.IntRange(divisionMin, divisionMax)
		b = g.rnd.IntRange(divisionMin, divisionMax)
		a = result * b
	default:
		op = domain.OpAdd
		result = a + b
	}

	correct := strconv.Itoa(result)
	return domain.Task{
		ID:                taskIDPrefix + strconv.Itoa(n),
		Question:          fmt.Sprintf("%d %s %d%s", a, op, b, questionSuffix),
		Choices:           g.choices(result),
		CorrectAnswer:     correct,
		FreeAnswerAllowed: true,
		Metadata: domain.TaskMetadata{
			Grade:      grade,
			Operators:  []domain.Operator{op},
			Category:   taskCategory,
			Difficulty: r.difficulty,
		},
	}
}

// choices returns the correct result plus three near-miss distractors in random order.
func (g *TaskGenerator) choices(result int) []string {
	seen := map[int]struct{}{result: {}}
	values := []int{result}
	for len(values) < choiceCount {
		fake := result + g.rnd.IntRange(1, maxOffset)*g.sign()
		if fake < 0 {
			fake = -fake
		}
		if _, dup := seen[fake]; dup {
			continue
		}
		seen[fake] = struct{}{}
		values = append(values, fake)
	}

	g.rnd.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func (g *TaskGenerator) sign() int {
	if g.rnd.IntRange(0, 1) == 0 {
		return -1
	}
	return 1
}

var operatorAliases = map[string]domain.Operator{
	"+": domain.OpAdd,
	"1": domain.OpAdd,
	"-": domain.OpSubtract,
	"−": domain.OpSubtract,
	"–": domain.OpSubtract,
	"2": domain.OpSubtract,
	"×": domain.OpMultiply,
	"*": domain.OpMultiply,
	"x": domain.OpMultiply,
	"X": domain.OpMultiply,
	"3": domain.OpMultiply,
	"÷": domain.OpDivide,
	"/": domain.OpDivide,
	":": domain.OpDivide,
	"4": domain.OpDivide,
}

// ParseOperator maps a token or one of its aliases to an Operator.
func ParseOperator(token string) (domain.Operator, bool) {
	op, ok := operatorAliases[strings.TrimSpace(token)]
	return op, ok
}

// ParseOperators splits a comma or space separated operator list. Duplicates
// are dropped and unrecognized tokens are returned separately. When nothing
// is recognized the result is addition only.
func ParseOperators(raw string) ([]domain.Operator, []string) {
	var (
		ops      []domain.Operator
		rejected []string
	)
	seen := make(map[domain.Operator]bool)
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, field := range fields {
		op, ok := ParseOperator(field)
		if !ok {
			rejected = append(rejected, field)
			continue
		}
		if !seen[op] {
			seen[op] = true
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		ops = []domain.Operator{domain.OpAdd}
	}
	return ops, rejected
}
