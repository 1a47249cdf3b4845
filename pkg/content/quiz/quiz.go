// Package quiz generates placeholder test series as SQL seed inserts.
package quiz

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/controlplane-com/content-seeder/pkg/seed/sqlgen"
	"gopkg.in/yaml.v3"
)

//go:embed series_dotnet.yaml
var defaultSeries []byte

// Columns of the quizzes table, in insert order.
var Columns = []string{
	"id", `"courseId"`, "title", "description", "topic", "type", "level",
	"questions", `"passingScore"`, `"lessonSlug"`, `"createdAt"`, `"updatedAt"`,
}

// ModuleDef is a module that gets its own tests. LessonSlug links the
// tests to a lesson page and is optional.
type ModuleDef struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Level      string `yaml:"level"`
	LessonSlug string `yaml:"lesson_slug"`
}

// Series is the static definition of a test series. Format strings use
// {module}, {test} and {question} placeholders. When CreatedAt is set the
// rows get that fixed time instead of CURRENT_TIMESTAMP.
type Series struct {
	CourseID          string      `yaml:"course_id"`
	Technology        string      `yaml:"technology"`
	Type              string      `yaml:"type"`
	Table             string      `yaml:"table"`
	TestsPerModule    int         `yaml:"tests_per_module"`
	QuestionsPerTest  int         `yaml:"questions_per_test"`
	PassingScore      int         `yaml:"passing_score"`
	TitleFormat       string      `yaml:"title_format"`
	DescriptionFormat string      `yaml:"description_format"`
	QuestionFormat    string      `yaml:"question_format"`
	ExplanationFormat string      `yaml:"explanation_format"`
	Options           []string    `yaml:"options"`
	Modules           []ModuleDef `yaml:"modules"`
	CreatedAt         *time.Time  `yaml:"created_at"`
}

// Question is one multiple-choice question.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Test is one generated quiz row.
type Test struct {
	ID           string
	CourseID     string
	Title        string
	Description  string
	Topic        string
	Type         string
	Level        string
	Questions    []Question
	PassingScore int
	LessonSlug   *string
	CreatedAt    *time.Time
}

// DefaultSeries returns the built-in .NET Core test series.
func DefaultSeries() (*Series, error) {
	return ParseSeries(defaultSeries)
}

// LoadSeries reads a series definition from a YAML file.
func LoadSeries(path string) (*Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test series: %w", err)
	}
	return ParseSeries(data)
}

// ParseSeries parses and validates a YAML series definition.
func ParseSeries(data []byte) (*Series, error) {
	var s Series
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing test series YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the series for values the generator cannot do without.
func (s *Series) Validate() error {
	if s.CourseID == "" {
		return fmt.Errorf("test series: course_id is required")
	}
	if s.Table == "" {
		return fmt.Errorf("test series: table is required")
	}
	if len(s.Modules) == 0 {
		return fmt.Errorf("test series: no modules defined")
	}
	if s.TestsPerModule < 1 || s.QuestionsPerTest < 1 {
		return fmt.Errorf("test series: tests_per_module and questions_per_test must be positive")
	}
	if len(s.Options) == 0 {
		return fmt.Errorf("test series: no answer options defined")
	}
	return nil
}

// Generate builds every test of the series in module order.
func Generate(s *Series) []Test {
	tests := make([]Test, 0, len(s.Modules)*s.TestsPerModule)

	for _, mod := range s.Modules {
		mod := mod
		var slug *string
		if mod.LessonSlug != "" {
			slug = &mod.LessonSlug
		}

		for n := 1; n <= s.TestsPerModule; n++ {
			fill := func(format string, question int) string {
				return strings.NewReplacer(
					"{module}", mod.Title,
					"{test}", strconv.Itoa(n),
					"{question}", strconv.Itoa(question),
				).Replace(format)
			}

			questions := make([]Question, s.QuestionsPerTest)
			for i := range questions {
				questions[i] = Question{
					ID:            fmt.Sprintf("q%d", i+1),
					Question:      fill(s.QuestionFormat, i+1),
					Options:       append([]string(nil), s.Options...),
					CorrectAnswer: i % len(s.Options),
					Explanation:   fill(s.ExplanationFormat, i+1),
				}
			}

			tests = append(tests, Test{
				ID:           fmt.Sprintf("test-module-%s-test-%d", mod.ID, n),
				CourseID:     s.CourseID,
				Title:        fill(s.TitleFormat, 0),
				Description:  fill(s.DescriptionFormat, 0),
				Topic:        s.Technology,
				Type:         s.Type,
				Level:        mod.Level,
				Questions:    questions,
				PassingScore: s.PassingScore,
				LessonSlug:   slug,
				CreatedAt:    s.CreatedAt,
			})
		}
	}

	return tests
}

// Values formats the test as SQL literals in Columns order.
func (t Test) Values() ([]string, error) {
	questions, err := sqlgen.FormatJSONB(t.Questions)
	if err != nil {
		return nil, fmt.Errorf("test %s: %w", t.ID, err)
	}

	created := "CURRENT_TIMESTAMP"
	if t.CreatedAt != nil {
		created = sqlgen.FormatTimestamp(*t.CreatedAt)
	}

	return []string{
		sqlgen.QuoteString(t.ID),
		sqlgen.QuoteString(t.CourseID),
		sqlgen.QuoteString(t.Title),
		sqlgen.QuoteString(t.Description),
		sqlgen.QuoteString(t.Topic),
		sqlgen.QuoteString(t.Type),
		sqlgen.QuoteString(t.Level),
		questions,
		strconv.Itoa(t.PassingScore),
		sqlgen.QuoteNullable(t.LessonSlug),
		created,
		created,
	}, nil
}

// WriteInserts writes the tests as INSERT statements of batchSize rows each,
// preceded by a summary comment. It returns the number of statements written.
func WriteInserts(w io.Writer, s *Series, tests []Test, batchSize int) (int, error) {
	questions := 0
	for _, t := range tests {
		questions += len(t.Questions)
	}

	if _, err := fmt.Fprintf(w, "-- %s test series: %d modules x %d tests = %d tests, %d questions\n\n",
		s.Technology, len(s.Modules), s.TestsPerModule, len(tests), questions); err != nil {
		return 0, fmt.Errorf("write error: %w", err)
	}

	gen := sqlgen.NewInsertGenerator(s.Table, Columns, batchSize)
	statements := 0
	emit := func(stmt string) error {
		if stmt == "" {
			return nil
		}
		if _, err := fmt.Fprintln(w, stmt); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		statements++
		return nil
	}

	for _, t := range tests {
		values, err := t.Values()
		if err != nil {
			return statements, err
		}
		if err := emit(gen.AddRow(values)); err != nil {
			return statements, err
		}
	}
	if err := emit(gen.Flush()); err != nil {
		return statements, err
	}

	return statements, nil
}
