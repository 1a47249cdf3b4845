package lessons

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed course_mssql.yaml
var defaultCourse []byte

// LevelRule assigns Level to modules numbered up to MaxModule.
// A rule with MaxModule 0 matches every module.
type LevelRule struct {
	MaxModule int    `yaml:"max_module"`
	Level     string `yaml:"level"`
}

// CourseTemplates are the text templates for generated lessons.
// {title} is replaced by the lesson title.
type CourseTemplates struct {
	Description     string   `yaml:"description"`
	Takeaways       []string `yaml:"takeaways"`
	SectionTitle    string   `yaml:"section_title"`
	SectionSummary  string   `yaml:"section_summary"`
	Body            string   `yaml:"body"`
	CodeLanguage    string   `yaml:"code_language"`
	Code            string   `yaml:"code"`
	CodeExplanation string   `yaml:"code_explanation"`
}

// CourseModuleDef lists the lesson titles of one module.
type CourseModuleDef struct {
	Title   string   `yaml:"title"`
	Lessons []string `yaml:"lessons"`
}

// CourseDef is the static definition a course is generated from.
type CourseDef struct {
	Version         string            `yaml:"version"`
	CourseID        string            `yaml:"course_id"`
	CourseTitle     string            `yaml:"course_title"`
	Description     string            `yaml:"description"`
	HrefBase        string            `yaml:"href_base"`
	LabelPrefix     string            `yaml:"label_prefix"`
	DurationMinutes int               `yaml:"duration_minutes"`
	Levels          []LevelRule       `yaml:"levels"`
	Templates       CourseTemplates   `yaml:"templates"`
	Modules         []CourseModuleDef `yaml:"modules"`
}

// DefaultCourseDef returns the built-in MSSQL course definition.
func DefaultCourseDef() (*CourseDef, error) {
	return ParseCourseDef(defaultCourse)
}

// LoadCourseDef reads a course definition from a YAML file.
func LoadCourseDef(path string) (*CourseDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading course definition: %w", err)
	}
	return ParseCourseDef(data)
}

// ParseCourseDef parses and validates a YAML course definition.
func ParseCourseDef(data []byte) (*CourseDef, error) {
	var def CourseDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing course definition YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition for missing required values.
func (d *CourseDef) Validate() error {
	if d.CourseID == "" {
		return fmt.Errorf("course definition: course_id is required")
	}
	if d.HrefBase == "" {
		return fmt.Errorf("course definition: href_base is required")
	}
	if len(d.Modules) == 0 {
		return fmt.Errorf("course definition: no modules defined")
	}
	for i, m := range d.Modules {
		if len(m.Lessons) == 0 {
			return fmt.Errorf("course definition: module %d (%q) has no lessons", i+1, m.Title)
		}
	}
	return nil
}

// LevelFor returns the level of the 1-based module number.
func (d *CourseDef) LevelFor(moduleNum int) string {
	for _, r := range d.Levels {
		if r.MaxModule == 0 || moduleNum <= r.MaxModule {
			return r.Level
		}
	}
	return ""
}

// BuildCourse generates the course catalog from its definition.
func BuildCourse(def *CourseDef) *Course {
	course := &Course{
		Version:     def.Version,
		CourseID:    def.CourseID,
		CourseTitle: def.CourseTitle,
		Description: def.Description,
		Modules:     make([]CourseModule, 0, len(def.Modules)),
	}

	tpl := def.Templates
	for m, modDef := range def.Modules {
		moduleNum := m + 1
		moduleID := fmt.Sprintf("module-%02d", moduleNum)
		level := def.LevelFor(moduleNum)

		lessons := make([]Lesson, 0, len(modDef.Lessons))
		for l, title := range modDef.Lessons {
			lessonNum := l + 1
			r := strings.NewReplacer("{title}", title)

			label := title
			if def.LabelPrefix != "" {
				label = fmt.Sprintf("%s %d: %s", def.LabelPrefix, lessonNum, title)
			}

			lessons = append(lessons, Lesson{
				Label:                    label,
				Href:                     fmt.Sprintf("%s/%s/lesson-%02d", def.HrefBase, moduleID, lessonNum),
				Description:              r.Replace(tpl.Description),
				EstimatedDurationMinutes: def.DurationMinutes,
				Level:                    level,
				KeyTakeaways:             replaceAll(r, tpl.Takeaways),
				Sections: []Section{{
					ID:      fmt.Sprintf("%s-lesson-%02d-intro", moduleID, lessonNum),
					Title:   r.Replace(tpl.SectionTitle),
					Summary: r.Replace(tpl.SectionSummary),
					Content: []Block{
						{Type: BlockText, Body: r.Replace(tpl.Body)},
						{
							Type:        BlockCode,
							Language:    tpl.CodeLanguage,
							Code:        r.Replace(tpl.Code),
							Explanation: r.Replace(tpl.CodeExplanation),
						},
					},
				}},
			})
		}

		course.Modules = append(course.Modules, CourseModule{
			ModuleID:    moduleID,
			ModuleTitle: modDef.Title,
			Lessons:     lessons,
		})
		course.TotalLessons += len(lessons)
	}

	return course
}

func replaceAll(r *strings.Replacer, templates []string) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = r.Replace(t)
	}
	return out
}
