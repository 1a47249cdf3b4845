// Package lessons builds lesson catalogs: full course files and topic
// modules patched into an existing topic catalog.
package lessons

import "encoding/json"

// Block types used in lesson sections.
const (
	BlockText    = "text"
	BlockCode    = "code"
	BlockList    = "list"
	BlockCallout = "callout"
)

// Block is one piece of section content. Which fields are set depends on Type.
type Block struct {
	Type        string   `json:"type"`
	Body        string   `json:"body,omitempty"`
	Language    string   `json:"language,omitempty"`
	Code        string   `json:"code,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Ordered     *bool    `json:"ordered,omitempty"`
	Items       []string `json:"items,omitempty"`
	Variant     string   `json:"variant,omitempty"`
	Title       string   `json:"title,omitempty"`
}

// Section is a titled group of blocks.
type Section struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Content []Block `json:"content"`
}

// Checkpoint is an inline comprehension question.
type Checkpoint struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Answer    string   `json:"answer"`
	Rationale string   `json:"rationale"`
}

// Lesson is a single lesson page.
type Lesson struct {
	Label                    string    `json:"label"`
	Href                     string    `json:"href"`
	Description              string    `json:"description"`
	EstimatedDurationMinutes int       `json:"estimatedDurationMinutes"`
	Level                    string    `json:"level"`
	KeyTakeaways             []string  `json:"keyTakeaways"`
	Sections                 []Section `json:"sections"`
}

// TopicLesson is a lesson in the topic catalog, which also carries
// checkpoints, resources and practice items.
type TopicLesson struct {
	Lesson
	Checkpoints []Checkpoint      `json:"checkpoints"`
	Resources   []json.RawMessage `json:"resources"`
	Practice    []json.RawMessage `json:"practice"`
}

// CourseModule is a module of a course catalog.
type CourseModule struct {
	ModuleID    string   `json:"moduleId"`
	ModuleTitle string   `json:"moduleTitle"`
	Lessons     []Lesson `json:"lessons"`
}

// Course is a full course catalog file.
type Course struct {
	Version      string         `json:"version"`
	TotalLessons int            `json:"totalLessons"`
	CourseID     string         `json:"courseId"`
	CourseTitle  string         `json:"courseTitle"`
	Description  string         `json:"description"`
	Modules      []CourseModule `json:"modules"`
}

// Lookup returns the lesson with the given href.
func (c *Course) Lookup(href string) (*Lesson, bool) {
	for i := range c.Modules {
		for j := range c.Modules[i].Lessons {
			if c.Modules[i].Lessons[j].Href == href {
				return &c.Modules[i].Lessons[j], true
			}
		}
	}
	return nil, false
}
