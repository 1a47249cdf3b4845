package lessons

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics_dotnet.yaml
var defaultTopics []byte

// TopicTemplates are the text templates for generated topic lessons.
// Placeholders: {title}, {module} and {description}.
type TopicTemplates struct {
	LabelSuffix         string   `yaml:"label_suffix"`
	LabelMarker         string   `yaml:"label_marker"`
	Takeaways           []string `yaml:"takeaways"`
	SectionTitle        string   `yaml:"section_title"`
	SectionSummary      string   `yaml:"section_summary"`
	Body                string   `yaml:"body"`
	CodeLanguage        string   `yaml:"code_language"`
	Code                string   `yaml:"code"`
	CodeExplanation     string   `yaml:"code_explanation"`
	CalloutTitle        string   `yaml:"callout_title"`
	CalloutBody         string   `yaml:"callout_body"`
	CheckpointQuestion  string   `yaml:"checkpoint_question"`
	CheckpointOptions   []string `yaml:"checkpoint_options"`
	CheckpointAnswer    string   `yaml:"checkpoint_answer"`
	CheckpointRationale string   `yaml:"checkpoint_rationale"`
}

// TopicDef is one topic of a module.
type TopicDef struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// TopicModuleDef is a module and its topics.
type TopicModuleDef struct {
	ModuleID    string     `yaml:"module_id"`
	ModuleTitle string     `yaml:"module_title"`
	Topics      []TopicDef `yaml:"topics"`
}

// TopicSet is the static definition of topic modules to patch in.
type TopicSet struct {
	DefaultLevel    string            `yaml:"default_level"`
	Levels          map[string]string `yaml:"levels"`
	DurationMinutes int               `yaml:"duration_minutes"`
	HrefBase        string            `yaml:"href_base"`
	RootedSlugs     []string          `yaml:"rooted_slugs"`
	Templates       TopicTemplates    `yaml:"templates"`
	Modules         []TopicModuleDef  `yaml:"modules"`
}

// DefaultTopicSet returns the built-in .NET Core topic modules.
func DefaultTopicSet() (*TopicSet, error) {
	return ParseTopicSet(defaultTopics)
}

// LoadTopicSet reads a topic set from a YAML file.
func LoadTopicSet(path string) (*TopicSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topic definitions: %w", err)
	}
	return ParseTopicSet(data)
}

// ParseTopicSet parses and validates a YAML topic set.
func ParseTopicSet(data []byte) (*TopicSet, error) {
	var set TopicSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing topic definitions YAML: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks that module IDs and topic slugs are present.
func (s *TopicSet) Validate() error {
	if s.HrefBase == "" {
		return fmt.Errorf("topic definitions: href_base is required")
	}
	for i, m := range s.Modules {
		if m.ModuleID == "" {
			return fmt.Errorf("topic definitions: module %d has no module_id", i+1)
		}
		for j, t := range m.Topics {
			if t.Slug == "" {
				return fmt.Errorf("topic definitions: module %q topic %d has no slug", m.ModuleID, j+1)
			}
		}
	}
	return nil
}

// LevelFor returns the level of a module ID such as
// "module-03-project-structure", keyed on its "module-03" prefix.
func (s *TopicSet) LevelFor(moduleID string) string {
	parts := strings.SplitN(moduleID, "-", 3)
	if len(parts) >= 2 {
		if level, ok := s.Levels[parts[0]+"-"+parts[1]]; ok {
			return level
		}
	}
	return s.DefaultLevel
}

// HrefFor returns the lesson path of a topic. Rooted slugs live directly
// under HrefBase; others are nested under the module's path, where
// "module-03-project-structure" becomes "03/project/structure".
func (s *TopicSet) HrefFor(moduleID, slug string) string {
	for _, rooted := range s.RootedSlugs {
		if strings.Contains(slug, rooted) {
			return s.HrefBase + "/" + slug
		}
	}
	modulePath := strings.ReplaceAll(strings.ReplaceAll(moduleID, "module-", ""), "-", "/")
	return s.HrefBase + "/" + modulePath + "/" + slug
}

// BuildTopic generates the lesson for one topic of a module.
func (s *TopicSet) BuildTopic(mod TopicModuleDef, topic TopicDef) TopicLesson {
	tpl := s.Templates
	r := strings.NewReplacer(
		"{title}", topic.Title,
		"{module}", mod.ModuleTitle,
		"{description}", topic.Description,
	)

	label := topic.Title
	if tpl.LabelMarker == "" || !strings.Contains(topic.Title, tpl.LabelMarker) {
		label += tpl.LabelSuffix
	}

	return TopicLesson{
		Lesson: Lesson{
			Label:                    label,
			Href:                     s.HrefFor(mod.ModuleID, topic.Slug),
			Description:              topic.Description,
			EstimatedDurationMinutes: s.DurationMinutes,
			Level:                    s.LevelFor(mod.ModuleID),
			KeyTakeaways:             replaceAll(r, tpl.Takeaways),
			Sections: []Section{{
				ID:      topic.Slug + "-overview",
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
					{
						Type:    BlockCallout,
						Variant: "tip",
						Title:   r.Replace(tpl.CalloutTitle),
						Body:    r.Replace(tpl.CalloutBody),
					},
				},
			}},
		},
		Checkpoints: []Checkpoint{{
			ID:        "checkpoint-" + topic.Slug,
			Question:  r.Replace(tpl.CheckpointQuestion),
			Options:   append([]string(nil), tpl.CheckpointOptions...),
			Answer:    tpl.CheckpointAnswer,
			Rationale: tpl.CheckpointRationale,
		}},
		Resources: []json.RawMessage{},
		Practice:  []json.RawMessage{},
	}
}

// BuildModule generates all topic lessons of a module.
func (s *TopicSet) BuildModule(mod TopicModuleDef) (TopicModule, error) {
	out := TopicModule{
		ModuleID:    mod.ModuleID,
		ModuleTitle: mod.ModuleTitle,
		Topics:      make([]json.RawMessage, 0, len(mod.Topics)),
	}
	for _, t := range mod.Topics {
		raw, err := marshal(s.BuildTopic(mod, t))
		if err != nil {
			return TopicModule{}, fmt.Errorf("encoding topic %q: %w", t.Slug, err)
		}
		out.Topics = append(out.Topics, raw)
	}
	return out, nil
}

// PatchResult summarizes a PatchTopics call.
type PatchResult struct {
	Added    int
	Replaced int
}

// PatchTopics adds every module of the set to the catalog and recomputes
// TotalTopics. A module whose ID is already present is replaced in place;
// its topics are regenerated and its other keys are kept.
func (s *TopicSet) PatchTopics(catalog *TopicCatalog) (PatchResult, error) {
	var res PatchResult

	index := make(map[string]int, len(catalog.Modules))
	for i, m := range catalog.Modules {
		index[m.ModuleID] = i
	}

	for _, def := range s.Modules {
		mod, err := s.BuildModule(def)
		if err != nil {
			return res, err
		}
		if i, ok := index[mod.ModuleID]; ok {
			mod.fields = catalog.Modules[i].fields
			catalog.Modules[i] = mod
			res.Replaced++
			continue
		}
		index[mod.ModuleID] = len(catalog.Modules)
		catalog.Modules = append(catalog.Modules, mod)
		res.Added++
	}

	catalog.Recount()
	return res, nil
}
