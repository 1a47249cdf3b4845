package lessons

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const apiModule = `module_id: module-08
module_title: API Geliştirme
lessons:
  - label: API Kavramına Giriş
    href: /education/lessons/api-development/api-intro
    estimatedDurationMinutes: 50
    level: Başlangıç
    keyTakeaways:
      - API'nin ne olduğunu anlayacaksın.
    sections:
      - id: api-intro-foundations
        content:
          - type: list
            ordered: true
            items: ["<b>REST</b>", gRPC]
    practice:
      - id: p1
        estimatedMinutes: 1.5
        resource: null
  - label: REST İlkeleri
    href: /education/lessons/api-development/rest
`

const apiIntroJSON = `{"label":"API Kavramına Giriş","href":"/education/lessons/api-development/api-intro",` +
	`"estimatedDurationMinutes":50,"level":"Başlangıç","keyTakeaways":["API'nin ne olduğunu anlayacaksın."],` +
	`"sections":[{"id":"api-intro-foundations","content":[{"type":"list","ordered":true,"items":["<b>REST</b>","gRPC"]}]}],` +
	`"practice":[{"id":"p1","estimatedMinutes":1.5,"resource":null}]}`

func TestModuleDef_Build(t *testing.T) {
	def, err := ParseModuleDef([]byte(apiModule))
	if err != nil {
		t.Fatalf("ParseModuleDef failed: %v", err)
	}

	mod, err := def.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if mod.ModuleID != "module-08" || mod.ModuleTitle != "API Geliştirme" {
		t.Errorf("unexpected module %q / %q", mod.ModuleID, mod.ModuleTitle)
	}
	if len(mod.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(mod.Lessons))
	}
	if got := string(mod.Lessons[0]); got != apiIntroJSON {
		t.Errorf("lesson JSON mismatch:\ngot:  %s\nwant: %s", got, apiIntroJSON)
	}
}

func TestModuleDef_Anchors(t *testing.T) {
	data := `module_id: m
module_title: M
lessons:
  - &first
    label: A
    href: /a
  - *first
`
	def, err := ParseModuleDef([]byte(data))
	if err != nil {
		t.Fatalf("ParseModuleDef failed: %v", err)
	}
	mod, err := def.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if string(mod.Lessons[1]) != `{"label":"A","href":"/a"}` {
		t.Errorf("alias not resolved: %s", mod.Lessons[1])
	}
}

func TestModuleDef_MergeKeyRejected(t *testing.T) {
	data := `module_id: m
module_title: M
base: &base
  level: Orta
lessons:
  - <<: *base
    label: A
    href: /a
`
	def, err := ParseModuleDef([]byte(data))
	if err != nil {
		t.Fatalf("ParseModuleDef failed: %v", err)
	}
	if _, err := def.Build(); err == nil || !strings.Contains(err.Error(), "unsupported mapping key") {
		t.Errorf("expected merge key error, got %v", err)
	}
}

func TestParseModuleDef_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"invalid yaml", "lessons: [", "parsing module definition YAML"},
		{"missing id", "module_title: M\nlessons: [{label: a, href: /a}]\n", "module_id is required"},
		{"missing title", "module_id: m\nlessons: [{label: a, href: /a}]\n", "module_title is required"},
		{"no lessons", "module_id: m\nmodule_title: M\n", "no lessons"},
		{"scalar lesson", "module_id: m\nmodule_title: M\nlessons: [x]\n", "lesson 1 is not a mapping"},
		{"missing href", "module_id: m\nmodule_title: M\nlessons: [{label: a}]\n", "lesson 1 needs a label and an href"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModuleDef([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLoadModuleDef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.yaml")
	if err := os.WriteFile(path, []byte(apiModule), 0644); err != nil {
		t.Fatalf("failed to write module: %v", err)
	}
	if _, err := LoadModuleDef(path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := LoadModuleDef(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

const existingCourse = `{
  "version": "1.0",
  "courseId": "course-dotnet-roadmap",
  "totalLessons": 2,
  "modules": [
    {
      "moduleId": "module-01",
      "moduleTitle": "C# Temelleri",
      "icon": "book",
      "lessons": [{"label": "Değişkenler", "href": "/education/lessons/01/variables"}, {"label": "Döngüler"}]
    }
  ],
  "updatedBy": "editor"
}`

func TestCourseCatalog_PatchModule(t *testing.T) {
	catalog, err := ReadCourseCatalog(strings.NewReader(existingCourse))
	if err != nil {
		t.Fatalf("failed to read course catalog: %v", err)
	}

	def, err := ParseModuleDef([]byte(apiModule))
	if err != nil {
		t.Fatalf("ParseModuleDef failed: %v", err)
	}
	mod, err := def.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if replaced := catalog.PatchModule(mod); replaced {
		t.Error("expected module-08 to be appended")
	}
	if len(catalog.Modules) != 2 || catalog.TotalLessons != 4 {
		t.Errorf("got %d modules / %d lessons, want 2 / 4", len(catalog.Modules), catalog.TotalLessons)
	}

	// Patching the same module again replaces it.
	mod.ModuleTitle = "API Geliştirme (RESTful API)"
	if replaced := catalog.PatchModule(mod); !replaced {
		t.Error("expected module-08 to be replaced")
	}
	if len(catalog.Modules) != 2 || catalog.TotalLessons != 4 {
		t.Errorf("re-patch changed totals: %d modules / %d lessons", len(catalog.Modules), catalog.TotalLessons)
	}

	// Replacing a hand-written module keeps its other keys.
	if replaced := catalog.PatchModule(CatalogModule{ModuleID: "module-01", ModuleTitle: "C#"}); !replaced {
		t.Error("expected module-01 to be replaced")
	}
	if catalog.TotalLessons != 2 {
		t.Errorf("TotalLessons = %d, want 2", catalog.TotalLessons)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, catalog); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()

	want := []string{
		"{\n  \"version\": \"1.0\",\n  \"courseId\": \"course-dotnet-roadmap\",\n  \"totalLessons\": 2,\n  \"modules\": [\n",
		"      \"moduleId\": \"module-01\",\n      \"moduleTitle\": \"C#\",\n      \"icon\": \"book\",\n      \"lessons\": []\n",
		`"moduleTitle": "API Geliştirme (RESTful API)"`,
		`"items": [`,
		`"<b>REST</b>"`,
		"  \"updatedBy\": \"editor\"\n}\n",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}

	reread, err := ReadCourseCatalog(&buf)
	if err != nil {
		t.Fatalf("failed to re-read catalog: %v", err)
	}
	if reread.TotalLessons != 2 || len(reread.Modules[1].Lessons) != 2 {
		t.Errorf("re-read catalog differs: %d lessons", reread.TotalLessons)
	}
}

func TestReadCourseCatalog_Invalid(t *testing.T) {
	tests := []string{`not json`, `[]`, `{"modules": {"a": 1}}`, `{"totalLessons": "x"}`}
	for _, input := range tests {
		if _, err := ReadCourseCatalog(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
