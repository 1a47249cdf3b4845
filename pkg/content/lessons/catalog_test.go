package lessons

import (
	"bytes"
	"strings"
	"testing"
)

func TestTopicCatalog_RoundTripKeepsKeysInOrder(t *testing.T) {
	input := `{"version":"1","totalTopics":0,"courseId":"c","modules":[{"moduleId":"m","moduleTitle":"M","description":"keep me","topics":[]}]}`

	catalog, err := ReadTopicCatalog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, catalog); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := `{
  "version": "1",
  "totalTopics": 0,
  "courseId": "c",
  "modules": [
    {
      "moduleId": "m",
      "moduleTitle": "M",
      "description": "keep me",
      "topics": []
    }
  ]
}
`
	if buf.String() != want {
		t.Errorf("round trip mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTopicCatalog_EmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, &TopicCatalog{}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	want := "{\n  \"totalTopics\": 0,\n  \"modules\": []\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPatchTopics_KeepsModuleKeys(t *testing.T) {
	set := defaultTopicSet(t)

	input := `{
  "modules": [
    {"moduleId": "module-03-project-structure", "description": "elle yazıldı", "moduleTitle": "Eski", "topics": []}
  ],
  "totalTopics": 0,
  "updatedBy": "editor"
}`
	catalog, err := ReadTopicCatalog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}
	if _, err := set.PatchTopics(catalog); err != nil {
		t.Fatalf("PatchTopics failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, catalog); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "{\n  \"modules\": [\n    {\n      \"moduleId\": \"module-03-project-structure\",\n      \"description\": \"elle yazıldı\",\n      \"moduleTitle\": \"Proje Yapısı ve Dependency Injection\",\n") {
		t.Errorf("replaced module lost its keys or order:\n%s", out[:min(len(out), 400)])
	}
	if !strings.HasSuffix(out, "  \"totalTopics\": 80,\n  \"updatedBy\": \"editor\"\n}\n") {
		t.Errorf("unexpected catalog tail:\n%s", out[max(0, len(out)-200):])
	}
}

func TestReadTopicCatalog_NotAnObject(t *testing.T) {
	if _, err := ReadTopicCatalog(strings.NewReader(`[1, 2]`)); err == nil {
		t.Error("expected error for array input")
	}
}
