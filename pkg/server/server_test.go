package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/controlplane-com/content-seeder/pkg/content/badges"
	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
)

const topicCatalog = `{
  "version": "2.1",
  "totalTopics": 1,
  "modules": [
    {
      "moduleId": "module-01-csharp",
      "moduleTitle": "C# Temelleri",
      "topics": [
        {"label": "Değişkenler", "href": "/education/lessons/01/csharp/variables", "custom": true}
      ]
    }
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tables, err := badges.DefaultTables()
	if err != nil {
		t.Fatalf("failed to load badge tables: %v", err)
	}
	catalog, err := badges.Generate(tables)
	if err != nil {
		t.Fatalf("failed to generate badges: %v", err)
	}

	def, err := lessons.DefaultCourseDef()
	if err != nil {
		t.Fatalf("failed to load course definition: %v", err)
	}

	topics, err := lessons.ReadTopicCatalog(strings.NewReader(topicCatalog))
	if err != nil {
		t.Fatalf("failed to read topic catalog: %v", err)
	}

	s := New()
	s.SetBadges(catalog)
	s.SetCourse(lessons.BuildCourse(def))
	s.SetTopics(topics)
	return s
}

func doRequest(t *testing.T, h http.Handler, path, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := New().Handler("secret")

	rr := doRequest(t, h, "/api/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(t).Handler("secret")

	tests := []struct {
		name   string
		auth   string
		status int
		errMsg string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing Authorization header"},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized, "invalid Authorization header format"},
		{"no token", "Bearer", http.StatusUnauthorized, "invalid Authorization header format"},
		{"wrong token", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"valid token", "Bearer secret", http.StatusOK, ""},
		{"lowercase scheme", "bearer secret", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, "/api/badges", tt.auth)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.errMsg != "" && !strings.Contains(rr.Body.String(), tt.errMsg) {
				t.Errorf("body %q does not contain %q", rr.Body.String(), tt.errMsg)
			}
		})
	}
}

func TestNoTokenDisablesAuth(t *testing.T) {
	h := newTestServer(t).Handler("")
	if rr := doRequest(t, h, "/api/badges", ""); rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestBadges(t *testing.T) {
	h := newTestServer(t).Handler("")

	tests := []struct {
		name  string
		path  string
		total int
	}{
		{"all", "/api/badges", 200},
		{"category", "/api/badges?category=streak", 40},
		{"unknown category", "/api/badges?category=nope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, tt.path, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}

			var catalog badges.Catalog
			if err := json.Unmarshal(rr.Body.Bytes(), &catalog); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if catalog.TotalBadges != tt.total || len(catalog.Badges) != tt.total {
				t.Errorf("got %d/%d badges, want %d", catalog.TotalBadges, len(catalog.Badges), tt.total)
			}
			if tt.total == 0 && !strings.Contains(rr.Body.String(), `"badges": []`) {
				t.Errorf("expected empty badges array, got %s", rr.Body.String())
			}
		})
	}
}

func TestBadges_NotLoaded(t *testing.T) {
	rr := doRequest(t, New().Handler(""), "/api/badges", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestCourse(t *testing.T) {
	h := newTestServer(t).Handler("")

	rr := doRequest(t, h, "/api/courses/course-mssql-roadmap", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var course lessons.Course
	if err := json.Unmarshal(rr.Body.Bytes(), &course); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if course.TotalLessons != 225 {
		t.Errorf("TotalLessons = %d, want 225", course.TotalLessons)
	}

	if rr := doRequest(t, h, "/api/courses/missing", ""); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestLesson(t *testing.T) {
	h := newTestServer(t).Handler("")

	tests := []struct {
		name   string
		path   string
		status int
		label  string
	}{
		{"course lesson", "/api/lessons/mssql/module-05/lesson-01", http.StatusOK, "Ders 1: INNER JOIN"},
		{"topic lesson", "/api/lessons/01/csharp/variables", http.StatusOK, "Değişkenler"},
		{"trimmed segment", "/api/lessons/01/%20csharp%20/variables", http.StatusOK, "Değişkenler"},
		{"unknown lesson", "/api/lessons/01/csharp/missing", http.StatusNotFound, ""},
		{"blank slug", "/api/lessons/%20", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, tt.path, "")
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}

			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if tt.status != http.StatusOK {
				if _, ok := body["error"]; !ok {
					t.Errorf("expected error body, got %v", body)
				}
				return
			}
			if body["label"] != tt.label {
				t.Errorf("label = %v, want %q", body["label"], tt.label)
			}
		})
	}
}

func TestLesson_TopicKeepsUnknownFields(t *testing.T) {
	h := newTestServer(t).Handler("")

	rr := doRequest(t, h, "/api/lessons/01/csharp/variables", "")
	if !strings.Contains(rr.Body.String(), `"custom": true`) {
		t.Errorf("expected raw topic fields, got %s", rr.Body.String())
	}
}

func TestSetTopics_Replaces(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler("")

	empty, err := lessons.ReadTopicCatalog(strings.NewReader(`{"totalTopics":0,"modules":[]}`))
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}
	s.SetTopics(empty)

	if rr := doRequest(t, h, "/api/lessons/01/csharp/variables", ""); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestLesson_SharedHrefUsesFirstCourseID(t *testing.T) {
	course := func(id, label string) *lessons.Course {
		return &lessons.Course{
			CourseID: id,
			Modules: []lessons.CourseModule{{
				ModuleID: "module-01",
				Lessons:  []lessons.Lesson{{Label: label, Href: "/education/lessons/shared/intro"}},
			}},
		}
	}

	s := New()
	for _, c := range []*lessons.Course{course("course-c", "C"), course("course-a", "A"), course("course-b", "B")} {
		s.SetCourse(c)
	}
	h := s.Handler("")

	for i := 0; i < 20; i++ {
		rr := doRequest(t, h, "/api/lessons/shared/intro", "")
		var body lessons.Lesson
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body.Label != "A" {
			t.Fatalf("request %d: label = %q, want A", i, body.Label)
		}
	}
}
