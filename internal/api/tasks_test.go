package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// captured is one request as the fake server saw it.
type captured struct {
	Method, Path, Query string
	RequestID           string
	Body                map[string]any
}

// recorder answers every request with status and reply, keeping what it saw.
type recorder struct {
	t      *testing.T
	status int
	reply  any

	mu   sync.Mutex
	seen []captured
}

func newRecorder(t *testing.T, status int, reply any) (*recorder, *Client) {
	t.Helper()
	rec := &recorder{t: t, status: status, reply: reply}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)

	client := NewClient("test-token")
	client.SetBaseURL(server.URL)
	return rec, client
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
		rec.t.Errorf("Authorization = %q", got)
	}
	c := captured{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		RequestID: r.Header.Get("X-Request-Id"),
	}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			rec.t.Errorf("Content-Type = %q", ct)
		}
		if err := json.Unmarshal(raw, &c.Body); err != nil {
			rec.t.Errorf("request body: %v", err)
		}
	}
	rec.mu.Lock()
	rec.seen = append(rec.seen, c)
	rec.mu.Unlock()

	w.WriteHeader(rec.status)
	if rec.reply != nil {
		json.NewEncoder(w).Encode(rec.reply)
	}
}

func (rec *recorder) last() captured {
	rec.t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.seen) == 0 {
		rec.t.Fatal("no request reached the server")
	}
	return rec.seen[len(rec.seen)-1]
}

func TestNewClient(t *testing.T) {
	client := NewClient("tok")
	if client.token != "tok" || client.baseURL != BaseURL {
		t.Errorf("NewClient = %+v", client)
	}

	client.SetBaseURL("http://localhost:9000/")
	if client.baseURL != "http://localhost:9000" {
		t.Errorf("trailing slash kept: %q", client.baseURL)
	}
}

func TestGetTasksFilter(t *testing.T) {
	tests := []struct {
		name      string
		filter    TaskFilter
		wantQuery string
	}{
		{"everything", TaskFilter{}, ""},
		{"project", TaskFilter{ProjectID: "789"}, "project_id=789"},
		{"parent and label", TaskFilter{ParentID: "1", Label: "home"}, "label=home&parent_id=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := PaginatedResponse[Task]{Results: []Task{{ID: "1", Content: "Buy milk", Priority: 4}}}
			rec, client := newRecorder(t, http.StatusOK, page)

			got, err := client.GetTasks(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("GetTasks: %v", err)
			}
			if diff := cmp.Diff(page.Results, got); diff != "" {
				t.Errorf("tasks mismatch (-want +got):\n%s", diff)
			}

			req := rec.last()
			if req.Method != http.MethodGet || req.Path != "/tasks" {
				t.Errorf("request = %s %s", req.Method, req.Path)
			}
			if req.Query != tt.wantQuery {
				t.Errorf("query = %q, want %q", req.Query, tt.wantQuery)
			}
			if req.RequestID != "" {
				t.Error("reads should not carry a request id")
			}
		})
	}
}

func TestGetTasksFollowsCursor(t *testing.T) {
	var cursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		cursors = append(cursors, cursor)
		if got := r.URL.Query().Get("project_id"); got != "p" {
			t.Errorf("filter lost on page %q: project_id=%q", cursor, got)
		}

		page := PaginatedResponse[Task]{}
		switch cursor {
		case "":
			next := "page-2"
			page = PaginatedResponse[Task]{Results: []Task{{ID: "1"}}, NextCursor: &next}
		case "page-2":
			empty := ""
			page = PaginatedResponse[Task]{Results: []Task{{ID: "2"}, {ID: "3"}}, NextCursor: &empty}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := NewClient("test-token")
	client.SetBaseURL(server.URL)

	tasks, err := client.GetTasks(context.Background(), TaskFilter{ProjectID: "p"})
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if diff := cmp.Diff([]string{"", "page-2"}, cursors); diff != "" {
		t.Errorf("cursors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Task{{ID: "1"}, {ID: "2"}, {ID: "3"}}, tasks); diff != "" {
		t.Errorf("tasks (-want +got):\n%s", diff)
	}
}

func TestTaskDecodesHierarchyFields(t *testing.T) {
	body := `{"id":"7","parent_id":"3","child_order":2,"priority":4,"labels":["home"],
		"due":{"date":"2026-03-01","string":"Mar 1","is_recurring":true}}`

	var got Task
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Task{
		ID:         "7",
		ParentID:   StringPtr("3"),
		ChildOrder: 2,
		Priority:   4,
		Labels:     []string{"home"},
		Due:        &Due{Date: "2026-03-01", String: "Mar 1", IsRecurring: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskWrites(t *testing.T) {
	reply := Task{ID: "42", Content: "Water plants", Priority: 3}

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *Client) error
		wantMethod string
		wantPath   string
		wantBody   map[string]any
	}{
		{
			name: "create subtask",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.CreateTask(ctx, CreateTaskRequest{Content: "Water plants", ParentID: "9", Priority: 3, DueString: "tomorrow"})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/tasks",
			wantBody:   map[string]any{"content": "Water plants", "parent_id": "9", "priority": 3.0, "due_string": "tomorrow"},
		},
		{
			name: "update only set fields",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.UpdateTask(ctx, "42", UpdateTaskRequest{Priority: IntPtr(4), DueString: StringPtr("no date")})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/tasks/42",
			wantBody:   map[string]any{"priority": 4.0, "due_string": "no date"},
		},
		{
			name:       "close",
			call:       func(ctx context.Context, c *Client) error { return c.CloseTask(ctx, "42") },
			wantMethod: http.MethodPost,
			wantPath:   "/tasks/42/close",
		},
		{
			name:       "delete",
			call:       func(ctx context.Context, c *Client) error { return c.DeleteTask(ctx, "42") },
			wantMethod: http.MethodDelete,
			wantPath:   "/tasks/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, client := newRecorder(t, http.StatusOK, reply)

			if err := tt.call(context.Background(), client); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			req := rec.last()
			if req.Method != tt.wantMethod || req.Path != tt.wantPath {
				t.Errorf("request = %s %s, want %s %s", req.Method, req.Path, tt.wantMethod, tt.wantPath)
			}
			if diff := cmp.Diff(tt.wantBody, req.Body); diff != "" {
				t.Errorf("body (-want +got):\n%s", diff)
			}
			if req.RequestID == "" {
				t.Error("writes should carry X-Request-Id")
			}
		})
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	rec, client := newRecorder(t, http.StatusNoContent, nil)

	for i := 0; i < 3; i++ {
		if err := client.CloseTask(context.Background(), "1"); err != nil {
			t.Fatalf("CloseTask: %v", err)
		}
	}
	ids := map[string]bool{}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, req := range rec.seen {
		ids[req.RequestID] = true
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 distinct request ids, got %v", ids)
	}
}

func TestTaskErrors(t *testing.T) {
	tests := []struct {
		status int
		check  func(*APIError) bool
	}{
		{http.StatusNotFound, (*APIError).IsNotFound},
		{http.StatusUnauthorized, (*APIError).IsUnauthorized},
		{http.StatusForbidden, (*APIError).IsForbidden},
		{http.StatusTooManyRequests, (*APIError).IsRateLimited},
		{http.StatusServiceUnavailable, (*APIError).IsServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			_, client := newRecorder(t, tt.status, map[string]string{"error": "nope"})

			_, err := client.UpdateTask(context.Background(), "42", UpdateTaskRequest{Content: StringPtr("x")})
			apiErr, ok := IsAPIError(err)
			if !ok {
				t.Fatalf("expected *APIError through the wrapping, got %v", err)
			}
			if !tt.check(apiErr) {
				t.Errorf("status %d not classified", apiErr.StatusCode)
			}
			if !strings.Contains(err.Error(), "42") {
				t.Errorf("error should name the task: %v", err)
			}
		})
	}
}

func TestErrorBodyIsCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 4*maxErrorBody), http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient("test-token")
	client.SetBaseURL(server.URL)

	_, err := client.CreateTask(context.Background(), CreateTaskRequest{})
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if len(apiErr.Message) != maxErrorBody {
		t.Errorf("message length = %d, want %d", len(apiErr.Message), maxErrorBody)
	}
}

func TestRequestHonoursContext(t *testing.T) {
	_, client := newRecorder(t, http.StatusOK, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.CloseTask(ctx, "1"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
