package api

// PaginatedResponse is the envelope v1 list endpoints return.
type PaginatedResponse[T any] struct {
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
}

// Task represents a Todoist task.
type Task struct {
	ID          string   `json:"id"`
	ProjectID   string   `json:"project_id"`
	SectionID   *string  `json:"section_id"`
	ParentID    *string  `json:"parent_id"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Checked     bool     `json:"checked"`
	Labels      []string `json:"labels"`
	ChildOrder  int      `json:"child_order"`
	Priority    int      `json:"priority"`
	Due         *Due     `json:"due"`
	AddedAt     string   `json:"added_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Due represents a task's due date information.
type Due struct {
	String      string  `json:"string"`
	Date        string  `json:"date"`
	IsRecurring bool    `json:"is_recurring"`
	Datetime    *string `json:"datetime,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	Lang        string  `json:"lang,omitempty"`
}

// Project represents a Todoist project.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	ParentID     *string `json:"parent_id"`
	ChildOrder   int     `json:"child_order"`
	IsFavorite   bool    `json:"is_favorite"`
	InboxProject bool    `json:"inbox_project"`
	ViewStyle    string  `json:"view_style"`
}

// Section represents a project section.
type Section struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	SectionOrder int    `json:"section_order"`
	Name         string `json:"name"`
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	SectionID   string   `json:"section_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Order       int      `json:"order,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Nil fields are left untouched by the server.
type UpdateTaskRequest struct {
	Content     *string  `json:"content,omitempty"`
	Description *string  `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	DueString   *string  `json:"due_string,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
}

// TaskFilter contains optional filters for listing tasks.
type TaskFilter struct {
	ProjectID string
	SectionID string
	ParentID  string
	Label     string
}
