package api

// StringPtr returns a pointer to s, for building UpdateTaskRequest values.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
