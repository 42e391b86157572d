package postgres

import "testing"

func TestSortClause(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"defaults", "", "", "created_at DESC"},
		{"whitelisted column ascending", "name", "asc", "name ASC"},
		{"whitelisted column uppercase order", "id", "ASC", "id ASC"},
		{"unknown column falls back", "doctor_id; DROP TABLE assessment_templates", "desc", "created_at DESC"},
		{"unknown order falls back", "created_at", "desc; --", "created_at DESC"},
		{"explicit descending", "updated_at", "desc", "updated_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sortClause(tt.sortBy, tt.sortOrder); got != tt.want {
				t.Errorf("sortClause(%q, %q) = %q, want %q", tt.sortBy, tt.sortOrder, got, tt.want)
			}
		})
	}
}
