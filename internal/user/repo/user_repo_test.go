package repo

import "testing"

func strPtr(s string) *string { return &s }

func TestBuildUpdate_EmptyPatch(t *testing.T) {
	if _, _, ok := BuildUpdate(1, UserPatch{}); ok {
		t.Fatalf("empty patch must not render a statement")
	}
}

func TestBuildUpdate_SingleField(t *testing.T) {
	q, args, ok := BuildUpdate(7, UserPatch{Name: strPtr("New Name")})
	if !ok {
		t.Fatalf("expected a statement")
	}
	want := "UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2"
	if q != want {
		t.Fatalf("q = %q, want %q", q, want)
	}
	if len(args) != 2 || args[0] != "New Name" || args[1] != int64(7) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildUpdate_AllFields(t *testing.T) {
	q, args, ok := BuildUpdate(3, UserPatch{
		Name:     strPtr("N"),
		Email:    strPtr("n@example.com"),
		Password: strPtr("$2b$12$hash"),
	})
	if !ok {
		t.Fatalf("expected a statement")
	}
	want := "UPDATE users SET name = $1, email = $2, password = $3, updated_at = NOW() WHERE id = $4"
	if q != want {
		t.Fatalf("q = %q, want %q", q, want)
	}
	if len(args) != 4 || args[3] != int64(3) {
		t.Fatalf("args = %v", args)
	}
}
