package rbac

import "testing"

func TestCheckerRoles(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("student", "quiz:attempt") {
		t.Fatalf("students can attempt quizzes")
	}
	if c.Has("student", "quiz:create") {
		t.Fatalf("students cannot create quizzes")
	}
	if !c.Has("instructor", "course:create") {
		t.Fatalf("instructors can create courses")
	}
	if !c.Has("admin", "anything:at-all") {
		t.Fatalf("admin wildcard")
	}
	if c.Has("unknown", "course:view") {
		t.Fatalf("unknown roles have no permissions")
	}
}

func TestCheckerAny(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("student", "progress:view-own", "progress:view-all") {
		t.Fatalf("student has view-own")
	}
	if c.Any("student", "users:list", "exam:export") {
		t.Fatalf("student has neither")
	}
}

func TestMatchPermPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"grader": {"quiz:*"}})
	if !c.Has("grader", "quiz:attempt") {
		t.Fatalf("prefix pattern should match")
	}
	if c.Has("grader", "course:view") {
		t.Fatalf("prefix pattern must not cross concerns")
	}
}
