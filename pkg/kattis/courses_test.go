package kattis

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func withCoursesHome(site *fakeSite) {
	site.home = `<html><body>
<a href="/users/alice">alice</a><a href="/users/alice">alice</a>
<ul>
<li><a href="/courses/CS3233">CS3233 Competitive Programming</a></li>
<li><a href="/courses/CS2040">CS2040 Data Structures</a></li>
<li><a href="/courses/CS3233/CS3233_S2_AY2425">offering deep link</a></li>
</ul>
</body></html>`
}

func TestCourses(t *testing.T) {
	site := newFakeSite(t)
	withCoursesHome(site)

	spec, err := NewSpec(ViewCourses, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Courses(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The deep offering link must not produce a third course.
	if result.Len() != 2 {
		t.Fatalf("expected 2 courses, got %d", result.Len())
	}
	if result.All()[0].ID != "CS3233" {
		t.Fatalf("courses = %+v", result.All())
	}
}

func TestResolveCourseID(t *testing.T) {
	site := newFakeSite(t)
	withCoursesHome(site)
	client := site.client()
	ctx := context.Background()

	id, err := client.ResolveCourseID(ctx, "CS3233")
	if err != nil || id != "CS3233" {
		t.Fatalf("exact id: %q, %v", id, err)
	}
	id, err = client.ResolveCourseID(ctx, "data structures")
	if err != nil || id != "CS2040" {
		t.Fatalf("name fragment: %q, %v", id, err)
	}
	if _, err = client.ResolveCourseID(ctx, "underwater basket weaving"); err == nil {
		t.Fatal("expected error for unknown course")
	}
}

func TestAssignments(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/courses/CS3233/S2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<section><h2>Assignments</h2>
<ul>
<li><a href="/courses/CS3233/S2/assignments/ctest1">Contest 1</a>
Ended
2025-01-20</li>
<li><span><a href="/problems/apple">Apple</a></span></li>
<li><span><a href="/problems/mango">Mango</a></span></li>
<li><a href="/courses/CS3233/S2/assignments/ctest2">Contest 2</a>
Open
2025-02-03</li>
<li><span><a href="/problems/zebra">Zebra</a></span></li>
</ul>
</section></body></html>`)
	})

	spec, err := NewSpec(ViewAssignments, Options{CourseID: "CS3233", OfferingID: "S2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Assignments(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 2 {
		t.Fatalf("expected 2 assignments, got %d", result.Len())
	}

	first := result.All()[0]
	if first.ID != "ctest1" || first.Name != "Contest 1" {
		t.Fatalf("assignment = %+v", first)
	}
	if first.Status != "Ended" || first.DueDate != "2025-01-20" {
		t.Fatalf("status/due = %q %q", first.Status, first.DueDate)
	}
	if len(first.ProblemIDs) != 2 || first.ProblemIDs[0] != "apple" || first.ProblemIDs[1] != "mango" {
		t.Fatalf("problems = %v", first.ProblemIDs)
	}

	second := result.All()[1]
	if second.ID != "ctest2" || len(second.ProblemIDs) != 1 {
		t.Fatalf("assignment = %+v", second)
	}
}

func TestAssignmentsGuessesCourseFromOffering(t *testing.T) {
	site := newFakeSite(t)
	withCoursesHome(site)
	site.handle("/courses/CS3233", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table id="course_offerings">
<thead><tr><th>Name</th><th>End date</th></tr></thead>
<tbody><tr><td><a href="/courses/CS3233/S2">Semester 2</a></td><td>2025-05-01</td></tr></tbody>
</table></body></html>`)
	})
	site.handle("/courses/CS2040", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>nothing here</p></body></html>`)
	})
	site.handle("/courses/CS3233/S2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<section><h2>Assignments</h2>
<ul>
<li><a href="/courses/CS3233/S2/assignments/ctest1">Contest 1</a></li>
</ul>
</section></body></html>`)
	})

	spec, err := NewSpec(ViewAssignments, Options{OfferingID: "S2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := site.client().Assignments(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 1 {
		t.Fatalf("expected 1 assignment, got %d", result.Len())
	}
	if got := result.All()[0].CourseID; got != "CS3233" {
		t.Fatalf("course id = %q", got)
	}
}

func TestAssignmentsMissingSectionIsParseError(t *testing.T) {
	site := newFakeSite(t)
	site.handle("/courses/CS3233/S2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h2>Syllabus</h2></body></html>`)
	})

	spec, err := NewSpec(ViewAssignments, Options{CourseID: "CS3233", OfferingID: "S2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := site.client().Assignments(context.Background(), spec); err == nil {
		t.Fatal("expected ParseError")
	}
}
