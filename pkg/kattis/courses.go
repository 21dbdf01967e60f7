package kattis

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mvaldr/kattscope/internal/utils"
	"github.com/mvaldr/kattscope/pkg/record"
	"github.com/mvaldr/kattscope/pkg/scrape"
)

// Courses scrapes the courses the session user can see on their homepage.
// Course-centric instances link each course as /courses/{id}; the link
// pattern is the anchor, not any particular table.
func (c *Client) Courses(ctx context.Context, spec Spec) (*record.Result[record.Course], error) {
	if spec.View() != ViewCourses {
		return nil, fmt.Errorf("courses: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	doc, err := c.session.document(ctx, "/", nil)
	if err != nil {
		return nil, err
	}

	out := record.NewResult[record.Course](spec.String())
	seen := map[string]bool{}
	doc.Find(`a[href^="/courses/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		// Course links are exactly /courses/{id}; deeper paths are offerings.
		parts := strings.Split(strings.Trim(href, "/"), "/")
		if len(parts) != 2 {
			return
		}
		id := parts[1]
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		name := utils.CollapseSpaces(a.Text())
		if name == "" {
			name = id
		}
		out.Add(record.Course{
			ID:   id,
			Name: name,
			Link: record.AbsoluteURL(c.session.BaseURL(), href),
		})
	})

	if out.Len() == 0 {
		return nil, &scrape.ParseError{Reason: scrape.ReasonNoMatchingStructure, View: "courses"}
	}
	return out, nil
}

// ResolveCourseID maps a course name (or fragment of one) to its id. An exact
// id match wins; otherwise the first course whose name contains the fragment,
// case-insensitively.
func (c *Client) ResolveCourseID(ctx context.Context, nameOrID string) (string, error) {
	spec, err := NewSpec(ViewCourses, Options{})
	if err != nil {
		return "", err
	}
	courses, err := c.Courses(ctx, spec)
	if err != nil {
		return "", err
	}
	needle := strings.ToLower(nameOrID)
	for _, course := range courses.All() {
		if course.ID == nameOrID {
			return course.ID, nil
		}
	}
	for _, course := range courses.All() {
		if strings.Contains(strings.ToLower(course.Name), needle) {
			return course.ID, nil
		}
	}
	return "", fmt.Errorf("courses: no course matches %q", nameOrID)
}

// Offerings scrapes the offerings (semester instances) of one course.
func (c *Client) Offerings(ctx context.Context, spec Spec) (*record.Result[record.Offering], error) {
	if spec.View() != ViewOfferings {
		return nil, fmt.Errorf("offerings: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	courseID := spec.Options().CourseID
	out := record.NewResult[record.Offering](spec.String())
	err := collectOnePage(ctx, c.session, "/courses/"+url.PathEscape(courseID), nil, "offerings",
		[]string{"table#course_offerings", "section.strip table", "table.table2", "table"}, out,
		func(fs scrape.FieldSet) (record.Offering, error) {
			return record.NormalizeOffering(fs, c.session.BaseURL(), courseID)
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// courseForOffering finds which course an offering belongs to by walking the
// visible courses and their offerings. Courses whose offering page cannot be
// read are skipped, not fatal.
func (c *Client) courseForOffering(ctx context.Context, offeringID string) (string, error) {
	coursesSpec, err := NewSpec(ViewCourses, Options{})
	if err != nil {
		return "", err
	}
	courses, err := c.Courses(ctx, coursesSpec)
	if err != nil {
		return "", err
	}
	for _, course := range courses.All() {
		offSpec, err := NewSpec(ViewOfferings, Options{CourseID: course.ID})
		if err != nil {
			return "", err
		}
		offerings, err := c.Offerings(ctx, offSpec)
		if err != nil {
			utils.Log.Debugf("skipping course %s while resolving offering: %v", course.ID, err)
			continue
		}
		for _, o := range offerings.All() {
			if utils.LastPath(o.Link) == offeringID || o.Name == offeringID {
				return course.ID, nil
			}
		}
	}
	return "", fmt.Errorf("courses: no course carries offering %q", offeringID)
}

// Assignments scrapes one course offering's assignment list. The page renders
// assignments as list groups under an "Assignments" heading: a plain item
// starts an assignment (name, status, due date), the linked items under it
// are its problems.
func (c *Client) Assignments(ctx context.Context, spec Spec) (*record.Result[record.Assignment], error) {
	if spec.View() != ViewAssignments {
		return nil, fmt.Errorf("assignments: spec targets view %q", spec.View())
	}
	if err := c.session.EnsureValid(ctx); err != nil {
		return nil, err
	}

	opts := spec.Options()
	if opts.CourseID == "" {
		courseID, err := c.courseForOffering(ctx, opts.OfferingID)
		if err != nil {
			return nil, err
		}
		opts.CourseID = courseID
	}
	path := "/courses/" + url.PathEscape(opts.CourseID) + "/" + url.PathEscape(opts.OfferingID)
	doc, err := c.session.document(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	section := findAssignmentSection(doc)
	if section == nil {
		return nil, &scrape.ParseError{Reason: scrape.ReasonNoMatchingStructure, View: "assignments"}
	}

	out := record.NewResult[record.Assignment](spec.String())
	var current *record.Assignment
	flush := func() {
		if current == nil {
			return
		}
		if current.ID == "" {
			out.CountDropped()
			utils.Log.Warnf("dropping assignments row: no assignment link")
		} else {
			out.Add(*current)
		}
		current = nil
	}

	section.Find("li").Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a").First()
		href, _ := link.Attr("href")
		switch {
		case strings.Contains(href, "/assignments/"):
			flush()
			lines := splitLines(li.Text())
			a := record.Assignment{
				ID:         utils.LastPath(href),
				Name:       utils.CollapseSpaces(link.Text()),
				CourseID:   opts.CourseID,
				OfferingID: opts.OfferingID,
				Link:       record.AbsoluteURL(c.session.BaseURL(), href),
			}
			if len(lines) > 1 {
				a.Status = lines[1]
			}
			if len(lines) > 2 {
				a.DueDate = lines[2]
			}
			current = &a
		case strings.Contains(href, "/problems/"):
			if current != nil {
				current.ProblemIDs = append(current.ProblemIDs, utils.LastPath(href))
			}
		}
	})
	flush()

	return out, nil
}

// findAssignmentSection locates the list under the "Assignments" heading.
func findAssignmentSection(doc *goquery.Document) *goquery.Selection {
	var section *goquery.Selection
	doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.EqualFold(utils.CollapseSpaces(h.Text()), "assignments") {
			return true
		}
		parent := h.Closest("section, div")
		if parent.Length() > 0 && parent.Find("li").Length() > 0 {
			section = parent
			return false
		}
		return true
	})
	return section
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if collapsed := utils.CollapseSpaces(line); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return out
}
