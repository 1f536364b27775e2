package services

import (
	"strings"

	"github.com/P3chys/studyshare-api/internal/models"
)

// ResourceFilter narrows a resource list. Unset fields pass everything.
type ResourceFilter struct {
	Text     string `form:"q"`
	Branch   string `form:"branch"`
	Semester int    `form:"semester"`
	Subject  string `form:"subject"`
}

// IsEmpty reports whether no predicate is active.
func (f ResourceFilter) IsEmpty() bool {
	return f.Text == "" && f.Branch == "" && f.Semester == 0 && f.Subject == ""
}

// Apply returns the resources matching every active predicate, in their
// original relative order. The input slice is not modified.
func (f ResourceFilter) Apply(resources []models.Resource) []models.Resource {
	out := make([]models.Resource, 0, len(resources))
	text := strings.ToLower(f.Text)
	for _, r := range resources {
		if text != "" && !matchesText(r, text) {
			continue
		}
		if f.Branch != "" && r.Branch != f.Branch {
			continue
		}
		if f.Semester != 0 && r.Semester != f.Semester {
			continue
		}
		if f.Subject != "" && r.Subject != f.Subject {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesText expects q already lower-cased.
func matchesText(r models.Resource, q string) bool {
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Subject), q)
}
