// Package candidate holds the people records the matcher works on.
package candidate

import "strings"

// Candidate is a decoded store record. It is shared read-only across a matching run
// and must not be modified after decoding.
type Candidate struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
}

type ExperienceEntry struct {
	Role     string `json:"role" mapstructure:"Role"`
	Company  string `json:"company,omitempty" mapstructure:"Company"`
	Duration string `json:"duration,omitempty" mapstructure:"Duration"`
}

// SkillText joins the skills into a single whitespace separated document.
func (c Candidate) SkillText() string {
	return strings.Join(c.Skills, " ")
}

// Roles returns role titles in experience order.
func (c Candidate) Roles() []string {
	roles := make([]string, 0, len(c.Experience))
	for _, e := range c.Experience {
		roles = append(roles, e.Role)
	}
	return roles
}
