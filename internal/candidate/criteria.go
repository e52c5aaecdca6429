package candidate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Criteria is a single staffing request.
type Criteria struct {
	RequiredSkills string `mapstructure:"required-skills" json:"required_skills" validate:"max=4096"`
	Field          string `mapstructure:"field" json:"field" validate:"max=256"`
	PeopleCount    int    `mapstructure:"people-count" json:"people_count" validate:"gte=1"`
	Duration       string `mapstructure:"duration" json:"duration,omitempty" validate:"max=256"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Criteria) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: criteria are required", ErrInvalidCriteria)
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}

	return nil
}

// Normalized returns a copy with surrounding whitespace removed.
func (c Criteria) Normalized() Criteria {
	c.RequiredSkills = strings.TrimSpace(c.RequiredSkills)
	c.Field = strings.TrimSpace(c.Field)
	c.Duration = strings.TrimSpace(c.Duration)
	return c
}
