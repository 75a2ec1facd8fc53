package challenge

import (
	"fmt"
	"strings"
)

// Validate performs all structural checks on the catalog.
// Returns a combined error describing all problems found, or nil if valid.
func (c Catalog) Validate() error {
	var errs []string

	if len(c.Challenges) == 0 {
		errs = append(errs, "catalog has no challenges")
	}

	for i, ch := range c.Challenges {
		if strings.TrimSpace(ch.Title) == "" {
			errs = append(errs, fmt.Sprintf("challenge %d has an empty title", i+1))
		}
		if ch.ExpectedAnswer == "" {
			errs = append(errs, fmt.Sprintf("challenge %d has an empty answer", i+1))
		} else if strings.TrimSpace(ch.ExpectedAnswer) != ch.ExpectedAnswer {
			// Learner input is trimmed before comparison, so a padded answer
			// could never match.
			errs = append(errs, fmt.Sprintf("challenge %d answer %q has surrounding whitespace", i+1, ch.ExpectedAnswer))
		}
		if ch.Points <= 0 {
			errs = append(errs, fmt.Sprintf("challenge %d has non-positive points %d", i+1, ch.Points))
		}
	}

	if len(c.Thresholds) == 0 {
		errs = append(errs, "catalog has no level thresholds")
	} else {
		if c.Thresholds[0] != 0 {
			errs = append(errs, fmt.Sprintf("first level threshold must be 0, got %d", c.Thresholds[0]))
		}
		for i := 1; i < len(c.Thresholds); i++ {
			if c.Thresholds[i] <= c.Thresholds[i-1] {
				errs = append(errs, fmt.Sprintf("level threshold %d (%d) is not above threshold %d (%d)",
					i, c.Thresholds[i], i-1, c.Thresholds[i-1]))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
