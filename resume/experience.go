package resume

import (
	"regexp"
	"strings"
)

// roleWordLimit bounds how long a line segment may be and still be read as a
// job title or company name
const roleWordLimit = 6

var (
	sectionHeadingRe = regexp.MustCompile(`(?i)^(?:work\s+|professional\s+|employment\s+|career\s+)?(experience|history|employment|education|skills|summary|objective|projects|certifications|references|profile|contact|languages|interests|awards|publications)(?:\s+history)?\s*:?$`)
	experienceHeads  = map[string]bool{"experience": true, "history": true, "employment": true}

	roleSeparatorRe = regexp.MustCompile(`(?i)\s*(?:,|\||\s@\s|\sat\s|\s[-–—]\s)\s*`)
	titleWordRe     = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|analyst|consultant|designer|architect|scientist|intern|director|administrator|specialist|programmer|lead|officer|coordinator|technician|accountant|teacher|researcher|assistant|president|founder|head\s+of)s?\b`)
	companySuffixRe = regexp.MustCompile(`(?i)\b(?:inc|corp|corporation|ltd|llc|gmbh|plc|co|company|technologies|solutions|labs|group|systems)\.?$`)
)

// roles holds what the work history section says about past positions
type roles struct {
	lines        []string
	designations []string
	companies    []string
}

// extractRoles reads the work history section, or every dated non-education
// line when the document has no such section. Each entry line is split on
// separators (comma, pipe, "at", dash) after its date range is removed; the
// segment naming a job title is the designation and the next one the company.
func extractRoles(lines []string) roles {
	found := roles{
		lines:        []string{},
		designations: []string{},
		companies:    []string{},
	}

	entries, ok := experienceSection(lines)
	if !ok {
		for _, line := range lines {
			if dateRangeRe.MatchString(line) && !isEducationLine(line) {
				entries = append(entries, line)
			}
		}
	}

	for _, line := range entries {
		found.lines = appendDistinct(found.lines, line)

		title, company := splitRole(strings.TrimSpace(dateRangeRe.ReplaceAllString(line, "")))
		if title != "" {
			found.designations = appendDistinct(found.designations, title)
		}
		if company != "" {
			found.companies = appendDistinct(found.companies, company)
		}
	}
	return found
}

// experienceSection returns the lines between a work history heading and the
// next heading
func experienceSection(lines []string) ([]string, bool) {
	var section []string
	inside, seen := false, false
	for _, line := range lines {
		if m := sectionHeadingRe.FindStringSubmatch(line); m != nil {
			inside = experienceHeads[strings.ToLower(m[1])]
			seen = seen || inside
			continue
		}
		if inside {
			section = append(section, line)
		}
	}
	return section, seen
}

func splitRole(entry string) (title, company string) {
	var parts []string
	for _, part := range roleSeparatorRe.Split(entry, -1) {
		part = strings.Trim(part, " .;:-–—")
		if part != "" && len(strings.Fields(part)) <= roleWordLimit {
			parts = append(parts, part)
		}
	}

	for i, part := range parts {
		if !titleWordRe.MatchString(part) {
			continue
		}
		title = part
		others := append(append([]string{}, parts[i+1:]...), parts[:i]...)
		for _, other := range others {
			if !titleWordRe.MatchString(other) {
				company = other
				break
			}
		}
		return title, company
	}

	for _, part := range parts {
		if companySuffixRe.MatchString(part) {
			return "", part
		}
	}
	return "", ""
}

func appendDistinct(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
