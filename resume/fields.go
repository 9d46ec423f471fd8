package resume

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"mvdan.cc/xurls/v2"
)

// Data keys of a successful extraction
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldMobileNumber    = "mobile_number"
	FieldSkills          = "skills"
	FieldDegree          = "degree"
	FieldCollegeName     = "college_name"
	FieldDesignation     = "designation"
	FieldCompanyNames    = "company_names"
	FieldExperience      = "experience"
	FieldLinks           = "links"
	FieldLinkedIn        = "linkedin"
	FieldGitHub          = "github"
	FieldTotalExperience = "total_experience"
	FieldNoOfPages       = "no_of_pages"
)

// nameScanLines bounds how far into the header a name is looked for
const nameScanLines = 10

var (
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)
	phoneRe      = regexp.MustCompile(`\+?\(?\d[\d \t().\-]{7,}\d`)
	labeledName  = regexp.MustCompile(`(?im)^name\s*[:：]\s*(.+)$`)
	nameWordRe   = regexp.MustCompile(`^\p{Lu}[\p{L}'.\-]*$`)
	headingWords = regexp.MustCompile(`(?i)\b(resume|curriculum|vitae|cv|education|experience|skills|summary|objective|contact|profile|projects|references|certifications)\b`)

	degreeLongRe  = regexp.MustCompile(`(?i)\b(?:bachelor|master'?s?\s+(?:of|in|degree)|master's|doctor\s+of|doctorate|associate'?s?\s+degree|diploma\s+in)`)
	degreeShortRe = regexp.MustCompile(`\b(?:B\.?Sc|M\.?Sc|B\.?Tech|M\.?Tech|MBA|Ph\.?D|BEng|MEng)\b|\b(?:B\.E|B\.S|M\.S|B\.A|M\.A)\.`)
	collegeRe     = regexp.MustCompile(`(?i)\b(?:university|college|institute|polytechnic|academy|school\s+of)\b`)

	linkRe = xurls.Relaxed()
)

const (
	monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	pointPattern = `(?:\b` + monthPattern + `\s+|(\d{1,2})[/.])?((?:19|20)\d{2})`
)

// dateRangeRe captures start (month name, month number, year) and end
// (month name, month number, year, or an open-ended word)
var dateRangeRe = regexp.MustCompile(`(?i)` + pointPattern + `\s*(?:-|–|—|to|until|till)\s*(?:` + pointPattern + `|(present|current|now|today|date))`)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// extractFields builds the data map from a document's text
func extractFields(doc *Document, skills *Vocabulary, now time.Time) map[string]any {
	text := doc.Text
	lines := nonEmptyLines(text)
	links := extractLinks(text)
	roles := extractRoles(lines)

	data := map[string]any{
		FieldName:            extractName(text, lines),
		FieldEmail:           firstMatch(emailRe, text),
		FieldMobileNumber:    extractMobileNumber(text),
		FieldSkills:          skills.Match(text),
		FieldDegree:          matchingLines(lines, degreeLongRe, degreeShortRe),
		FieldCollegeName:     matchingLines(lines, collegeRe),
		FieldDesignation:     roles.designations,
		FieldCompanyNames:    roles.companies,
		FieldExperience:      roles.lines,
		FieldLinks:           links,
		FieldLinkedIn:        firstLinkOnHost(links, "linkedin.com"),
		FieldGitHub:          firstLinkOnHost(links, "github.com"),
		FieldTotalExperience: totalExperience(lines, now),
		FieldNoOfPages:       nil,
	}
	if doc.Pages > 0 {
		data[FieldNoOfPages] = doc.Pages
	}
	return data
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// firstMatch returns the first match of re in text, or nil
func firstMatch(re *regexp.Regexp, text string) any {
	if match := re.FindString(text); match != "" {
		return match
	}
	return nil
}

// extractName prefers an explicit "Name:" label, then the first header line
// that looks like a personal name
func extractName(text string, lines []string) any {
	if m := labeledName.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	for i, line := range lines {
		if i >= nameScanLines {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}
	return nil
}

func looksLikeName(line string) bool {
	if strings.ContainsAny(line, "@0123456789/:|,") || headingWords.MatchString(line) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, word := range words {
		if !nameWordRe.MatchString(word) {
			return false
		}
	}
	return true
}

// extractMobileNumber returns the first phone-like token with 10 to 15 digits
func extractMobileNumber(text string) any {
	for _, candidate := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 10 && digits <= 15 && !dateRangeRe.MatchString(candidate) {
			return strings.TrimSpace(candidate)
		}
	}
	return nil
}

// matchingLines returns the distinct lines matched by any of res, in order
func matchingLines(lines []string, res ...*regexp.Regexp) []string {
	found := []string{}
	seen := make(map[string]struct{})
	for _, line := range lines {
		for _, re := range res {
			if !re.MatchString(line) {
				continue
			}
			if _, dup := seen[line]; !dup {
				seen[line] = struct{}{}
				found = append(found, line)
			}
			break
		}
	}
	return found
}

// extractLinks returns distinct URLs. Bare domains only count when they carry
// a path or a www prefix, so tokens like ASP.NET are not reported.
func extractLinks(text string) []string {
	links := []string{}
	seen := make(map[string]struct{})
	for _, match := range linkRe.FindAllString(text, -1) {
		if strings.Contains(match, "@") {
			continue
		}
		lower := strings.ToLower(match)
		if !strings.Contains(lower, "://") && !strings.HasPrefix(lower, "www.") && !strings.Contains(lower, "/") {
			continue
		}
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		links = append(links, match)
	}
	return links
}

// firstLinkOnHost returns the first link on domain or its subdomains, or nil
func firstLinkOnHost(links []string, domain string) any {
	for _, link := range links {
		raw := link
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := strings.ToLower(parsed.Hostname())
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return link
		}
	}
	return nil
}

// monthSpan is a half-open range of absolute month numbers
type monthSpan struct {
	start, end int
}

// totalExperience sums the years covered by date ranges, merging overlaps and
// rounding to one decimal. Named end months are inclusive, a bare end year is
// not, and open-ended ranges end at now. Ranges on education
// lines are not work experience and are skipped.
func totalExperience(lines []string, now time.Time) float64 {
	current := now.Year()*12 + int(now.Month()) - 1

	var spans []monthSpan
	for _, line := range lines {
		if isEducationLine(line) {
			continue
		}
		spans = append(spans, lineSpans(line, current)...)
	}

	return math.Round(float64(mergedMonths(spans))/12*10) / 10
}

func isEducationLine(line string) bool {
	return collegeRe.MatchString(line) || degreeLongRe.MatchString(line) || degreeShortRe.MatchString(line)
}

func lineSpans(line string, current int) []monthSpan {
	var spans []monthSpan
	for _, m := range dateRangeRe.FindAllStringSubmatch(line, -1) {
		start, ok := monthOf(m[1], m[2], m[3])
		if !ok {
			continue
		}

		end := current
		if m[7] == "" {
			if end, ok = monthOf(m[4], m[5], m[6]); !ok {
				continue
			}
			// an explicit end month is worked in full
			if m[4] != "" || m[5] != "" {
				end++
			}
		}
		end = min(end, current)
		if end <= start {
			continue
		}
		spans = append(spans, monthSpan{start: start, end: end})
	}
	return spans
}

// monthOf converts a month name or number and a year to an absolute month.
// A missing month means January.
func monthOf(name, number, year string) (int, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}

	month := 1
	switch {
	case name != "":
		month = monthIndex[strings.ToLower(name)[:3]]
	case number != "":
		month, err = strconv.Atoi(number)
		if err != nil || month < 1 || month > 12 {
			return 0, false
		}
	}
	return y*12 + month - 1, true
}

func mergedMonths(spans []monthSpan) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	total := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.start <= cur.end {
			cur.end = max(cur.end, s.end)
			continue
		}
		total += cur.end - cur.start
		cur = s
	}
	return total + cur.end - cur.start
}
