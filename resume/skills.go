package resume

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// defaultSkills is the built-in vocabulary
var defaultSkills = []string{
	// languages
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "PHP",
	"Swift", "Kotlin", "Scala", "Rust", "Perl", "MATLAB", "Haskell", "Elixir",
	"Objective-C", "Dart", "Lua", "Bash", "Shell", "PowerShell", "SQL",
	"HTML", "CSS", "Sass",
	// frameworks and libraries
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask",
	"FastAPI", "Spring", "Spring Boot", "Rails", "Laravel", "jQuery",
	"Next.js", "GraphQL", "gRPC", "REST", "Pandas", "NumPy", "SciPy",
	"scikit-learn", "TensorFlow", "PyTorch", "Keras", "Spark", "Hadoop",
	"Kafka", "RabbitMQ", "Airflow",
	// data stores
	"MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch", "Cassandra",
	"SQLite", "Oracle", "DynamoDB", "Snowflake", "BigQuery",
	// infrastructure
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Ansible",
	"Jenkins", "Git", "GitHub Actions", "CI/CD", "Linux", "Nginx", "Prometheus",
	"Grafana",
	// practice areas
	"Machine Learning", "Deep Learning", "Data Analysis", "Data Science",
	"Natural Language Processing", "Computer Vision", "Statistics",
	"Microservices", "Agile", "Scrum", "Excel", "Tableau", "Power BI",
	"Figma", "Project Management", "Communication", "Leadership",
}

// skillAliases maps common variants to canonical skill names
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"k8s":        "Kubernetes",
	"nodejs":     "Node.js",
	"reactjs":    "React",
	"react.js":   "React",
	"vuejs":      "Vue",
	"vue.js":     "Vue",
	"postgres":   "PostgreSQL",
	"sklearn":    "scikit-learn",
	"nlp":        "Natural Language Processing",
	"gcloud":     "GCP",

	"amazon web services": "AWS",
}

// skillTokenRe splits text into lowercase-comparable tokens. Dots, plus and
// hash signs stay inside a token so Node.js, C++ and C# survive.
var skillTokenRe = regexp.MustCompile(`[\p{L}\p{N}+#]+(?:[./][\p{L}\p{N}+#]+)*`)

func skillTokens(text string) []string {
	return skillTokenRe.FindAllString(strings.ToLower(text), -1)
}

// Vocabulary matches known skills in text
type Vocabulary struct {
	terms    map[string]string
	maxWords int
}

// NewVocabulary builds a vocabulary from the built-in skills plus extra
func NewVocabulary(extra ...string) *Vocabulary {
	v := &Vocabulary{terms: make(map[string]string)}
	for _, skill := range defaultSkills {
		v.Add(skill)
	}
	for alias, canonical := range skillAliases {
		v.addTerm(alias, canonical)
	}
	for _, skill := range extra {
		v.Add(skill)
	}
	return v
}

// Add registers skill under its own name
func (v *Vocabulary) Add(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	v.addTerm(skill, skill)
}

func (v *Vocabulary) addTerm(term, canonical string) {
	tokens := skillTokens(term)
	if len(tokens) == 0 {
		return
	}
	key := strings.Join(tokens, " ")
	if _, exists := v.terms[key]; exists {
		return
	}
	v.terms[key] = canonical
	if len(tokens) > v.maxWords {
		v.maxWords = len(tokens)
	}
}

// Len returns the number of matchable terms, aliases included
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Match returns the skills found in text in first-seen order. Longer terms
// win over their prefixes, so "Spring Boot" is not also reported as "Spring".
func (v *Vocabulary) Match(text string) []string {
	tokens := v.splitUnknownSlashes(skillTokens(text))
	found := []string{}
	seen := make(map[string]struct{})

	for i := 0; i < len(tokens); {
		matched := 0
		for n := min(v.maxWords, len(tokens)-i); n >= 1; n-- {
			canonical, ok := v.terms[strings.Join(tokens[i:i+n], " ")]
			if !ok {
				continue
			}
			if _, dup := seen[canonical]; !dup {
				seen[canonical] = struct{}{}
				found = append(found, canonical)
			}
			matched = n
			break
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}

	return found
}

// splitUnknownSlashes breaks slash-joined tokens such as "python/django" into
// their parts unless the whole token is a term, like "ci/cd".
func (v *Vocabulary) splitUnknownSlashes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, known := v.terms[token]; known || !strings.Contains(token, "/") {
			out = append(out, token)
			continue
		}
		for _, part := range strings.Split(token, "/") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// LoadSkillsFile reads extra skills separated by commas or newlines.
// Lines starting with # are comments.
func LoadSkillsFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skills file: %w", err)
	}

	var skills []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, skill := range strings.Split(line, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills = append(skills, skill)
			}
		}
	}
	return skills, nil
}
