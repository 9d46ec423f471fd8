package resume

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (555) 123-4567
https://www.linkedin.com/in/janedoe | github.com/janedoe

Summary
Backend engineer working with Golang, Kubernetes and PostgreSQL.

Experience
Senior Engineer, Acme Corp    Jan 2018 - Present
Engineer, Initech    Mar 2015 - Feb 2019

Education
B.Sc in Computer Science
State University of Testing    2011 - 2015

Skills
Python, Docker, Spring Boot, node.js
`

var fixedNow = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeDOCX(t *testing.T, name, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = io.WriteString(w, `<?xml version="1.0"?><Types/>`)
	require.NoError(t, err)

	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = io.WriteString(w, documentXML)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func testExtractor() *Extractor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewExtractor(WithClock(func() time.Time { return fixedNow }), WithLogger(logger))
}

func TestReadDocument(t *testing.T) {
	t.Run("plain text is normalized", func(t *testing.T) {
		path := writeFile(t, "cv.txt", "  Jane\t\tDoe  \r\n\r\n\r\n\r\nEngineer\x00\n")
		doc, err := ReadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\n\nEngineer", doc.Text)
		assert.Zero(t, doc.Pages)
	})

	t.Run("markdown and no extension read as text", func(t *testing.T) {
		for _, name := range []string{"cv.md", "cv", "CV.TXT"} {
			doc, err := ReadDocument(writeFile(t, name, "# Jane Doe"))
			require.NoError(t, err, name)
			assert.Equal(t, "# Jane Doe", doc.Text, name)
		}
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := ReadDocument(writeFile(t, "cv.txt", "\xff\xfe\xfd"))
		assert.ErrorIs(t, err, ErrInvalidText)
	})

	t.Run("html drops scripts and breaks blocks", func(t *testing.T) {
		path := writeFile(t, "cv.html", `<html><head><title>CV</title><style>p{}</style></head>
<body><h1>Jane Doe</h1><script>var x = "Python";</script><p>Go<br>Rust</p><ul><li>Docker</li><li>Redis</li></ul></body></html>`)
		doc, err := ReadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\n\nGo\nRust\n\nDocker\n\nRedis", doc.Text)
		assert.NotContains(t, doc.Text, "Python")
		assert.NotContains(t, doc.Text, "CV")
	})

	t.Run("docx runs and paragraphs", func(t *testing.T) {
		path := writeDOCX(t, "cv.docx", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t><w:br/><w:t>Kafka</w:t></w:r></w:p>
</w:body>
</w:document>`)
		doc, err := ReadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\nSkills: Go\nKafka", doc.Text)
	})

	t.Run("docx without body", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.docx")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, zip.NewWriter(f).Close())
		require.NoError(t, f.Close())

		_, err = ReadDocument(path)
		assert.ErrorContains(t, err, "word/document.xml not found")
	})

	t.Run("docx that is not a zip", func(t *testing.T) {
		_, err := ReadDocument(writeFile(t, "cv.docx", "plain text"))
		assert.ErrorContains(t, err, "open docx")
	})

	t.Run("corrupt pdf is an error", func(t *testing.T) {
		path := writeFile(t, "cv.pdf", "%PDF-1.4\nthis is not really a pdf")
		assert.NotPanics(t, func() {
			_, err := ReadDocument(path)
			assert.Error(t, err)
		})
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := ReadDocument(writeFile(t, "cv.xlsx", "data"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.EqualError(t, err, "unsupported file format: .xlsx")
	})
}

func TestExtractSampleResume(t *testing.T) {
	data, err := testExtractor().Extract(writeFile(t, "jane.txt", sampleResume))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", data[FieldName])
	assert.Equal(t, "jane.doe@example.com", data[FieldEmail])
	assert.Equal(t, "+1 (555) 123-4567", data[FieldMobileNumber])
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL", "Python", "Docker", "Spring Boot", "Node.js"}, data[FieldSkills])
	assert.Equal(t, []string{"B.Sc in Computer Science"}, data[FieldDegree])
	assert.Equal(t, []string{"State University of Testing 2011 - 2015"}, data[FieldCollegeName])
	assert.Equal(t, []string{"https://www.linkedin.com/in/janedoe", "github.com/janedoe"}, data[FieldLinks])
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", data[FieldLinkedIn])
	assert.Equal(t, "github.com/janedoe", data[FieldGitHub])
	// Mar 2015 through Jan 2024, education years excluded
	assert.Equal(t, 8.8, data[FieldTotalExperience])
	assert.Equal(t, []string{"Senior Engineer", "Engineer"}, data[FieldDesignation])
	assert.Equal(t, []string{"Acme Corp", "Initech"}, data[FieldCompanyNames])
	assert.Equal(t, []string{
		"Senior Engineer, Acme Corp Jan 2018 - Present",
		"Engineer, Initech Mar 2015 - Feb 2019",
	}, data[FieldExperience])
	assert.Nil(t, data[FieldNoOfPages])
	assert.Len(t, data, 14)
}

func TestExtractSparseResume(t *testing.T) {
	data, err := testExtractor().Extract(writeFile(t, "sparse.txt", "objective\nlooking for work"))
	require.NoError(t, err)

	assert.Nil(t, data[FieldName])
	assert.Nil(t, data[FieldEmail])
	assert.Nil(t, data[FieldMobileNumber])
	assert.Nil(t, data[FieldLinkedIn])
	assert.Nil(t, data[FieldGitHub])
	assert.Equal(t, []string{}, data[FieldSkills])
	assert.Equal(t, []string{}, data[FieldDegree])
	assert.Equal(t, []string{}, data[FieldCollegeName])
	assert.Equal(t, []string{}, data[FieldLinks])
	assert.Equal(t, []string{}, data[FieldDesignation])
	assert.Equal(t, []string{}, data[FieldCompanyNames])
	assert.Equal(t, []string{}, data[FieldExperience])
	assert.Equal(t, 0.0, data[FieldTotalExperience])
}

func TestExtractRoles(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		designations []string
		companies    []string
		lines        []string
	}{
		{
			name:         "section with at and pipe separators",
			text:         "Work Experience\nData Analyst at Globex Inc 2019 - 2021\nFreelance | Web Developer | 2021 - Present\nEducation\nBSc Physics, Springfield College",
			designations: []string{"Data Analyst", "Web Developer"},
			companies:    []string{"Globex Inc", "Freelance"},
			lines:        []string{"Data Analyst at Globex Inc 2019 - 2021", "Freelance | Web Developer | 2021 - Present"},
		},
		{
			name:         "dated lines without a section",
			text:         "Product Manager - Umbrella Corp Jan 2020 - Dec 2022\nState College 2012 - 2016",
			designations: []string{"Product Manager"},
			companies:    []string{"Umbrella Corp"},
			lines:        []string{"Product Manager - Umbrella Corp Jan 2020 - Dec 2022"},
		},
		{
			name:         "company without a title",
			text:         "Employment History\nHooli Technologies 2015 - 2018",
			designations: []string{},
			companies:    []string{"Hooli Technologies"},
			lines:        []string{"Hooli Technologies 2015 - 2018"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractRoles(nonEmptyLines(tt.text))
			assert.Equal(t, tt.designations, got.designations)
			assert.Equal(t, tt.companies, got.companies)
			assert.Equal(t, tt.lines, got.lines)
		})
	}
}

func TestExtractFailures(t *testing.T) {
	extractor := testExtractor()

	t.Run("blank document", func(t *testing.T) {
		_, err := extractor.Extract(writeFile(t, "blank.txt", " \n\t\n"))
		var extractionErr *ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.ErrorIs(t, err, ErrNoText)
		assert.EqualError(t, err, "no text content found in blank.txt")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := extractor.Extract(filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := extractor.Extract(writeFile(t, "cv.odt", "text"))
		assert.EqualError(t, err, "unsupported file format: .odt")
	})

	t.Run("size limit", func(t *testing.T) {
		limited := NewExtractor(WithMaxFileSize(8), WithLogger(extractor.logger))
		_, err := limited.Extract(writeFile(t, "cv.txt", "Jane Doe, engineer"))
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.EqualError(t, err, "file exceeds maximum size of 8 bytes")
	})

	t.Run("failures are stable", func(t *testing.T) {
		path := writeFile(t, "cv.odt", "text")
		_, first := extractor.Extract(path)
		_, second := extractor.Extract(path)
		assert.Equal(t, first.Error(), second.Error())
	})
}

func TestExtractDOCXAndHTML(t *testing.T) {
	extractor := testExtractor()

	docx := writeDOCX(t, "cv.docx", `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>John Smith</w:t></w:r></w:p>
<w:p><w:r><w:t>john@smith.dev</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills: Terraform, AWS</w:t></w:r></w:p>
</w:body></w:document>`)
	data, err := extractor.Extract(docx)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", data[FieldName])
	assert.Equal(t, "john@smith.dev", data[FieldEmail])
	assert.Equal(t, []string{"Terraform", "AWS"}, data[FieldSkills])

	html := writeFile(t, "cv.html", `<body><h2>Resume</h2><p>Ana Lima</p><p>Master of Science, Institute of Technology</p></body>`)
	data, err = extractor.Extract(html)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", data[FieldName])
	assert.Equal(t, []string{"Master of Science, Institute of Technology"}, data[FieldDegree])
	assert.Equal(t, []string{"Master of Science, Institute of Technology"}, data[FieldCollegeName])
}

func TestTotalExperience(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"no ranges", "Engineer at Acme", 0},
		{"year only", "Acme 2015 – 2019", 4},
		{"month names", "Acme Jan 2018 - Jul 2020", 2.6},
		{"numeric months", "Acme 03/2019 to 09/2019", 0.6},
		{"present uses clock", "Acme Jan 2023 - Present", 1},
		{"overlaps merge", "Acme 2010 - 2014\nInitech 2012 - 2016", 6},
		{"disjoint ranges add", "Acme 2010 - 2011\nInitech 2013 - 2014", 2},
		{"future end is clamped", "Acme Jan 2023 - Dec 2030", 1},
		{"reversed range ignored", "Acme 2019 - 2015", 0},
		{"education line ignored", "University of Somewhere 2010 - 2014", 0},
		{"full month names", "Acme September 2020 – March 2021", 0.6},
		{"end month inclusive", "Acme Jan 2020 – Dec 2020", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, totalExperience(nonEmptyLines(tt.text), fixedNow))
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected any
	}{
		{"first line", "Jane Doe\nEngineer", "Jane Doe"},
		{"labelled", "Curriculum Vitae\nName: Li Wei\n", "Li Wei"},
		{"skips headings", "RESUME\nCurriculum Vitae\nMaria Garcia Lopez", "Maria Garcia Lopez"},
		{"skips contact lines", "jane@doe.com\n+1 555 123 4567\nJane Doe", "Jane Doe"},
		{"single word is not a name", "Jane\nengineer", nil},
		{"lowercase is not a name", "jane doe", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractName(tt.text, nonEmptyLines(tt.text)))
		})
	}
}

func TestExtractMobileNumber(t *testing.T) {
	assert.Equal(t, "+44 20 7946 0958", extractMobileNumber("Phone: +44 20 7946 0958"))
	assert.Equal(t, "555-123-4567", extractMobileNumber("2015-2019\ncall 555-123-4567"))
	assert.Nil(t, extractMobileNumber("Acme 2015 - 2019"))
	assert.Nil(t, extractMobileNumber("call 12345"))
}

func TestExtractLinks(t *testing.T) {
	links := extractLinks("see https://janedoe.dev and www.example.org and github.com/jd plus ASP.NET plus jd@mail.com plus https://janedoe.dev")
	assert.Equal(t, []string{"https://janedoe.dev", "www.example.org", "github.com/jd"}, links)

	assert.Equal(t, "github.com/jd", firstLinkOnHost(links, "github.com"))
	assert.Nil(t, firstLinkOnHost(links, "linkedin.com"))
	assert.Nil(t, firstLinkOnHost([]string{"https://notgithub.com/x"}, "github.com"))
}

func TestVocabulary(t *testing.T) {
	v := NewVocabulary("Elm", " ", "Spring Boot")

	assert.Equal(t,
		[]string{"Go", "Spring Boot", "Spring", "C++", "C#", "Elm", "Kubernetes", "CI/CD"},
		v.Match("golang, Spring Boot and spring; C++ / C#; elm. k8s, Kubernetes. CI/CD"),
	)
	assert.Empty(t, v.Match("nothing relevant here"))
	assert.Empty(t, v.Match("js, ts and ml"))
	assert.Equal(t,
		[]string{"Python", "Django", "HTML", "CSS", "React", "CI/CD"},
		v.Match("Skills: Python/Django, HTML/CSS, React/Redux, CI/CD"),
	)

	before := v.Len()
	v.Add("Go Kit")
	assert.Equal(t, before+1, v.Len())
	assert.Equal(t, []string{"Go Kit", "Go"}, v.Match("go kit golang"))
}

func TestLoadSkillsFile(t *testing.T) {
	path := writeFile(t, "skills.txt", "# team skills\nElm, Zig\n\n  OCaml  \nHaskell,\n")
	skills, err := LoadSkillsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Elm", "Zig", "OCaml", "Haskell"}, skills)

	_, err = LoadSkillsFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

type label struct{ text string }

func TestOutcomeMarshalJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var nilSkills []string
		var nilPtr *label
		out, err := json.Marshal(Success(map[string]any{
			"name":    "Jane",
			"pages":   2,
			"skills":  nilSkills,
			"nested":  map[string]any{"at": time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
			"list":    []int{1, 2},
			"custom":  label{text: "x"},
			"missing": nilPtr,
			"bad":     errors.New("boom"),
		}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{
			"name":"Jane",
			"pages":2,
			"skills":[],
			"nested":{"at":"2020-01-02 00:00:00 +0000 UTC"},
			"list":[1,2],
			"custom":"{x}",
			"missing":null,
			"bad":"boom"
		}}`, string(out))
	})

	t.Run("failure", func(t *testing.T) {
		out, err := json.Marshal(Failure("unsupported file format: .odt"))
		require.NoError(t, err)
		assert.Equal(t, `{"success":false,"error":"unsupported file format: .odt"}`, string(out))
	})

	t.Run("extracted data round trips", func(t *testing.T) {
		data, err := testExtractor().Extract(writeFile(t, "jane.txt", sampleResume))
		require.NoError(t, err)

		out, err := json.Marshal(Success(data))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), `{"success":true,"data":{`))
		assert.Contains(t, string(out), `"no_of_pages":null`)
		assert.Contains(t, string(out), `"total_experience":8.8`)
	})
}
