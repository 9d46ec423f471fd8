// Package main provides resume-extract, which prints the fields of one
// resume file as a single JSON line.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Nexora-Open-Source/rss-feed-tools/config"
	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/resume"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Messages below are printed verbatim.
var (
	// ErrMissingArgument is reported when no file path is given
	ErrMissingArgument = errors.New("No file path provided")
	// ErrFileNotFound is reported when the path is not an existing regular file
	ErrFileNotFound = errors.New("File not found")
)

// errorLine is printed for usage problems
type errorLine struct {
	Error string `json:"error"`
}

type cliOptions struct {
	skillsFile  string
	maxFileSize int64
	logLevel    string
}

// parserFactory builds the parser once the arguments are known to be usable
type parserFactory func() (resume.Parser, error)

/*
run decides what to print and the exit status, without printing.

  - no arguments: {"error": "No file path provided"}, exit 1
  - path is not a regular file: {"error": "File not found"}, exit 0
  - otherwise a resume.Outcome, exit 0, including when the parser panics
*/
func run(args []string, newParser parserFactory, logger *logrus.Logger) (any, int) {
	if len(args) == 0 {
		return errorLine{Error: ErrMissingArgument.Error()}, 1
	}
	if len(args) > 1 {
		logger.WithField("ignored", args[1:]).Warn("Extra arguments ignored")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		logger.WithField("file", path).Debug("Resume file not found")
		return errorLine{Error: ErrFileNotFound.Error()}, 0
	}

	parser, err := newParser()
	if err != nil {
		return errorLine{Error: err.Error()}, 1
	}

	return extract(parser, path, logger), 0
}

// extract turns parser errors and panics into failure outcomes
func extract(parser resume.Parser, path string, logger *logrus.Logger) (outcome resume.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Resume parser panicked")
			outcome = resume.Failure(fmt.Sprint(r))
		}
	}()

	data, err := parser.Extract(path)
	if err != nil {
		logger.WithError(err).WithField("file", path).Info("Resume extraction failed")
		return resume.Failure(err.Error())
	}
	return resume.Success(data)
}

// writeLine prints payload as one JSON line
func writeLine(w io.Writer, payload any) error {
	line, err := json.Marshal(payload)
	if err != nil {
		line, err = json.Marshal(resume.Failure(fmt.Sprintf("encode result: %v", err)))
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, string(line))
	return err
}

func newExtractorFactory(opts *cliOptions, logger *logrus.Logger) parserFactory {
	return func() (resume.Parser, error) {
		var extra []string
		if opts.skillsFile != "" {
			skills, err := resume.LoadSkillsFile(opts.skillsFile)
			if err != nil {
				return nil, err
			}
			extra = skills
		}

		return resume.NewExtractor(
			resume.WithSkills(resume.NewVocabulary(extra...)),
			resume.WithMaxFileSize(opts.maxFileSize),
			resume.WithLogger(logger),
		), nil
	}
}

// newRootCmd builds the command. Only the result line goes to stdout; help,
// usage and logs go to stderr. The exit status of a completed run is stored
// in exitCode; a returned error means a usage problem.
func newRootCmd(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	resumeConfig := config.NewConfig().ResumeConfig
	opts := &cliOptions{
		skillsFile:  resumeConfig.SkillsFile,
		maxFileSize: resumeConfig.MaxFileSize,
		logLevel:    os.Getenv("LOG_LEVEL"),
	}
	if opts.logLevel == "" {
		opts.logLevel = "warn"
	}

	cmd := &cobra.Command{
		Use:           "resume-extract <file_path>",
		Short:         "Extract structured fields from a resume file",
		Long:          "resume-extract reads a TXT, Markdown, HTML, PDF or DOCX resume and prints its fields as one JSON line on stdout. Logs go to stderr.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := middleware.NewLogger(opts.logLevel, cmd.ErrOrStderr())

			payload, code := run(args, newExtractorFactory(opts, logger), logger)
			*exitCode = code
			if err := writeLine(stdout, payload); err != nil {
				logger.WithError(err).Error("Failed to write result")
				*exitCode = 1
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.skillsFile, "skills-file", opts.skillsFile, "File of extra skills, comma or newline separated (env RESUME_SKILLS_FILE)")
	cmd.Flags().Int64Var(&opts.maxFileSize, "max-file-size", opts.maxFileSize, "Reject files larger than this many bytes, 0 disables (env RESUME_MAX_FILE_SIZE)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level for stderr diagnostics (env LOG_LEVEL)")
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	exitCode := 0
	cmd := newRootCmd(os.Stdout, os.Stderr, &exitCode)
	if err := cmd.Execute(); err != nil {
		if writeErr := writeLine(os.Stdout, errorLine{Error: err.Error()}); writeErr != nil {
			fmt.Fprintln(os.Stderr, writeErr)
		}
		os.Exit(1)
	}
	os.Exit(exitCode)
}
