package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	ferrors "git.home.luguber.info/inful/gitbatch/internal/foundation/errors"
	"git.home.luguber.info/inful/gitbatch/internal/logfields"
	"git.home.luguber.info/inful/gitbatch/internal/pathutil"
)

const (
	fieldSeparator  = ";"
	branchSeparator = ":"
	commentPrefix   = "#"
	fieldCount      = 3
	maxLineBytes    = 1 << 20
)

// Parser turns batch file lines into Specs.
type Parser struct {
	defaultBranch string
	logger        *slog.Logger
}

// NewParser returns a parser that fills empty branches with defaultBranch.
func NewParser(defaultBranch string, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{defaultBranch: defaultBranch, logger: logger}
}

// ParseFile opens path and parses it. A missing file is reported as a config error
// naming the path relative to the working directory.
func (p *Parser) ParseFile(path string) ([]Spec, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the user supplied batch file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError(fmt.Sprintf("The given batch file at '%s' does not exist", pathutil.MustRelative(path))).
				WithCause(err).
				WithContext("file", path).
				Build()
		}
		return nil, ferrors.ConfigError("failed to open batch file").WithCause(err).WithContext("file", path).Build()
	}
	defer func() { _ = f.Close() }()

	return p.Parse(f)
}

// Parse reads every line from r. The first malformed line aborts parsing.
func (p *Parser) Parse(r io.Reader) ([]Spec, error) {
	var specs []Spec

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		spec, err := p.parseLine(num, line)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, ferrors.ConfigError("failed to read batch file").WithCause(err).WithContext("line", num+1).Build()
	}

	return specs, nil
}

func (p *Parser) parseLine(num int, line string) (Spec, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != fieldCount {
		return Spec{}, ferrors.ValidationError(fmt.Sprintf(
			"Wrong number of delimiters in line %d: expected %d fields, got %d", num, fieldCount, len(fields))).
			WithContext("line", num).
			Build()
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	rawURL, branchSpec, dest := fields[0], fields[1], fields[2]

	if rawURL == "" {
		return Spec{}, ferrors.ValidationError(fmt.Sprintf("Repository Url is not set on line %d", num)).
			WithContext("line", num).
			Build()
	}

	branch, subpath := p.splitBranchSpec(num, branchSpec)

	spec := Spec{
		URL:     rawURL,
		Branch:  branch,
		Path:    subpath,
		Name:    NameFromURL(rawURL),
		RelDest: dest,
		Line:    num,
	}

	target := dest
	if target == "" {
		target = "./" + spec.Name
	}
	abs, err := pathutil.Normalize(target)
	if err != nil {
		return Spec{}, ferrors.ValidationError(fmt.Sprintf("Invalid destination on line %d", num)).
			WithCause(err).
			WithContext("line", num).
			Build()
	}
	spec.Dest = abs

	return spec, nil
}

// splitBranchSpec splits "branch[:path]". Only the first extra segment is used as
// the path; any further segments are dropped with a warning.
func (p *Parser) splitBranchSpec(num int, raw string) (string, string) {
	parts := strings.Split(raw, branchSeparator)

	branch := strings.TrimSpace(parts[0])
	if branch == "" {
		branch = p.defaultBranch
	}

	var subpath string
	if len(parts) > 1 {
		subpath = relativeSubpath(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		p.logger.Warn("Ignoring extra branch spec segments",
			logfields.Line(num),
			slog.String("ignored", strings.Join(parts[2:], branchSeparator)))
	}

	return branch, subpath
}
