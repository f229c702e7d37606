// Package patcher rewrites an Android build.gradle so that versionCode and
// versionName are read from the app's JSON version manifest at build time.
//
// The patch has three steps: inject the version block after the projectRoot
// anchor, point versionCode at getVersionCode(), and point versionName at
// getAppVersion(). Every step must either apply or find its target already
// patched. Anything else is an error and nothing is written.
package patcher

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/grovetools/gradlever/pkg/gradle"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAnchor       = `def projectRoot = rootDir\.getAbsoluteFile\(\)\.getParentFile\(\)\.getAbsolutePath\(\)`
	DefaultManifestFile = "app.json"
	DefaultVersionPath  = "expo.version"
)

var (
	ErrAnchorNotFound      = errors.New("anchor line not found")
	ErrVersionCodeNotFound = errors.New("versionCode literal not found")
	ErrVersionNameNotFound = errors.New("versionName literal not found")
	ErrBlockConflict       = errors.New("version functions partially defined")
	ErrNotPatched          = errors.New("build file is not patched")
	ErrInvalidOptions      = errors.New("invalid patch options")
)

var (
	versionCodeLiteral = regexp.MustCompile(`versionCode\s+\d+`)
	versionNameLiteral = regexp.MustCompile(`versionName\s+"[^"]+"`)
	versionCodeCall    = regexp.MustCompile(`versionCode\s+getVersionCode\(\)`)
	versionNameCall    = regexp.MustCompile(`versionName\s+getAppVersion\(\)`)

	appVersionFuncLine  = regexp.MustCompile(regexp.QuoteMeta(appVersionFunc))
	versionCodeFuncLine = regexp.MustCompile(regexp.QuoteMeta(versionCodeFunc))

	versionPathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Step identifies one edit of the patch.
type Step string

const (
	StepInject      Step = "inject"
	StepVersionCode Step = "version-code"
	StepVersionName Step = "version-name"
)

// Status is the outcome of a step.
type Status string

const (
	StatusApplied        Status = "applied"
	StatusAlreadyApplied Status = "already-applied"
	StatusPending        Status = "pending"
	StatusNotFound       Status = "not-found"
	// StatusConflict means the target exists in a form the step cannot
	// safely complete, such as only one of the two version functions.
	StatusConflict Status = "conflict"
)

// StepResult reports what a step did. Line is 1-based, 0 when the step did
// not touch a specific line.
type StepResult struct {
	Step   Step   `json:"step" yaml:"step"`
	Status Status `json:"status" yaml:"status"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Result is the outcome of Apply or PatchFile.
type Result struct {
	Original string
	Content  string
	Steps    []StepResult
	Changed  bool
}

// Options configures a Patcher.
type Options struct {
	// Anchor is a regular expression matching the line after which the
	// version block is inserted.
	Anchor string
	// ManifestFile is the manifest path relative to $projectRoot, as seen by
	// the injected Groovy.
	ManifestFile string
	// VersionPath is the property path of the version string in the manifest.
	VersionPath string

	DryRun bool
	Backup bool
}

// DefaultOptions returns the options matching an Expo project layout.
func DefaultOptions() Options {
	return Options{
		Anchor:       DefaultAnchor,
		ManifestFile: DefaultManifestFile,
		VersionPath:  DefaultVersionPath,
	}
}

type Patcher struct {
	anchor *regexp.Regexp
	block  []string
	writer *Writer
}

// New validates opts and prepares a Patcher.
func New(opts Options) (*Patcher, error) {
	if opts.Anchor == "" {
		opts.Anchor = DefaultAnchor
	}
	if opts.ManifestFile == "" {
		opts.ManifestFile = DefaultManifestFile
	}
	if opts.VersionPath == "" {
		opts.VersionPath = DefaultVersionPath
	}

	anchor, err := regexp.Compile(opts.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: anchor: %v", ErrInvalidOptions, err)
	}
	if strings.ContainsAny(opts.ManifestFile, "\"$\\\n") {
		return nil, fmt.Errorf("%w: manifest file %q cannot be embedded in a Groovy string", ErrInvalidOptions, opts.ManifestFile)
	}
	if !versionPathPattern.MatchString(opts.VersionPath) {
		return nil, fmt.Errorf("%w: version path %q is not a dotted property path", ErrInvalidOptions, opts.VersionPath)
	}

	block, err := renderBlock(opts.ManifestFile, opts.VersionPath)
	if err != nil {
		return nil, err
	}

	return &Patcher{
		anchor: anchor,
		block:  block,
		writer: NewWriter(opts.DryRun, opts.Backup),
	}, nil
}

// Writer returns the writer used by PatchFile.
func (p *Patcher) Writer() *Writer {
	return p.writer
}

// Block returns the injected block as text.
func (p *Patcher) Block() string {
	return strings.Join(p.block, "\n")
}

// Inspect reports the state of each step for content without changing it.
// Steps that Apply would perform are reported as pending.
func (p *Patcher) Inspect(content string) []StepResult {
	d := gradle.Parse(content)

	inject := StepResult{Step: StepInject, Status: StatusNotFound}
	switch inspectBlock(content) {
	case blockPresent:
		inject.Status = StatusAlreadyApplied
		inject.Line = lineOf(d, appVersionFuncLine)
	case blockConflict:
		inject.Status = StatusConflict
		inject.Line = firstFuncLine(d)
	default:
		if i := d.FindLine(p.anchor); i >= 0 {
			inject.Status = StatusPending
			inject.Line = i + 1
		}
	}

	return []StepResult{
		inject,
		inspectAssignment(d, StepVersionCode, versionCodeLiteral, versionCodeCall),
		inspectAssignment(d, StepVersionName, versionNameLiteral, versionNameCall),
	}
}

func inspectAssignment(d *gradle.Descriptor, step Step, literal, call *regexp.Regexp) StepResult {
	if i := d.FindLine(literal); i >= 0 {
		return StepResult{Step: step, Status: StatusPending, Line: i + 1}
	}
	if i := d.FindLine(call); i >= 0 {
		return StepResult{Step: step, Status: StatusAlreadyApplied, Line: i + 1}
	}
	return StepResult{Step: step, Status: StatusNotFound}
}

func firstFuncLine(d *gradle.Descriptor) int {
	app, code := lineOf(d, appVersionFuncLine), lineOf(d, versionCodeFuncLine)
	if app == 0 || (code > 0 && code < app) {
		return code
	}
	return app
}

func lineOf(d *gradle.Descriptor, re *regexp.Regexp) int {
	if i := d.FindLine(re); i >= 0 {
		return i + 1
	}
	return 0
}

// Apply patches content in memory. If any step finds neither its target nor
// an already patched form, or finds a conflicting partial block, Apply returns
// an error joining one sentinel per failed step. The returned Result still carries the step report but no
// content.
func (p *Patcher) Apply(content string) (*Result, error) {
	result := &Result{Original: content}
	d := gradle.Parse(content)

	var errs []error

	inject := StepResult{Step: StepInject}
	switch inspectBlock(content) {
	case blockPresent:
		inject.Status = StatusAlreadyApplied
		inject.Line = lineOf(d, appVersionFuncLine)
	case blockConflict:
		inject.Status = StatusConflict
		inject.Line = firstFuncLine(d)
		errs = append(errs, blockConflictError(content))
	default:
		i := d.FindLine(p.anchor)
		if i < 0 {
			inject.Status = StatusNotFound
			errs = append(errs, fmt.Errorf("%w: no line matches %q", ErrAnchorNotFound, p.anchor.String()))
			break
		}
		lines := make([]string, 0, len(p.block)+2)
		lines = append(lines, "")
		lines = append(lines, p.block...)
		lines = append(lines, "")
		d.InsertAfter(i, lines...)
		inject.Status = StatusApplied
		inject.Line = i + 1
	}
	result.Steps = append(result.Steps, inject)

	code := replaceAssignment(d, StepVersionCode, versionCodeLiteral, versionCodeCall, VersionCodeCall)
	if code.Status == StatusNotFound {
		errs = append(errs, fmt.Errorf("%w: expected a line matching %q", ErrVersionCodeNotFound, versionCodeLiteral.String()))
	}
	result.Steps = append(result.Steps, code)

	name := replaceAssignment(d, StepVersionName, versionNameLiteral, versionNameCall, VersionNameCall)
	if name.Status == StatusNotFound {
		errs = append(errs, fmt.Errorf("%w: expected a line matching %q", ErrVersionNameNotFound, versionNameLiteral.String()))
	}
	result.Steps = append(result.Steps, name)

	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}

	result.Content = d.String()
	result.Changed = result.Content != content
	return result, nil
}

func replaceAssignment(d *gradle.Descriptor, step Step, literal, call *regexp.Regexp, repl string) StepResult {
	if i, ok := d.ReplaceFirst(literal, repl); ok {
		return StepResult{Step: step, Status: StatusApplied, Line: i + 1}
	}
	if i := d.FindLine(call); i >= 0 {
		return StepResult{Step: step, Status: StatusAlreadyApplied, Line: i + 1}
	}
	return StepResult{Step: step, Status: StatusNotFound}
}

// Verify re-scans patched content and fails unless the version block and
// both rewritten assignments are present, with each function defined once.
func Verify(content string) error {
	if inspectBlock(content) == blockConflict {
		return fmt.Errorf("%w: %w", ErrNotPatched, blockConflictError(content))
	}

	var missing []string
	if !strings.Contains(content, appVersionFunc) {
		missing = append(missing, appVersionFunc)
	}
	if !strings.Contains(content, versionCodeFunc) {
		missing = append(missing, versionCodeFunc)
	}
	if !versionCodeCall.MatchString(content) {
		missing = append(missing, VersionCodeCall)
	}
	if !versionNameCall.MatchString(content) {
		missing = append(missing, VersionNameCall)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotPatched, strings.Join(missing, ", "))
	}
	return nil
}

// PatchFile reads path, applies the patch and writes the result back. The
// file is only rewritten when the content changed.
func (p *Patcher) PatchFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build file: %w", err)
	}

	result, err := p.Apply(string(data))
	if err != nil {
		return result, fmt.Errorf("patching %s: %w", path, err)
	}

	if err := Verify(result.Content); err != nil {
		return result, err
	}

	if !result.Changed {
		p.writer.logger.WithField("path", path).Debug("Build file already patched")
		return result, nil
	}

	if err := p.writer.WriteFile(path, []byte(result.Content)); err != nil {
		return result, err
	}

	for _, s := range result.Steps {
		p.writer.logger.WithFields(logrus.Fields{
			"path":   path,
			"step":   s.Step,
			"status": s.Status,
			"line":   s.Line,
		}).Debug("Patch step")
	}

	return result, nil
}
