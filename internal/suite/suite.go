// Package suite loads the YAML description of a validation suite and
// builds runnable test cases from it. Suite files are vetted against an
// embedded CUE schema before use, so malformed suites fail with a schema
// error instead of a confusing run failure later.
package suite

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tagcheck/internal/compare"
	"github.com/roach88/tagcheck/internal/prep"
	"github.com/roach88/tagcheck/internal/runner"
	"github.com/roach88/tagcheck/internal/testcase"
)

//go:embed schema.cue
var schemaCUE string

// DefaultAbsTol is the absolute tolerance applied when neither the suite
// nor the case sets one.
const DefaultAbsTol = 1e-10

// Suite describes a set of validation cases sharing defaults.
type Suite struct {
	// Name identifies the suite in reports and in the run history.
	Name string `yaml:"name"`

	// AbsTol is the default absolute tolerance for all cases.
	AbsTol float64 `yaml:"abstol,omitempty"`

	// Cases lists the cases in execution order.
	Cases []Case `yaml:"cases"`

	// Dir is the directory of the suite file; relative case paths
	// resolve against it. Filled in by Load.
	Dir string `yaml:"-"`
}

// Case describes one validation case.
type Case struct {
	// Name uniquely identifies the case within its suite.
	Name string `yaml:"name"`

	// Workdir is where the simulation runs and writes its output.
	Workdir string `yaml:"workdir"`

	// InputDir is copied into Workdir before the run. Optional.
	InputDir string `yaml:"input_dir,omitempty"`

	// Cmdline is the simulation command; first element is the program.
	Cmdline []string `yaml:"cmdline"`

	// Output is the tagged output file the run produces, relative to
	// Workdir.
	Output string `yaml:"output"`

	// Reference is the tagged reference file, relative to the suite
	// directory.
	Reference string `yaml:"reference"`

	// AbsTol overrides the suite tolerance for this case.
	AbsTol *float64 `yaml:"abstol,omitempty"`
}

// Load reads, vets and decodes the suite file at path.
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}
	if err := vet(path, raw); err != nil {
		return nil, fmt.Errorf("invalid suite file %s: %w", path, err)
	}

	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding suite file %s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	s.Dir = abs
	return &s, nil
}

// vet unifies the decoded YAML with the embedded schema and reports any
// constraint violation.
func vet(path string, raw []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}
	file, err := cueyaml.Extract(path, raw)
	if err != nil {
		return err
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return err
	}
	// Concrete validation rejects missing required fields, not just
	// constraint conflicts.
	return schema.Unify(value).Validate(cue.Concrete(true))
}

// Tolerance returns the effective absolute tolerance of c within s.
func (s *Suite) Tolerance(c Case) float64 {
	if c.AbsTol != nil {
		return *c.AbsTol
	}
	if s.AbsTol > 0 {
		return s.AbsTol
	}
	return DefaultAbsTol
}

// resolve expands p against base unless it is already absolute.
func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Build assembles the runnable composition of one case: a directory
// preparator (or a no-op when the case has no input directory), the
// subprocess runner and the tagged file tester.
func (s *Suite) Build(c Case, log zerolog.Logger) *testcase.Case {
	workdir := resolve(s.Dir, c.Workdir)

	var p testcase.Preparator = nopPreparator{}
	if c.InputDir != "" {
		p = &prep.DirPreparator{
			InputDir: resolve(s.Dir, c.InputDir),
			Workdir:  workdir,
		}
	}
	return &testcase.Case{
		Name:       c.Name,
		Preparator: p,
		Runner: &runner.ExecRunner{
			Workdir: workdir,
			Cmdline: c.Cmdline,
			Log:     log.With().Str("case", c.Name).Logger(),
		},
		Tester: &compare.FileTester{
			ReferenceFile: resolve(s.Dir, c.Reference),
			OutputFile:    resolve(workdir, c.Output),
			AbsTol:        s.Tolerance(c),
		},
	}
}

// Tester returns the file tester of c without the rest of the
// composition, for commands that only re-test existing output.
func (s *Suite) Tester(c Case) *compare.FileTester {
	workdir := resolve(s.Dir, c.Workdir)
	return &compare.FileTester{
		ReferenceFile: resolve(s.Dir, c.Reference),
		OutputFile:    resolve(workdir, c.Output),
		AbsTol:        s.Tolerance(c),
	}
}

type nopPreparator struct{}

func (nopPreparator) Prepare() error { return nil }
func (nopPreparator) Cleanup() error { return nil }
