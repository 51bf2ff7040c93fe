// Package config reads scan jobs: the cell, the program it runs and how to check it.
package config

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// Job is a complete scan job. Job files are YAML; JSON files are read the same way.
type Job struct {
	Cell        CellConfig       `yaml:"cell" json:"cell"`
	Environment *MeshConfig      `yaml:"environment,omitempty" json:"environment,omitempty"`
	Program     []WaypointConfig `yaml:"program" json:"program"`
	Scan        ScanConfig       `yaml:"scan" json:"scan"`
	Logging     LoggingConfig    `yaml:"logging" json:"logging"`

	// dir resolves relative model and mesh files.
	dir string
}

// CellConfig lists the groups of a cell and the meshes attached to them.
type CellConfig struct {
	Groups []GroupConfig `yaml:"groups" json:"groups"`
	Meshes []MeshConfig  `yaml:"meshes" json:"meshes"`
}

// GroupConfig describes one mechanical group. Exactly one of ModelFile and Model is set.
type GroupConfig struct {
	Name      string                      `yaml:"name" json:"name"`
	Base      *spatialmath.PoseConfig     `yaml:"base,omitempty" json:"base,omitempty"`
	ModelFile string                      `yaml:"model_file,omitempty" json:"model_file,omitempty"`
	Model     *referenceframe.ModelConfig `yaml:"model,omitempty" json:"model,omitempty"`
}

// MeshConfig describes a labelled mesh. Exactly one of Box, Triangles and File is set. Frame is a "group:frame"
// name the mesh moves with; an empty frame keeps the mesh static in world. Pose places the mesh in its frame.
type MeshConfig struct {
	Label     string                             `yaml:"label" json:"label"`
	Frame     string                             `yaml:"frame,omitempty" json:"frame,omitempty"`
	Pose      *spatialmath.PoseConfig            `yaml:"pose,omitempty" json:"pose,omitempty"`
	Box       *spatialmath.TranslationConfig     `yaml:"box,omitempty" json:"box,omitempty"`
	Triangles [][3]spatialmath.TranslationConfig `yaml:"triangles,omitempty" json:"triangles,omitempty"`
	File      string                             `yaml:"file,omitempty" json:"file,omitempty"`
}

// WaypointConfig holds one target per group, in group order.
type WaypointConfig struct {
	Targets []TargetConfig `yaml:"targets" json:"targets"`
}

// TargetConfig is either a joint target, given by Joints in model units (radians and mm), or a Cartesian target
// given by Pose.
type TargetConfig struct {
	Joints []float64               `yaml:"joints,omitempty" json:"joints,omitempty"`
	Pose   *spatialmath.PoseConfig `yaml:"pose,omitempty" json:"pose,omitempty"`
	Motion string                  `yaml:"motion,omitempty" json:"motion,omitempty"`
	Config *ConfigFlagsConfig      `yaml:"config,omitempty" json:"config,omitempty"`
	Seed   []float64               `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// ConfigFlagsConfig is the serialised form of cell.ConfigFlags.
type ConfigFlagsConfig struct {
	Shoulder bool `yaml:"shoulder" json:"shoulder"`
	Elbow    bool `yaml:"elbow" json:"elbow"`
	Wrist    bool `yaml:"wrist" json:"wrist"`
}

// ScanConfig selects the mesh sets by label and tunes sampling. Zero steps take the scanner defaults.
type ScanConfig struct {
	SetA              []string  `yaml:"set_a" json:"set_a"`
	SetB              []string  `yaml:"set_b" json:"set_b"`
	LinearStep        float64   `yaml:"linear_step,omitempty" json:"linear_step,omitempty"`
	AngularStepDegs   float64   `yaml:"angular_step_degs,omitempty" json:"angular_step_degs,omitempty"`
	Workers           int       `yaml:"workers,omitempty" json:"workers,omitempty"`
	EarlyExit         *bool     `yaml:"early_exit,omitempty" json:"early_exit,omitempty"`
	InverseKinematics *IKConfig `yaml:"inverse_kinematics,omitempty" json:"inverse_kinematics,omitempty"`
}

// IKConfig overrides the inverse kinematics defaults. Zero values keep the default.
type IKConfig struct {
	PositionTolerance        float64 `yaml:"position_tolerance,omitempty" json:"position_tolerance,omitempty"`
	OrientationToleranceDegs float64 `yaml:"orientation_tolerance_degs,omitempty" json:"orientation_tolerance_degs,omitempty"`
	MaxEvaluations           int     `yaml:"max_evaluations,omitempty" json:"max_evaluations,omitempty"`
	Restarts                 *int    `yaml:"restarts,omitempty" json:"restarts,omitempty"`
}

// LoggingConfig configures the logger of a job run.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Read reads and validates the job file at path. Environment variables in the file are expanded first.
// Relative files the job references are resolved against the job file's directory.
func Read(path string) (*Job, error) {
	data, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read job file")
	}
	job, err := FromReader(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "job file %s", path)
	}
	return job, nil
}

// FromReader decodes and validates a job. dir resolves relative file references.
func FromReader(r io.Reader, dir string) (*Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	job := &Job{dir: dir}
	if err := dec.Decode(job); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("job is empty")
		}
		return nil, errors.Wrap(err, "failed to decode job")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Validate reports every structural problem of the job at once.
func (j *Job) Validate() error {
	var errAll error
	multierr.AppendInto(&errAll, j.Cell.Validate("cell"))
	if j.Environment != nil {
		multierr.AppendInto(&errAll, j.Environment.Validate("environment"))
	}
	for i, wp := range j.Program {
		multierr.AppendInto(&errAll, wp.Validate(fmt.Sprintf("program.%d", i), len(j.Cell.Groups)))
	}

	labels := j.Labels()
	if dup := lo.FindDuplicates(labels); len(dup) > 0 {
		multierr.AppendInto(&errAll, errors.Errorf("mesh labels %v are used more than once", dup))
	}
	multierr.AppendInto(&errAll, j.Scan.Validate("scan", labels))
	if _, err := logging.LevelFromString(j.Logging.Level); err != nil {
		multierr.AppendInto(&errAll, errors.Wrap(err, "logging.level"))
	}
	return errAll
}

// Labels returns the mesh labels of the job in mesh index order, the environment last.
func (j *Job) Labels() []string {
	labels := lo.Map(j.Cell.Meshes, func(m MeshConfig, _ int) string { return m.Label })
	if j.Environment != nil {
		labels = append(labels, j.Environment.Label)
	}
	return labels
}

// Validate ensures all parts of the cell config are valid.
func (cfg *CellConfig) Validate(path string) error {
	var errAll error
	if len(cfg.Groups) == 0 {
		multierr.AppendInto(&errAll, goutils.NewConfigValidationFieldRequiredError(path, "groups"))
	}
	for i := range cfg.Groups {
		multierr.AppendInto(&errAll, cfg.Groups[i].Validate(fmt.Sprintf("%s.groups.%d", path, i)))
	}
	names := lo.Map(cfg.Groups, func(g GroupConfig, _ int) string { return g.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		multierr.AppendInto(&errAll, errors.Errorf("%s: group names %v are used more than once", path, dup))
	}
	for i := range cfg.Meshes {
		multierr.AppendInto(&errAll, cfg.Meshes[i].Validate(fmt.Sprintf("%s.meshes.%d", path, i)))
	}
	return errAll
}

// Validate ensures all parts of the group config are valid.
func (cfg *GroupConfig) Validate(path string) error {
	if cfg.Name == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if (cfg.ModelFile == "") == (cfg.Model == nil) {
		return errors.Errorf("%s: exactly one of model_file and model must be set", path)
	}
	return nil
}

// Validate ensures all parts of the mesh config are valid.
func (cfg *MeshConfig) Validate(path string) error {
	if cfg.Label == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "label")
	}
	sources := lo.Count([]bool{cfg.Box != nil, len(cfg.Triangles) > 0, cfg.File != ""}, true)
	if sources != 1 {
		return errors.Errorf("%s: mesh %q needs exactly one of box, triangles and file", path, cfg.Label)
	}
	return nil
}

// Validate ensures all parts of the waypoint config are valid.
func (cfg *WaypointConfig) Validate(path string, groups int) error {
	if len(cfg.Targets) != groups {
		return errors.Errorf("%s: has %d targets for %d groups", path, len(cfg.Targets), groups)
	}
	var errAll error
	for i := range cfg.Targets {
		multierr.AppendInto(&errAll, cfg.Targets[i].Validate(fmt.Sprintf("%s.targets.%d", path, i)))
	}
	return errAll
}

// Validate ensures all parts of the target config are valid.
func (cfg *TargetConfig) Validate(path string) error {
	if (len(cfg.Joints) == 0) == (cfg.Pose == nil) {
		return errors.Errorf("%s: exactly one of joints and pose must be set", path)
	}
	if cfg.Pose == nil && (cfg.Motion != "" || cfg.Config != nil || len(cfg.Seed) > 0) {
		return errors.Errorf("%s: motion, config and seed only apply to pose targets", path)
	}
	if _, err := parseMotion(cfg.Motion); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

// Validate ensures all parts of the scan config are valid. Set labels must name meshes of the job.
func (cfg *ScanConfig) Validate(path string, labels []string) error {
	var errAll error
	for _, set := range []struct {
		name   string
		labels []string
	}{{"set_a", cfg.SetA}, {"set_b", cfg.SetB}} {
		if len(set.labels) == 0 {
			multierr.AppendInto(&errAll, goutils.NewConfigValidationFieldRequiredError(path, set.name))
		}
		if unknown, _ := lo.Difference(set.labels, labels); len(unknown) > 0 {
			multierr.AppendInto(&errAll, errors.Errorf("%s.%s: unknown mesh labels %v", path, set.name, unknown))
		}
	}
	return errAll
}

// resolve returns file relative to the job's directory unless it is absolute.
func (j *Job) resolve(file string) string {
	if filepath.IsAbs(file) || j.dir == "" {
		return file
	}
	return filepath.Join(j.dir, file)
}
