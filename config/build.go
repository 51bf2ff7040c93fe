package config

import (
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/cellsafe/clashscan/cell"
	"github.com/cellsafe/clashscan/kinematics"
	"github.com/cellsafe/clashscan/logging"
	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/scan"
	"github.com/cellsafe/clashscan/spatialmath"
	"github.com/cellsafe/clashscan/utils"
)

// Built is a job turned into the objects a scan runs on.
type Built struct {
	Cell      *cell.Cell
	Program   cell.Program
	Poser     *cell.LinkMeshPoser
	Options   scan.Options
	IKOptions kinematics.IKOptions
	Level     logging.Level
	// Labels are the mesh labels in mesh index order, the environment last.
	Labels []string
}

// Build parses models, poses and meshes and resolves labels and frame names to indices.
func (j *Job) Build() (*Built, error) {
	c, err := j.buildCell()
	if err != nil {
		return nil, err
	}
	frameIndex := func(frame string) (int, error) {
		if frame == "" {
			return cell.StaticFrame, nil
		}
		return c.FrameIndex(frame)
	}

	attached := make([]cell.AttachedMesh, 0, len(j.Cell.Meshes))
	for i := range j.Cell.Meshes {
		cfg := &j.Cell.Meshes[i]
		m, err := j.buildMesh(cfg)
		if err != nil {
			return nil, err
		}
		idx, err := frameIndex(cfg.Frame)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q", cfg.Label)
		}
		attached = append(attached, cell.AttachedMesh{Frame: idx, Mesh: m})
	}
	poser, err := cell.NewLinkMeshPoser(attached...)
	if err != nil {
		return nil, err
	}

	program := make(cell.Program, 0, len(j.Program))
	for i, wp := range j.Program {
		targets := make([]cell.GroupTarget, 0, len(wp.Targets))
		for g := range wp.Targets {
			target, err := wp.Targets[g].build()
			if err != nil {
				return nil, errors.Wrapf(err, "program waypoint %d group %d", i, g)
			}
			targets = append(targets, target)
		}
		program = append(program, cell.NewWaypoint(targets...))
	}

	opts, err := j.scanOptions(frameIndex)
	if err != nil {
		return nil, err
	}
	ikOpts := j.Scan.InverseKinematics.build()
	level, err := logging.LevelFromString(j.Logging.Level)
	if err != nil {
		return nil, err
	}
	return &Built{
		Cell:      c,
		Program:   program,
		Poser:     poser,
		Options:   opts,
		IKOptions: ikOpts,
		Level:     level,
		Labels:    j.Labels(),
	}, nil
}

func (j *Job) buildCell() (*cell.Cell, error) {
	groups := make([]cell.Group, 0, len(j.Cell.Groups))
	for _, g := range j.Cell.Groups {
		var model *referenceframe.SimpleModel
		var err error
		if g.ModelFile != "" {
			model, err = referenceframe.ParseModelJSONFile(j.resolve(g.ModelFile), g.Name)
		} else {
			model, err = g.Model.ParseConfig(g.Name)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "group %q model", g.Name)
		}
		base, err := g.Base.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "group %q base", g.Name)
		}
		groups = append(groups, cell.Group{Name: g.Name, Model: model, Base: base})
	}
	return cell.NewCell(groups...)
}

// triangleFile is the layout of a referenced mesh file: a list of triangles, each three [x, y, z] points.
type triangleFile struct {
	Triangles [][3][3]float64 `yaml:"triangles"`
}

func (j *Job) buildMesh(cfg *MeshConfig) (*spatialmath.Mesh, error) {
	pose, err := cfg.Pose.ParseConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q pose", cfg.Label)
	}
	switch {
	case cfg.Box != nil:
		return spatialmath.NewBoxMesh(pose, cfg.Box.ParseConfig(), cfg.Label)
	case len(cfg.Triangles) > 0:
		tris := lo.Map(cfg.Triangles, func(t [3]spatialmath.TranslationConfig, _ int) *spatialmath.Triangle {
			return spatialmath.NewTriangle(t[0].ParseConfig(), t[1].ParseConfig(), t[2].ParseConfig())
		})
		return spatialmath.NewMesh(pose, tris, cfg.Label), nil
	default:
		//nolint:gosec
		data, err := os.ReadFile(j.resolve(cfg.File))
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %q", cfg.Label)
		}
		var tf triangleFile
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, errors.Wrapf(err, "mesh %q file %s", cfg.Label, cfg.File)
		}
		if len(tf.Triangles) == 0 {
			return nil, errors.Errorf("mesh %q file %s has no triangles", cfg.Label, cfg.File)
		}
		tris := lo.Map(tf.Triangles, func(t [3][3]float64, _ int) *spatialmath.Triangle {
			return spatialmath.NewTriangle(toVector(t[0]), toVector(t[1]), toVector(t[2]))
		})
		return spatialmath.NewMesh(pose, tris, cfg.Label), nil
	}
}

func (j *Job) scanOptions(frameIndex func(string) (int, error)) (scan.Options, error) {
	opts := scan.DefaultOptions()
	labels := j.Labels()
	indexOf := func(label string) int { return lo.IndexOf(labels, label) }
	opts.SetA = lo.Map(j.Scan.SetA, func(l string, _ int) int { return indexOf(l) })
	opts.SetB = lo.Map(j.Scan.SetB, func(l string, _ int) int { return indexOf(l) })

	if j.Environment != nil {
		env, err := j.buildMesh(j.Environment)
		if err != nil {
			return scan.Options{}, err
		}
		opts.Environment = env
		if j.Environment.Frame != "" {
			idx, err := frameIndex(j.Environment.Frame)
			if err != nil {
				return scan.Options{}, errors.Wrap(err, "environment")
			}
			opts.AttachEnvironment = true
			opts.EnvironmentFrame = idx
		}
	}
	if j.Scan.LinearStep != 0 {
		opts.LinearStep = j.Scan.LinearStep
	}
	if j.Scan.AngularStepDegs != 0 {
		opts.AngularStep = utils.DegToRad(j.Scan.AngularStepDegs)
	}
	opts.Workers = j.Scan.Workers
	if j.Scan.EarlyExit != nil {
		opts.EarlyExit = *j.Scan.EarlyExit
	}
	return opts, nil
}

func (cfg *IKConfig) build() kinematics.IKOptions {
	opts := kinematics.DefaultIKOptions()
	if cfg == nil {
		return opts
	}
	if cfg.PositionTolerance > 0 {
		opts.PositionTolerance = cfg.PositionTolerance
	}
	if cfg.OrientationToleranceDegs > 0 {
		opts.OrientationTolerance = utils.DegToRad(cfg.OrientationToleranceDegs)
	}
	if cfg.MaxEvaluations > 0 {
		opts.MaxEvaluations = cfg.MaxEvaluations
	}
	if cfg.Restarts != nil {
		opts.Restarts = *cfg.Restarts
	}
	return opts
}

func (cfg *TargetConfig) build() (cell.GroupTarget, error) {
	if cfg.Pose == nil {
		return &cell.JointTarget{Joints: referenceframe.FloatsToInputs(cfg.Joints)}, nil
	}
	pose, err := cfg.Pose.ParseConfig()
	if err != nil {
		return nil, err
	}
	motion, err := parseMotion(cfg.Motion)
	if err != nil {
		return nil, err
	}
	target := &cell.CartesianTarget{Pose: pose, Motion: motion}
	if cfg.Config != nil {
		target.Config = cell.ConfigFlags{Shoulder: cfg.Config.Shoulder, Elbow: cfg.Config.Elbow, Wrist: cfg.Config.Wrist}
	}
	if len(cfg.Seed) > 0 {
		target.Seed = referenceframe.FloatsToInputs(cfg.Seed)
	}
	return target, nil
}

func parseMotion(motion string) (cell.MotionType, error) {
	switch motion {
	case "", cell.MotionJoint.String():
		return cell.MotionJoint, nil
	case cell.MotionLinear.String():
		return cell.MotionLinear, nil
	default:
		return cell.MotionJoint, errors.Errorf("unknown motion %q, must be joint or linear", motion)
	}
}

func toVector(p [3]float64) r3.Vector {
	return r3.Vector{X: p[0], Y: p[1], Z: p[2]}
}
