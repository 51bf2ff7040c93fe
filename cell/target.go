// Package cell holds the data model of a robot cell program: the mechanical groups of a cell, the targets each
// waypoint gives them and the resolved state they reach.
package cell

import (
	"fmt"

	"github.com/cellsafe/clashscan/referenceframe"
	"github.com/cellsafe/clashscan/spatialmath"
)

// MotionType is how a group moves towards a Cartesian target.
type MotionType int

const (
	// MotionJoint interpolates in joint space between the resolved endpoints.
	MotionJoint MotionType = iota
	// MotionLinear interpolates the flange pose along a straight line with slerped orientation.
	MotionLinear
)

func (m MotionType) String() string {
	switch m {
	case MotionJoint:
		return "joint"
	case MotionLinear:
		return "linear"
	default:
		return fmt.Sprintf("MotionType(%d)", int(m))
	}
}

// ConfigFlags are the robot configuration bits that pick one inverse kinematics branch.
type ConfigFlags struct {
	Shoulder bool
	Elbow    bool
	Wrist    bool
}

// GroupTarget is the portion of a waypoint that belongs to one mechanical group.
type GroupTarget interface {
	fmt.Stringer
	isGroupTarget()
}

// JointTarget commands every axis of a group directly.
type JointTarget struct {
	Joints []referenceframe.Input
}

func (*JointTarget) isGroupTarget() {}

func (jt *JointTarget) String() string {
	return fmt.Sprintf("joints%v", referenceframe.InputsToFloats(jt.Joints))
}

// CartesianTarget commands the flange pose of a group relative to the group's base. Seed, when set, is the joint
// configuration inverse kinematics starts from.
type CartesianTarget struct {
	Pose   spatialmath.Pose
	Motion MotionType
	Config ConfigFlags
	Seed   []referenceframe.Input
}

func (*CartesianTarget) isGroupTarget() {}

func (ct *CartesianTarget) String() string {
	return fmt.Sprintf("%s %s", ct.Motion, spatialmath.PoseToString(ct.Pose))
}
