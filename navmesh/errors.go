package navmesh

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage names a pipeline stage or orchestration precondition that can fail.
type Stage string

const (
	StageHeightfieldBuild   Stage = "HeightfieldBuild"
	StageRasterization      Stage = "Rasterization"
	StageCompactHeightfield Stage = "CompactHeightfield"
	StageRegionBuild        Stage = "RegionBuild"
	StageContourBuild       Stage = "ContourBuild"
	StagePolygonMesh        Stage = "PolygonMesh"
	StageDetailMesh         Stage = "DetailMesh"
	StageTilingNotEnabled   Stage = "TilingNotEnabled"
)

// BuildError identifies the stage that detected a failure and the offending
// quantity, per the propagation policy: no stage silently recovers, and
// every message names both.
type BuildError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *BuildError) Unwrap() error { return e.Err }

// wrapStage returns nil if err is nil, otherwise a *BuildError identifying
// stage and wrapping err with msg as additional context.
func wrapStage(stage Stage, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &BuildError{Stage: stage, Message: msg, Err: errors.WithMessage(err, msg)}
}
