package video

import (
	"errors"
	"fmt"
	"io/fs"

	"bilistage/internal/services"
)

// ErrDurationProbe marks a source whose duration or video stream could not
// be determined.
var ErrDurationProbe = fmt.Errorf("duration probe failed: %w", services.ErrExternalTool)

// SourceNotFoundError reports a missing input file.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s", e.Path)
}

func (e *SourceNotFoundError) Unwrap() []error {
	return []error{services.ErrNotFound, fs.ErrNotExist}
}

// UnsupportedCodecError reports a video codec outside the packetizable set.
type UnsupportedCodecError struct {
	Codec string
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("unsupported codec %q", e.Codec)
}

func (e *UnsupportedCodecError) Unwrap() error {
	return services.ErrValidation
}

// Stage names a step of a composite operation.
type Stage string

const (
	StageProbe     Stage = "probe"
	StagePlan      Stage = "plan"
	StageCut       Stage = "cut"
	StagePacketize Stage = "packetize"
	StageConcat    Stage = "concat"
	StageCleanup   Stage = "cleanup"
)

// StageError is the failure outcome of a composite operation: the stage that
// failed and its cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded on err, if any.
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}

func stageFailure(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var existing *StageError
	if errors.As(err, &existing) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}
