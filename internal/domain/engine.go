package domain

import "context"

// Engine defines the interface to the external extraction/transcoding
// engine. Acquire blocks until the fetch and any post-processing complete;
// the produced file is written inside workspace, which the caller owns and
// removes.
type Engine interface {
	Acquire(ctx context.Context, url, workspace string, inst EngineInstructions) (*Artifact, error)
}
