// Package pose is the boundary with the external pose-estimation service:
// a gRPC client that pulls landmark frames, plus a JSONL recording format for
// capturing and replaying those frames.
package pose

import (
	"context"

	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region source
// Source yields frames in order. Next returns io.EOF when the stream ends.
type Source interface {
	Next(ctx context.Context) (joints.Frame, error)
}

// #endregion source

// #region wire
// Wire field names of the NextFrame request and response structs.
//
//	request:  {"after": <last index or -1>}
//	response: {"index": 12, "landmarks": {"LEFT_HIP": [x, y, z], ...}, "end": false}
//
// A landmark may also be an object {"x":..,"y":..,"z":..,"detected":bool}.
const (
	fieldAfter     = "after"
	fieldIndex     = "index"
	fieldLandmarks = "landmarks"
	fieldEnd       = "end"
)

// NextFrameMethod is the full gRPC method name served by the pose service.
const NextFrameMethod = "/pose.PoseService/NextFrame"

// #endregion wire
