package pose

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region service
// PoseService is the RPC surface of the pose-estimation service.
type PoseService interface {
	NextFrame(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type grpcPoseService struct {
	conn grpc.ClientConnInterface
}

func (s grpcPoseService) NextFrame(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, NextFrameMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion service

// #region client-struct
// Client pulls frames from the pose service and links each to its predecessor.
type Client struct {
	conn    *grpc.ClientConn
	service PoseService
	last    *joints.Frame
}

// #endregion client-struct

// #region constructor
// NewClient connects to the pose-estimation gRPC server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, service: grpcPoseService{conn: conn}}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc PoseService) *Client {
	return &Client{service: svc}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region next
// Next requests the frame after the last one received. It returns io.EOF once
// the service reports the end of the stream.
func (c *Client) Next(ctx context.Context) (joints.Frame, error) {
	after := -1.0
	if c.last != nil {
		after = float64(c.last.Index)
	}
	req, err := structpb.NewStruct(map[string]any{fieldAfter: after})
	if err != nil {
		return joints.Frame{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.service.NextFrame(ctx, req)
	if err != nil {
		return joints.Frame{}, fmt.Errorf("next frame rpc: %w", err)
	}
	if resp.GetFields()[fieldEnd].GetBoolValue() {
		return joints.Frame{}, io.EOF
	}

	f, err := Decode(resp)
	if err != nil {
		return joints.Frame{}, err
	}
	if c.last != nil {
		prev := c.last.Current
		f.Previous = &prev
	}
	c.last = &f
	return f, nil
}

// #endregion next

// #region decode
// Decode converts a NextFrame response into a Frame. Previous is left nil.
func Decode(s *structpb.Struct) (joints.Frame, error) {
	fields := s.GetFields()
	var f joints.Frame

	if v, ok := fields[fieldIndex]; ok {
		n := v.GetNumberValue()
		if n < 0 {
			return joints.Frame{}, fmt.Errorf("decode frame: negative index %v", n)
		}
		f.Index = uint64(n)
	}

	for name, v := range fields[fieldLandmarks].GetStructValue().GetFields() {
		id, err := joints.Parse(name)
		if err != nil {
			return joints.Frame{}, fmt.Errorf("decode frame %d: %w", f.Index, err)
		}
		p, detected, err := decodeLandmark(v)
		if err != nil {
			return joints.Frame{}, fmt.Errorf("decode frame %d %s: %w", f.Index, name, err)
		}
		if detected {
			f.Current.Set(id, p)
		}
	}
	return f, nil
}

func decodeLandmark(v *structpb.Value) (joints.Position, bool, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return joints.Position{}, false, nil
	case *structpb.Value_ListValue:
		vals := k.ListValue.GetValues()
		if len(vals) < 2 || len(vals) > 3 {
			return joints.Position{}, false, fmt.Errorf("want 2 or 3 coordinates, got %d", len(vals))
		}
		p := joints.Position{X: vals[0].GetNumberValue(), Y: vals[1].GetNumberValue()}
		if len(vals) == 3 {
			p.Z = vals[2].GetNumberValue()
		}
		return p, true, nil
	case *structpb.Value_StructValue:
		m := k.StructValue.GetFields()
		if d, ok := m["detected"]; ok && !d.GetBoolValue() {
			return joints.Position{}, false, nil
		}
		return joints.Position{
			X: m["x"].GetNumberValue(),
			Y: m["y"].GetNumberValue(),
			Z: m["z"].GetNumberValue(),
		}, true, nil
	}
	return joints.Position{}, false, fmt.Errorf("unsupported landmark value %T", v.GetKind())
}

// Encode is the inverse of Decode, used by test doubles and fixture tools.
func Encode(f joints.Frame) (*structpb.Struct, error) {
	landmarks := make(map[string]any, f.Current.Len())
	for id, p := range f.Current.All() {
		landmarks[id.String()] = []any{p.X, p.Y, p.Z}
	}
	return structpb.NewStruct(map[string]any{
		fieldIndex:     float64(f.Index),
		fieldLandmarks: landmarks,
	})
}

// #endregion decode
