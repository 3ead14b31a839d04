package pose

import (
	"context"
	"errors"
	"io"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/formcheck/internal/joints"
)

// #region mock
type mockPoseService struct {
	responses []*structpb.Struct
	err       error
	requests  []*structpb.Struct
}

func (m *mockPoseService) NextFrame(_ context.Context, req *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return structpb.NewStruct(map[string]any{fieldEnd: true})
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

// #endregion mock

// #region constructor-tests
func TestNewClientLazyDial(t *testing.T) {
	c, err := NewClient("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	defer c.Close()
}

func TestNewClientWithServiceClose(t *testing.T) {
	c := NewClientWithService(&mockPoseService{})
	if err := c.Close(); err != nil {
		t.Fatalf("Close without conn: %v", err)
	}
}

// #endregion constructor-tests

// #region next-tests
func TestNextLinksFramesAndEnds(t *testing.T) {
	svc := &mockPoseService{responses: []*structpb.Struct{
		mustStruct(t, map[string]any{
			"index":     float64(3),
			"landmarks": map[string]any{"LEFT_HIP": []any{0.4, 0.5, -0.1}},
		}),
		mustStruct(t, map[string]any{
			"index": float64(4),
			"landmarks": map[string]any{
				"LEFT_HIP":  map[string]any{"x": 0.41, "y": 0.52, "z": 0.0},
				"RIGHT_HIP": map[string]any{"x": 0.6, "y": 0.5, "detected": false},
			},
		}),
	}}
	c := NewClientWithService(svc)
	ctx := context.Background()

	f1, err := c.Next(ctx)
	if err != nil {
		t.Fatalf("Next 1: %v", err)
	}
	if f1.Index != 3 || f1.Previous != nil {
		t.Fatalf("unexpected first frame %+v", f1)
	}
	if p, ok := f1.Current.Get(joints.LeftHip); !ok || p.Z != -0.1 {
		t.Fatalf("LEFT_HIP = %v, %v", p, ok)
	}

	f2, err := c.Next(ctx)
	if err != nil {
		t.Fatalf("Next 2: %v", err)
	}
	if f2.Previous == nil || !f2.Previous.Has(joints.LeftHip) {
		t.Fatal("second frame should link to the first")
	}
	if f2.Current.Has(joints.RightHip) {
		t.Fatal("undetected landmark must be absent")
	}

	if _, err := c.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	after := svc.requests[1].GetFields()[fieldAfter].GetNumberValue()
	if after != 3 {
		t.Fatalf("second request should ask after 3, got %v", after)
	}
	if first := svc.requests[0].GetFields()[fieldAfter].GetNumberValue(); first != -1 {
		t.Fatalf("first request should ask after -1, got %v", first)
	}
}

func TestNextRPCError(t *testing.T) {
	c := NewClientWithService(&mockPoseService{err: errors.New("unavailable")})
	_, err := c.Next(context.Background())
	if err == nil || err.Error() != "next frame rpc: unavailable" {
		t.Fatalf("unexpected error %v", err)
	}
}

// #endregion next-tests

// #region decode-tests
func TestDecodeRejectsUnknownLandmark(t *testing.T) {
	s := mustStruct(t, map[string]any{
		"index":     float64(1),
		"landmarks": map[string]any{"LEFT_TAIL": []any{0.1, 0.2, 0.3}},
	})
	if _, err := Decode(s); err == nil {
		t.Fatal("expected error for unknown landmark")
	}
}

func TestDecodeRejectsBadCoordinates(t *testing.T) {
	s := mustStruct(t, map[string]any{
		"landmarks": map[string]any{"NOSE": []any{0.1}},
	})
	if _, err := Decode(s); err == nil {
		t.Fatal("expected error for single coordinate")
	}
}

func TestEncodeDecodeFrame(t *testing.T) {
	f := joints.Frame{Index: 9, Current: joints.NewSample(map[joints.JointID]joints.Position{
		joints.Nose:       {X: 0.5, Y: 0.1, Z: -0.2},
		joints.RightAnkle: {X: 0.55, Y: 0.95},
	})}
	s, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Index != 9 || got.Current != f.Current {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

// #endregion decode-tests
