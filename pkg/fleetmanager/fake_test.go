package fleetmanager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"k8s.io/apimachinery/pkg/util/wait"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
)

var errUnreachable = status.Error(codes.Unavailable, "connection refused")

// streamScript describes one Subscribe attempt. With openErr set the stream
// never opens. Otherwise states are returned in order, followed by endErr, or
// by blocking until the call context ends when endErr is nil.
type streamScript struct {
	openErr error
	states  []*fleetv1.FleetState
	endErr  error
}

type fakeStream struct {
	grpc.ClientStream

	ctx    context.Context
	script streamScript
	next   int
}

func (s *fakeStream) Recv() (*fleetv1.FleetState, error) {
	if s.next < len(s.script.states) {
		st := s.script.states[s.next]
		s.next++
		return st, nil
	}
	if s.script.endErr != nil {
		return nil, s.script.endErr
	}
	<-s.ctx.Done()
	return nil, status.FromContextError(s.ctx.Err()).Err()
}

// fakeStub is an in-memory FleetManagerServiceClient.
type fakeStub struct {
	createVehicle func(*fleetv1.CreateVehicleRequest) (*fleetv1.CreateVehicleResult, error)
	describe      func(*fleetv1.AddressRequest) (*fleetv1.KingpinDescriptionResult, error)
	generic       func(method string, in any) (*fleetv1.GenericResult, error)

	mu         sync.Mutex
	scripts    []streamScript
	subscribes int
}

var _ fleetv1.FleetManagerServiceClient = (*fakeStub)(nil)

func (f *fakeStub) CreateVehicle(_ context.Context, in *fleetv1.CreateVehicleRequest, _ ...grpc.CallOption) (*fleetv1.CreateVehicleResult, error) {
	return f.createVehicle(in)
}

func (f *fakeStub) GetKingpinDescription(_ context.Context, in *fleetv1.AddressRequest, _ ...grpc.CallOption) (*fleetv1.KingpinDescriptionResult, error) {
	return f.describe(in)
}

func (f *fakeStub) RemoveVehicle(_ context.Context, in *fleetv1.AddressRequest, _ ...grpc.CallOption) (*fleetv1.GenericResult, error) {
	return f.generic("RemoveVehicle", in)
}

func (f *fakeStub) SetFleetState(_ context.Context, in *fleetv1.SetFleetStateRequest, _ ...grpc.CallOption) (*fleetv1.GenericResult, error) {
	return f.generic("SetFleetState", in)
}

func (f *fakeStub) SetFrozenState(_ context.Context, in *fleetv1.SetFrozenStateRequest, _ ...grpc.CallOption) (*fleetv1.GenericResult, error) {
	return f.generic("SetFrozenState", in)
}

func (f *fakeStub) SetKingpinState(_ context.Context, in *fleetv1.SetKingpinStateRequest, _ ...grpc.CallOption) (*fleetv1.GenericResult, error) {
	return f.generic("SetKingpinState", in)
}

func (f *fakeStub) SetPose(_ context.Context, in *fleetv1.SetPoseRequest, _ ...grpc.CallOption) (*fleetv1.GenericResult, error) {
	return f.generic("SetPose", in)
}

// Subscribe plays the scripts in order; once they run out every further
// attempt gets a stream that stays open until cancelled.
func (f *fakeStub) Subscribe(ctx context.Context, _ *fleetv1.SubscribeRequest, _ ...grpc.CallOption) (fleetv1.FleetManagerService_SubscribeClient, error) {
	f.mu.Lock()
	var script streamScript
	if f.subscribes < len(f.scripts) {
		script = f.scripts[f.subscribes]
	}
	f.subscribes++
	f.mu.Unlock()

	if script.openErr != nil {
		return nil, script.openErr
	}
	return &fakeStream{ctx: ctx, script: script}, nil
}

func (f *fakeStub) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

func ticks(n ...uint64) []*fleetv1.FleetState {
	out := make([]*fleetv1.FleetState, 0, len(n))
	for _, tick := range n {
		out = append(out, &fleetv1.FleetState{Tick: tick})
	}
	return out
}

// eventually polls cond until it holds or a few seconds have passed.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	err := wait.PollUntilContextTimeout(context.Background(), 2*time.Millisecond, 5*time.Second, true,
		func(context.Context) (bool, error) { return cond(), nil })
	if err != nil {
		t.Fatalf("timed out waiting for %s", what)
	}
}

func waitClosed(t *testing.T, what string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func isTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
