package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "fleetmanager.v1.FleetManagerService"

// Full method names.
const (
	FleetManagerService_CreateVehicle_FullMethodName         = "/" + ServiceName + "/CreateVehicle"
	FleetManagerService_RemoveVehicle_FullMethodName         = "/" + ServiceName + "/RemoveVehicle"
	FleetManagerService_GetKingpinDescription_FullMethodName = "/" + ServiceName + "/GetKingpinDescription"
	FleetManagerService_SetFleetState_FullMethodName         = "/" + ServiceName + "/SetFleetState"
	FleetManagerService_SetFrozenState_FullMethodName        = "/" + ServiceName + "/SetFrozenState"
	FleetManagerService_SetKingpinState_FullMethodName       = "/" + ServiceName + "/SetKingpinState"
	FleetManagerService_SetPose_FullMethodName               = "/" + ServiceName + "/SetPose"
	FleetManagerService_Subscribe_FullMethodName             = "/" + ServiceName + "/Subscribe"
)

// FleetManagerServiceClient is the client API of the Fleet Manager service.
type FleetManagerServiceClient interface {
	CreateVehicle(ctx context.Context, in *CreateVehicleRequest, opts ...grpc.CallOption) (*CreateVehicleResult, error)
	RemoveVehicle(ctx context.Context, in *AddressRequest, opts ...grpc.CallOption) (*GenericResult, error)
	GetKingpinDescription(ctx context.Context, in *AddressRequest, opts ...grpc.CallOption) (*KingpinDescriptionResult, error)
	SetFleetState(ctx context.Context, in *SetFleetStateRequest, opts ...grpc.CallOption) (*GenericResult, error)
	SetFrozenState(ctx context.Context, in *SetFrozenStateRequest, opts ...grpc.CallOption) (*GenericResult, error)
	SetKingpinState(ctx context.Context, in *SetKingpinStateRequest, opts ...grpc.CallOption) (*GenericResult, error)
	SetPose(ctx context.Context, in *SetPoseRequest, opts ...grpc.CallOption) (*GenericResult, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (FleetManagerService_SubscribeClient, error)
}

// FleetManagerService_SubscribeClient receives the fleet state stream.
type FleetManagerService_SubscribeClient interface {
	Recv() (*FleetState, error)
	grpc.ClientStream
}

type fleetManagerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewFleetManagerServiceClient returns a stub over cc. The connection must
// negotiate CodecName, see Codec.
func NewFleetManagerServiceClient(cc grpc.ClientConnInterface) FleetManagerServiceClient {
	return &fleetManagerServiceClient{cc: cc}
}

func (c *fleetManagerServiceClient) CreateVehicle(ctx context.Context, in *CreateVehicleRequest, opts ...grpc.CallOption) (*CreateVehicleResult, error) {
	out := new(CreateVehicleResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_CreateVehicle_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) RemoveVehicle(ctx context.Context, in *AddressRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	out := new(GenericResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_RemoveVehicle_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) GetKingpinDescription(ctx context.Context, in *AddressRequest, opts ...grpc.CallOption) (*KingpinDescriptionResult, error) {
	out := new(KingpinDescriptionResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_GetKingpinDescription_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) SetFleetState(ctx context.Context, in *SetFleetStateRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	out := new(GenericResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_SetFleetState_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) SetFrozenState(ctx context.Context, in *SetFrozenStateRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	out := new(GenericResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_SetFrozenState_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) SetKingpinState(ctx context.Context, in *SetKingpinStateRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	out := new(GenericResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_SetKingpinState_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) SetPose(ctx context.Context, in *SetPoseRequest, opts ...grpc.CallOption) (*GenericResult, error) {
	out := new(GenericResult)
	if err := c.cc.Invoke(ctx, FleetManagerService_SetPose_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fleetManagerServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (FleetManagerService_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &FleetManagerService_ServiceDesc.Streams[0], FleetManagerService_Subscribe_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &fleetManagerServiceSubscribeClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type fleetManagerServiceSubscribeClient struct {
	grpc.ClientStream
}

// Recv decodes into a fresh value so a failed decode never leaks a partial snapshot.
func (x *fleetManagerServiceSubscribeClient) Recv() (*FleetState, error) {
	m := new(FleetState)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// withCodec prepends the JSON content-subtype so a bare connection works too;
// a caller-supplied option still wins.
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

// FleetManagerServiceServer is the server API of the Fleet Manager service.
type FleetManagerServiceServer interface {
	CreateVehicle(context.Context, *CreateVehicleRequest) (*CreateVehicleResult, error)
	RemoveVehicle(context.Context, *AddressRequest) (*GenericResult, error)
	GetKingpinDescription(context.Context, *AddressRequest) (*KingpinDescriptionResult, error)
	SetFleetState(context.Context, *SetFleetStateRequest) (*GenericResult, error)
	SetFrozenState(context.Context, *SetFrozenStateRequest) (*GenericResult, error)
	SetKingpinState(context.Context, *SetKingpinStateRequest) (*GenericResult, error)
	SetPose(context.Context, *SetPoseRequest) (*GenericResult, error)
	Subscribe(*SubscribeRequest, FleetManagerService_SubscribeServer) error
}

// FleetManagerService_SubscribeServer sends the fleet state stream.
type FleetManagerService_SubscribeServer interface {
	Send(*FleetState) error
	grpc.ServerStream
}

// UnimplementedFleetManagerServiceServer answers Unimplemented for every method.
// Embed it to stay forward compatible.
type UnimplementedFleetManagerServiceServer struct{}

func (UnimplementedFleetManagerServiceServer) CreateVehicle(context.Context, *CreateVehicleRequest) (*CreateVehicleResult, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateVehicle not implemented")
}
func (UnimplementedFleetManagerServiceServer) RemoveVehicle(context.Context, *AddressRequest) (*GenericResult, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveVehicle not implemented")
}
func (UnimplementedFleetManagerServiceServer) GetKingpinDescription(context.Context, *AddressRequest) (*KingpinDescriptionResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetKingpinDescription not implemented")
}
func (UnimplementedFleetManagerServiceServer) SetFleetState(context.Context, *SetFleetStateRequest) (*GenericResult, error) {
	return nil, status.Error(codes.Unimplemented, "method SetFleetState not implemented")
}
func (UnimplementedFleetManagerServiceServer) SetFrozenState(context.Context, *SetFrozenStateRequest) (*GenericResult, error) {
	return nil, status.Error(codes.Unimplemented, "method SetFrozenState not implemented")
}
func (UnimplementedFleetManagerServiceServer) SetKingpinState(context.Context, *SetKingpinStateRequest) (*GenericResult, error) {
	return nil, status.Error(codes.Unimplemented, "method SetKingpinState not implemented")
}
func (UnimplementedFleetManagerServiceServer) SetPose(context.Context, *SetPoseRequest) (*GenericResult, error) {
	return nil, status.Error(codes.Unimplemented, "method SetPose not implemented")
}
func (UnimplementedFleetManagerServiceServer) Subscribe(*SubscribeRequest, FleetManagerService_SubscribeServer) error {
	return status.Error(codes.Unimplemented, "method Subscribe not implemented")
}

// RegisterFleetManagerServiceServer registers srv on s.
func RegisterFleetManagerServiceServer(s grpc.ServiceRegistrar, srv FleetManagerServiceServer) {
	s.RegisterService(&FleetManagerService_ServiceDesc, srv)
}

func unaryHandler[Req any](method string, call func(FleetManagerServiceServer, context.Context, *Req) (any, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FleetManagerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FleetManagerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _FleetManagerService_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(FleetManagerServiceServer).Subscribe(m, &fleetManagerServiceSubscribeServer{ServerStream: stream})
}

type fleetManagerServiceSubscribeServer struct {
	grpc.ServerStream
}

func (x *fleetManagerServiceSubscribeServer) Send(m *FleetState) error {
	return x.ServerStream.SendMsg(m)
}

// FleetManagerService_ServiceDesc is the hand-written descriptor of the service.
var FleetManagerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FleetManagerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateVehicle",
			Handler: unaryHandler(FleetManagerService_CreateVehicle_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *CreateVehicleRequest) (any, error) {
				return s.CreateVehicle(ctx, in)
			}),
		},
		{
			MethodName: "RemoveVehicle",
			Handler: unaryHandler(FleetManagerService_RemoveVehicle_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *AddressRequest) (any, error) {
				return s.RemoveVehicle(ctx, in)
			}),
		},
		{
			MethodName: "GetKingpinDescription",
			Handler: unaryHandler(FleetManagerService_GetKingpinDescription_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *AddressRequest) (any, error) {
				return s.GetKingpinDescription(ctx, in)
			}),
		},
		{
			MethodName: "SetFleetState",
			Handler: unaryHandler(FleetManagerService_SetFleetState_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *SetFleetStateRequest) (any, error) {
				return s.SetFleetState(ctx, in)
			}),
		},
		{
			MethodName: "SetFrozenState",
			Handler: unaryHandler(FleetManagerService_SetFrozenState_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *SetFrozenStateRequest) (any, error) {
				return s.SetFrozenState(ctx, in)
			}),
		},
		{
			MethodName: "SetKingpinState",
			Handler: unaryHandler(FleetManagerService_SetKingpinState_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *SetKingpinStateRequest) (any, error) {
				return s.SetKingpinState(ctx, in)
			}),
		},
		{
			MethodName: "SetPose",
			Handler: unaryHandler(FleetManagerService_SetPose_FullMethodName, func(s FleetManagerServiceServer, ctx context.Context, in *SetPoseRequest) (any, error) {
				return s.SetPose(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _FleetManagerService_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "fleetmanager/v1/fleetmanager.proto",
}
