package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "barberboss.v1.SchedulingService"

type SchedulingServiceServer interface {
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentResponse, error)
	UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*AppointmentResponse, error)
	DeleteAppointment(context.Context, *AppointmentIDRequest) (*Empty, error)
	GetAppointment(context.Context, *AppointmentIDRequest) (*AppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	GetAvailableSlots(context.Context, *GetAvailableSlotsRequest) (*GetAvailableSlotsResponse, error)
	GetSettings(context.Context, *Empty) (*SettingsResponse, error)
	UpdateSettings(context.Context, *UpdateSettingsRequest) (*SettingsResponse, error)
	CreateTimeBlock(context.Context, *CreateTimeBlockRequest) (*TimeBlockResponse, error)
	UpdateTimeBlock(context.Context, *UpdateTimeBlockRequest) (*TimeBlockResponse, error)
	DeleteTimeBlock(context.Context, *TimeBlockIDRequest) (*Empty, error)
	ListTimeBlocks(context.Context, *ListTimeBlocksRequest) (*ListTimeBlocksResponse, error)
	IsBlocked(context.Context, *IsBlockedRequest) (*IsBlockedResponse, error)
}

var SchedulingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateAppointment", SchedulingServiceServer.CreateAppointment),
		unary("UpdateAppointment", SchedulingServiceServer.UpdateAppointment),
		unary("DeleteAppointment", SchedulingServiceServer.DeleteAppointment),
		unary("GetAppointment", SchedulingServiceServer.GetAppointment),
		unary("ListAppointments", SchedulingServiceServer.ListAppointments),
		unary("GetAvailableSlots", SchedulingServiceServer.GetAvailableSlots),
		unary("GetSettings", SchedulingServiceServer.GetSettings),
		unary("UpdateSettings", SchedulingServiceServer.UpdateSettings),
		unary("CreateTimeBlock", SchedulingServiceServer.CreateTimeBlock),
		unary("UpdateTimeBlock", SchedulingServiceServer.UpdateTimeBlock),
		unary("DeleteTimeBlock", SchedulingServiceServer.DeleteTimeBlock),
		unary("ListTimeBlocks", SchedulingServiceServer.ListTimeBlocks),
		unary("IsBlocked", SchedulingServiceServer.IsBlocked),
	},
	Metadata: "barberboss/v1/scheduling",
}

func RegisterSchedulingServiceServer(s grpc.ServiceRegistrar, srv SchedulingServiceServer) {
	s.RegisterService(&SchedulingServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(SchedulingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(SchedulingServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// SchedulingClient calls the service with the JSON codec.
type SchedulingClient struct {
	cc grpc.ClientConnInterface
}

func NewSchedulingClient(cc grpc.ClientConnInterface) *SchedulingClient {
	return &SchedulingClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *SchedulingClient, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulingClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, "CreateAppointment", in, opts)
}

func (c *SchedulingClient) UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, "UpdateAppointment", in, opts)
}

func (c *SchedulingClient) DeleteAppointment(ctx context.Context, in *AppointmentIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "DeleteAppointment", in, opts)
}

func (c *SchedulingClient) GetAppointment(ctx context.Context, in *AppointmentIDRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c, "GetAppointment", in, opts)
}

func (c *SchedulingClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c, "ListAppointments", in, opts)
}

func (c *SchedulingClient) GetAvailableSlots(ctx context.Context, in *GetAvailableSlotsRequest, opts ...grpc.CallOption) (*GetAvailableSlotsResponse, error) {
	return invoke[GetAvailableSlotsResponse](ctx, c, "GetAvailableSlots", in, opts)
}

func (c *SchedulingClient) GetSettings(ctx context.Context, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[SettingsResponse](ctx, c, "GetSettings", &Empty{}, opts)
}

func (c *SchedulingClient) UpdateSettings(ctx context.Context, in *UpdateSettingsRequest, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[SettingsResponse](ctx, c, "UpdateSettings", in, opts)
}

func (c *SchedulingClient) CreateTimeBlock(ctx context.Context, in *CreateTimeBlockRequest, opts ...grpc.CallOption) (*TimeBlockResponse, error) {
	return invoke[TimeBlockResponse](ctx, c, "CreateTimeBlock", in, opts)
}

func (c *SchedulingClient) UpdateTimeBlock(ctx context.Context, in *UpdateTimeBlockRequest, opts ...grpc.CallOption) (*TimeBlockResponse, error) {
	return invoke[TimeBlockResponse](ctx, c, "UpdateTimeBlock", in, opts)
}

func (c *SchedulingClient) DeleteTimeBlock(ctx context.Context, in *TimeBlockIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "DeleteTimeBlock", in, opts)
}

func (c *SchedulingClient) ListTimeBlocks(ctx context.Context, in *ListTimeBlocksRequest, opts ...grpc.CallOption) (*ListTimeBlocksResponse, error) {
	return invoke[ListTimeBlocksResponse](ctx, c, "ListTimeBlocks", in, opts)
}

func (c *SchedulingClient) IsBlocked(ctx context.Context, in *IsBlockedRequest, opts ...grpc.CallOption) (*IsBlockedResponse, error) {
	return invoke[IsBlockedResponse](ctx, c, "IsBlocked", in, opts)
}
