package admin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Messages are plain
// google.protobuf.Struct values, so no generated stubs are needed.
const ServiceName = "vip.admin.v1.PaymentAdmin"

const (
	MethodGetPayment   = "GetPayment"
	MethodMarkFailed   = "MarkFailed"
	MethodMarkRefunded = "MarkRefunded"
	MethodListPending  = "ListPending"
)

type PaymentAdminServer interface {
	GetPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	MarkFailed(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	MarkRefunded(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPending(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryCall func(srv PaymentAdminServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PaymentAdminServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PaymentAdminServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentAdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodGetPayment,
			Handler: unaryHandler(MethodGetPayment, func(s PaymentAdminServer, ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
				return s.GetPayment(ctx, r)
			}),
		},
		{
			MethodName: MethodMarkFailed,
			Handler: unaryHandler(MethodMarkFailed, func(s PaymentAdminServer, ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
				return s.MarkFailed(ctx, r)
			}),
		},
		{
			MethodName: MethodMarkRefunded,
			Handler: unaryHandler(MethodMarkRefunded, func(s PaymentAdminServer, ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
				return s.MarkRefunded(ctx, r)
			}),
		},
		{
			MethodName: MethodListPending,
			Handler: unaryHandler(MethodListPending, func(s PaymentAdminServer, ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
				return s.ListPending(ctx, r)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vip/admin/v1/admin.proto",
}

func RegisterPaymentAdminServer(s grpc.ServiceRegistrar, srv PaymentAdminServer) {
	s.RegisterService(&ServiceDesc, srv)
}
