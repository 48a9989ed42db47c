package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AssistantServiceName は api/staffingplan/v1/assistant.proto のサービス名です。
const AssistantServiceName = "staffingplan.v1.AssistantService"

// AssistantServer は AssistantService の各 RPC です。
// リクエストとレスポンスは google.protobuf.Struct で受け渡します。
type AssistantServer interface {
	RunCommand(context.Context, *structpb.Struct) (*structpb.Struct, error)
	InterpretCommand(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAudit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Rollover(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AssistantServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// AssistantServiceDesc は AssistantService の grpc.ServiceDesc です。
var AssistantServiceDesc = grpc.ServiceDesc{
	ServiceName: AssistantServiceName,
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunCommand", Handler: unaryHandler("RunCommand", AssistantServer.RunCommand)},
		{MethodName: "InterpretCommand", Handler: unaryHandler("InterpretCommand", AssistantServer.InterpretCommand)},
		{MethodName: "ListAudit", Handler: unaryHandler("ListAudit", AssistantServer.ListAudit)},
		{MethodName: "Rollover", Handler: unaryHandler("Rollover", AssistantServer.Rollover)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "staffingplan/v1/assistant.proto",
}

// RegisterAssistantServer は srv を登録します。
func RegisterAssistantServer(s grpc.ServiceRegistrar, srv AssistantServer) {
	s.RegisterService(&AssistantServiceDesc, srv)
}

// FullMethod は RPC の完全名を返します。
func FullMethod(method string) string {
	return "/" + AssistantServiceName + "/" + method
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AssistantServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AssistantServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AssistantClient は AssistantService の最小限のクライアントです。
type AssistantClient struct {
	cc grpc.ClientConnInterface
}

// NewAssistantClient は AssistantClient を生成します。
func NewAssistantClient(cc grpc.ClientConnInterface) *AssistantClient {
	return &AssistantClient{cc: cc}
}

// Call は method を呼び出します。
func (c *AssistantClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
