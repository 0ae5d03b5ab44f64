package grpc

// proto.go defines the gRPC server interface derived from
// lendpeak/calc/v1/loan_calc.proto. This file serves as a stand-in for
// buf-generated code. Once `buf generate` is run, replace this file with the
// import from github.com/LendPeak/LendPeak2-sub000/api/gen/go/lendpeak/calc/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoanCalcServiceServer is the server API for LoanCalcService.
// It mirrors the proto-generated interface from lendpeak.calc.v1.LoanCalcService.
type LoanCalcServiceServer interface {
	CalculatePayment(context.Context, *CalculatePaymentRequest) (*CalculatePaymentResponse, error)
	GenerateSchedule(context.Context, *GenerateScheduleRequest) (*ScheduleResponse, error)
	GetSchedule(context.Context, *GetScheduleRequest) (*ScheduleResponse, error)
	ApplyPrepayment(context.Context, *ApplyPrepaymentRequest) (*ScheduleResponse, error)
	DetectBalloons(context.Context, *DetectBalloonsRequest) (*DetectBalloonsResponse, error)
	ApplyBalloonStrategy(context.Context, *ApplyBalloonStrategyRequest) (*StrategyResponse, error)
	mustEmbedUnimplementedLoanCalcServiceServer()
}

// UnimplementedLoanCalcServiceServer provides forward-compatible default implementations.
type UnimplementedLoanCalcServiceServer struct{}

func (UnimplementedLoanCalcServiceServer) CalculatePayment(context.Context, *CalculatePaymentRequest) (*CalculatePaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CalculatePayment not implemented")
}
func (UnimplementedLoanCalcServiceServer) GenerateSchedule(context.Context, *GenerateScheduleRequest) (*ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GenerateSchedule not implemented")
}
func (UnimplementedLoanCalcServiceServer) GetSchedule(context.Context, *GetScheduleRequest) (*ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSchedule not implemented")
}
func (UnimplementedLoanCalcServiceServer) ApplyPrepayment(context.Context, *ApplyPrepaymentRequest) (*ScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyPrepayment not implemented")
}
func (UnimplementedLoanCalcServiceServer) DetectBalloons(context.Context, *DetectBalloonsRequest) (*DetectBalloonsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DetectBalloons not implemented")
}
func (UnimplementedLoanCalcServiceServer) ApplyBalloonStrategy(context.Context, *ApplyBalloonStrategyRequest) (*StrategyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyBalloonStrategy not implemented")
}
func (UnimplementedLoanCalcServiceServer) mustEmbedUnimplementedLoanCalcServiceServer() {}

// RegisterLoanCalcServiceServer registers the LoanCalcServiceServer with the gRPC server.
func RegisterLoanCalcServiceServer(s *grpclib.Server, srv LoanCalcServiceServer) {
	s.RegisterService(&_LoanCalcService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanCalcService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "lendpeak.calc.v1.LoanCalcService",
	HandlerType: (*LoanCalcServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CalculatePayment", Handler: _LoanCalcService_CalculatePayment_Handler},         //nolint:revive // gRPC handler registration
		{MethodName: "GenerateSchedule", Handler: _LoanCalcService_GenerateSchedule_Handler},         //nolint:revive // gRPC handler registration
		{MethodName: "GetSchedule", Handler: _LoanCalcService_GetSchedule_Handler},                   //nolint:revive // gRPC handler registration
		{MethodName: "ApplyPrepayment", Handler: _LoanCalcService_ApplyPrepayment_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "DetectBalloons", Handler: _LoanCalcService_DetectBalloons_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "ApplyBalloonStrategy", Handler: _LoanCalcService_ApplyBalloonStrategy_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanCalcService_CalculatePayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(CalculatePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanCalcServiceServer).CalculatePayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lendpeak.calc.v1.LoanCalcService/CalculatePayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanCalcServiceServer).CalculatePayment(ctx, req.(*CalculatePaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanCalcService_GenerateSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GenerateScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanCalcServiceServer).GenerateSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lendpeak.calc.v1.LoanCalcService/GenerateSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanCalcServiceServer).GenerateSchedule(ctx, req.(*GenerateScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanCalcService_GetSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanCalcServiceServer).GetSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lendpeak.calc.v1.LoanCalcService/GetSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanCalcServiceServer).GetSchedule(ctx, req.(*GetScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanCalcService_ApplyPrepayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplyPrepaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanCalcServiceServer).ApplyPrepayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lendpeak.calc.v1.LoanCalcService/ApplyPrepayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanCalcServiceServer).ApplyPrepayment(ctx, req.(*ApplyPrepaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanCalcService_DetectBalloons_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(DetectBalloonsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanCalcServiceServer).DetectBalloons(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lendpeak.calc.v1.LoanCalcService/DetectBalloons",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanCalcServiceServer).DetectBalloons(ctx, req.(*DetectBalloonsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanCalcService_ApplyBalloonStrategy_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplyBalloonStrategyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanCalcServiceServer).ApplyBalloonStrategy(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/lendpeak.calc.v1.LoanCalcService/ApplyBalloonStrategy",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanCalcServiceServer).ApplyBalloonStrategy(ctx, req.(*ApplyBalloonStrategyRequest))
	}
	return interceptor(ctx, in, info, handler)
}
