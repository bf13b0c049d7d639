package grpcapi

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/delivery/grpcapi/admin"
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubUsecase struct {
	usecase.PaymentUsecase
	payments map[string]*domain.Payment
}

func (s *stubUsecase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return p, nil
}

func (s *stubUsecase) GetPaymentHistory(ctx context.Context, id string) ([]logger.PaymentTransitionEvent, error) {
	return []logger.PaymentTransitionEvent{
		{PaymentID: id, ToStatus: domain.StatusPending, Source: domain.SourceCreate, Timestamp: time.Unix(1_700_000_000, 0)},
	}, nil
}

func (s *stubUsecase) MarkFailed(ctx context.Context, id, reason string) (*domain.Payment, error) {
	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.StatusPending {
		return nil, domain.ErrInvalidTransition
	}
	p.Status, p.FailureReason = domain.StatusFailed, reason
	return p, nil
}

func (s *stubUsecase) ListPayments(ctx context.Context, in *paymentdto.ListPaymentsInput) (*paymentdto.ListPaymentsOutput, error) {
	var out []*domain.Payment
	for _, p := range s.payments {
		if string(p.Status) == in.Status {
			out = append(out, p)
		}
	}
	return &paymentdto.ListPaymentsOutput{
		Payments:   out,
		Pagination: paymentdto.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: int32(len(out)), ItemsPerPage: 50},
	}, nil
}

func dialServer(t *testing.T, uc usecase.PaymentUsecase) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewServer(uc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, in map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), admin.FullMethod(method), req, out)
	return out, err
}

func newStub() *stubUsecase {
	return &stubUsecase{payments: map[string]*domain.Payment{
		"p-1": {
			ID:          "p-1",
			UserID:      "u-1",
			Status:      domain.StatusPending,
			AmountUSD:   decimal.RequireFromString("29.99"),
			TrackID:     42,
			PayCurrency: "USDT",
			CreatedAt:   time.Unix(1_700_000_000, 0),
		},
	}}
}

func TestAdmin_GetPayment(t *testing.T) {
	conn := dialServer(t, newStub())

	out, err := invoke(t, conn, admin.MethodGetPayment, map[string]interface{}{"payment_id": "p-1"})
	require.NoError(t, err)
	m := out.AsMap()
	assert.Equal(t, "p-1", m["id"])
	assert.Equal(t, "PENDING", m["status"])
	assert.Equal(t, "29.99", m["amount_usd"])
	assert.Equal(t, float64(42), m["track_id"])
	assert.Len(t, m["history"], 1)

	_, err = invoke(t, conn, admin.MethodGetPayment, map[string]interface{}{"payment_id": "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = invoke(t, conn, admin.MethodGetPayment, map[string]interface{}{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAdmin_MarkFailed(t *testing.T) {
	conn := dialServer(t, newStub())

	out, err := invoke(t, conn, admin.MethodMarkFailed, map[string]interface{}{"payment_id": "p-1", "reason": "fraud"})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", out.AsMap()["status"])
	assert.Equal(t, "fraud", out.AsMap()["failure_reason"])

	_, err = invoke(t, conn, admin.MethodMarkFailed, map[string]interface{}{"payment_id": "p-1"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestAdmin_ListPending(t *testing.T) {
	conn := dialServer(t, newStub())

	out, err := invoke(t, conn, admin.MethodListPending, map[string]interface{}{"page": 1, "limit": 10})
	require.NoError(t, err)
	payments := out.AsMap()["payments"].([]interface{})
	require.Len(t, payments, 1)
	assert.Equal(t, "p-1", payments[0].(map[string]interface{})["id"])
}

func TestHealthService(t *testing.T) {
	conn := dialServer(t, newStub())

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: admin.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
