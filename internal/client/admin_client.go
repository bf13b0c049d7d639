package client

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/delivery/grpcapi/admin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

const adminCallTimeout = 3 * time.Second

// AdminClient calls the back-office PaymentAdmin gRPC service.
type AdminClient struct {
	conn *grpc.ClientConn
}

func NewAdminClient(addr string) (*AdminClient, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy": "round_robin"}`),
	)
	if err != nil {
		return nil, err
	}
	return NewAdminClientFromConn(conn), nil
}

func NewAdminClientFromConn(conn *grpc.ClientConn) *AdminClient {
	return &AdminClient{conn: conn}
}

func (c *AdminClient) Close() error {
	return c.conn.Close()
}

func (c *AdminClient) GetPayment(ctx context.Context, paymentID string) (*structpb.Struct, error) {
	return c.invoke(ctx, admin.MethodGetPayment, map[string]interface{}{
		"payment_id": paymentID,
	})
}

func (c *AdminClient) MarkFailed(ctx context.Context, paymentID, reason string) (*structpb.Struct, error) {
	return c.invoke(ctx, admin.MethodMarkFailed, map[string]interface{}{
		"payment_id": paymentID,
		"reason":     reason,
	})
}

func (c *AdminClient) MarkRefunded(ctx context.Context, paymentID, reason string) (*structpb.Struct, error) {
	return c.invoke(ctx, admin.MethodMarkRefunded, map[string]interface{}{
		"payment_id": paymentID,
		"reason":     reason,
	})
}

func (c *AdminClient) ListPending(ctx context.Context, userID string, page, limit int) (*structpb.Struct, error) {
	return c.invoke(ctx, admin.MethodListPending, map[string]interface{}{
		"user_id": userID,
		"page":    page,
		"limit":   limit,
	})
}

func (c *AdminClient) invoke(ctx context.Context, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, adminCallTimeout)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, admin.FullMethod(method), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
