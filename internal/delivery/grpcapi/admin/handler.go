package admin

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/LavaJover/shvark-vip-service/internal/infrastructure/logger"
	paymentdto "github.com/LavaJover/shvark-vip-service/internal/usecase/dto/payment"
	usecase "github.com/LavaJover/shvark-vip-service/internal/usecase/payment"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type AdminHandler struct {
	paymentUsecase usecase.PaymentUsecase
}

func NewAdminHandler(paymentUsecase usecase.PaymentUsecase) *AdminHandler {
	return &AdminHandler{paymentUsecase: paymentUsecase}
}

func (h *AdminHandler) GetPayment(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	paymentID, err := requiredString(r, "payment_id")
	if err != nil {
		return nil, err
	}
	payment, err := h.paymentUsecase.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, toStatus(err)
	}
	history, err := h.paymentUsecase.GetPaymentHistory(ctx, paymentID)
	if err != nil {
		return nil, toStatus(err)
	}

	out := paymentToMap(payment)
	out["history"] = historyToList(history)
	return newStruct(out)
}

func (h *AdminHandler) MarkFailed(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	paymentID, err := requiredString(r, "payment_id")
	if err != nil {
		return nil, err
	}
	payment, err := h.paymentUsecase.MarkFailed(ctx, paymentID, optionalString(r, "reason"))
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(paymentToMap(payment))
}

func (h *AdminHandler) MarkRefunded(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	paymentID, err := requiredString(r, "payment_id")
	if err != nil {
		return nil, err
	}
	payment, err := h.paymentUsecase.MarkRefunded(ctx, paymentID, optionalString(r, "reason"))
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(paymentToMap(payment))
}

func (h *AdminHandler) ListPending(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.paymentUsecase.ListPayments(ctx, &paymentdto.ListPaymentsInput{
		UserID: optionalString(r, "user_id"),
		Status: string(domain.StatusPending),
		Page:   optionalInt(r, "page"),
		Limit:  optionalInt(r, "limit"),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	payments := make([]interface{}, 0, len(out.Payments))
	for _, p := range out.Payments {
		payments = append(payments, paymentToMap(p))
	}
	return newStruct(map[string]interface{}{
		"payments": payments,
		"pagination": map[string]interface{}{
			"current_page":   out.Pagination.CurrentPage,
			"total_pages":    out.Pagination.TotalPages,
			"total_items":    out.Pagination.TotalItems,
			"items_per_page": out.Pagination.ItemsPerPage,
		},
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNotPending):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func requiredString(r *structpb.Struct, key string) (string, error) {
	v := optionalString(r, key)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v, nil
}

func optionalString(r *structpb.Struct, key string) string {
	if r == nil {
		return ""
	}
	return r.GetFields()[key].GetStringValue()
}

func optionalInt(r *structpb.Struct, key string) int {
	if r == nil {
		return 0
	}
	return int(r.GetFields()[key].GetNumberValue())
}

func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

func formatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func paymentToMap(p *domain.Payment) map[string]interface{} {
	m := map[string]interface{}{
		"id":             p.ID,
		"user_id":        p.UserID,
		"purpose":        string(p.Purpose),
		"status":         string(p.Status),
		"amount_usd":     p.AmountUSD.String(),
		"test_mode":      p.TestMode,
		"order_id":       p.OrderID,
		"track_id":       p.TrackID,
		"address":        p.Address,
		"pay_amount":     p.PayAmount.String(),
		"pay_currency":   p.PayCurrency,
		"network":        p.Network,
		"rate":           p.Rate.String(),
		"expires_at":     formatTime(p.ExpiresAt),
		"failure_reason": p.FailureReason,
		"created_at":     formatTime(p.CreatedAt),
		"updated_at":     formatTime(p.UpdatedAt),
		"paid_at":        nil,
	}
	if p.PaidAt != nil {
		m["paid_at"] = formatTime(*p.PaidAt)
	}
	return m
}

func historyToList(events []logger.PaymentTransitionEvent) []interface{} {
	out := make([]interface{}, 0, len(events))
	for _, e := range events {
		out = append(out, map[string]interface{}{
			"from":   string(e.FromStatus),
			"to":     string(e.ToStatus),
			"source": string(e.Source),
			"reason": e.Reason,
			"at":     formatTime(e.Timestamp),
		})
	}
	return out
}
