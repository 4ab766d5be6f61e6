package service

import (
	"context"
	"errors"
	"strings"

	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/dto"
	"storefront-api/internal/event"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

type OrderService interface {
	PlaceCOD(ctx context.Context, userID string, req dto.PlaceOrderRequest) (*model.Order, error)
	PlaceGateway(ctx context.Context, userID string, req dto.PlaceOrderRequest) (*dto.GatewayOrderResponse, error)
	VerifyPayment(ctx context.Context, userID string, req dto.VerifyPaymentRequest) (*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	ListUser(ctx context.Context, userID string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error)
}

type orderServiceImpl struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	gateway       client.RazorpayClient
	gatewaySecret string
	publisher     event.Publisher
	validate      *validator.Validate
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	gateway client.RazorpayClient,
	gatewaySecret string,
	publisher event.Publisher,
) OrderService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &orderServiceImpl{
		db:            db,
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		gateway:       gateway,
		gatewaySecret: gatewaySecret,
		publisher:     publisher,
		validate:      newValidator(),
	}
}

func (s *orderServiceImpl) buildOrder(userID string, req dto.PlaceOrderRequest, method model.PaymentMethod) (*model.Order, error) {
	if userID == "" {
		return nil, apperr.Validation("User id is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("Order must contain at least one item")
	}
	if req.Amount <= 0 {
		return nil, apperr.Validation("amount must be greater than 0")
	}

	order := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		Address:       req.Address,
		Status:        model.StatusProcessing,
		PaymentMethod: method,
		Paid:          false,
	}
	if order.Address == nil {
		order.Address = model.JSONMap{}
	}

	items := make([]*model.OrderItem, len(req.Items))
	for i, it := range req.Items {
		if it == nil {
			return nil, apperr.Validation("Order item is required")
		}
		if err := s.validate.Struct(it); err != nil {
			return nil, validationError(err)
		}
		images := make(model.StringList, len(it.Images))
		copy(images, it.Images)

		items[i] = &model.OrderItem{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Images:    images,
		}
	}
	order.Items = items

	return order, nil
}

func (s *orderServiceImpl) persist(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		return s.orderRepo.CreateOrderItems(ctx, tx, order.Items)
	})
}

func (s *orderServiceImpl) publish(ctx context.Context, eventType string, order *model.Order) {
	if err := s.publisher.PublishJSON(ctx, eventType, event.NewOrderEvent(eventType, order)); err != nil {
		logger.FromContext(ctx).Warn("publish order event",
			zap.String("event", eventType),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

// clearCart runs after the order is committed. A failure leaves the cart
// populated next to a placed order; it is logged, not surfaced.
func (s *orderServiceImpl) clearCart(ctx context.Context, userID, orderID string) {
	if err := s.cartRepo.DeleteByUser(ctx, s.db, userID); err != nil {
		logger.FromContext(ctx).Error("clear cart after order",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}
}

func (s *orderServiceImpl) PlaceCOD(ctx context.Context, userID string, req dto.PlaceOrderRequest) (*model.Order, error) {
	order, err := s.buildOrder(userID, req, model.PaymentCOD)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, apperr.Internal("Failed to place order", err)
	}
	metrics.OrderPlaced(string(model.PaymentCOD))

	s.clearCart(ctx, userID, order.ID)
	s.publish(ctx, event.OrderPlaced, order)

	logger.FromContext(ctx).Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(order.PaymentMethod)),
	)
	return order, nil
}

func (s *orderServiceImpl) PlaceGateway(ctx context.Context, userID string, req dto.PlaceOrderRequest) (*dto.GatewayOrderResponse, error) {
	order, err := s.buildOrder(userID, req, model.PaymentGateway)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, apperr.Internal("Failed to place order", err)
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, client.CreateGatewayOrderRequest{
		Amount:   order.Amount,
		Currency: currency,
		Receipt:  order.ID,
	})
	if err != nil {
		return nil, apperr.Internal("Failed to create payment order", err)
	}

	if err := s.orderRepo.SetGatewayOrderID(ctx, s.db, order.ID, gwOrder.ID); err != nil {
		return nil, apperr.Internal("Failed to store payment reference", err)
	}
	order.GatewayOrderID = &gwOrder.ID
	metrics.OrderPlaced(string(model.PaymentGateway))

	logger.FromContext(ctx).Info("gateway order created",
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", gwOrder.ID),
	)
	return &dto.GatewayOrderResponse{Order: gwOrder, DBOrder: order}, nil
}

func (s *orderServiceImpl) VerifyPayment(ctx context.Context, userID string, req dto.VerifyPaymentRequest) (*model.Order, error) {
	req.Normalize()
	if userID == "" || req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		return nil, apperr.Validation("Missing payment verification fields")
	}
	if s.gatewaySecret == "" {
		metrics.PaymentVerification(metrics.VerifyError)
		return nil, apperr.Internal("Server misconfigured", errors.New("gateway secret is not configured"))
	}

	if !validPaymentSignature(s.gatewaySecret, req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		metrics.PaymentVerification(metrics.VerifyBadSig)
		logger.FromContext(ctx).Warn("payment signature mismatch", zap.String("gateway_order_id", req.GatewayOrderID))
		return nil, apperr.Validation("Payment signature verification failed")
	}

	order, alreadyPaid, err := s.orderRepo.MarkPaid(ctx, s.db, userID, req.GatewayOrderID, req.GatewayPaymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.PaymentVerification(metrics.VerifyNotFound)
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		metrics.PaymentVerification(metrics.VerifyError)
		return nil, apperr.Internal("Failed to update payment status", err)
	}

	if alreadyPaid {
		metrics.PaymentVerification(metrics.VerifyAlreadyPaid)
		return order, nil
	}

	metrics.PaymentVerification(metrics.VerifyPaid)
	s.clearCart(ctx, userID, order.ID)
	s.publish(ctx, event.OrderPaid, order)

	logger.FromContext(ctx).Info("payment verified",
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", req.GatewayOrderID),
	)
	return order, nil
}

func (s *orderServiceImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	orders, err := s.orderRepo.FindVisible(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to list orders", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) ListUser(ctx context.Context, userID string) ([]*model.Order, error) {
	if userID == "" {
		return nil, apperr.Validation("User id is required")
	}
	orders, err := s.orderRepo.FindVisibleByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to list orders", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	if orderID == "" {
		return nil, apperr.Validation("Order id is required")
	}
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.Validation("Invalid status")
	}

	order, err := s.orderRepo.UpdateStatus(ctx, s.db, orderID, st)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to update order status", err)
	}

	s.publish(ctx, event.OrderStatusChanged, order)
	return order, nil
}
