package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// saleNumberAttempts bounds regeneration when a transaction number collides
// with the unique index.
const saleNumberAttempts = 3

type SaleLineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CreateSaleRequest struct {
	Items         []SaleLineInput     `json:"items" validate:"dive"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash transfer ewallet"`
	PaymentAmount decimal.Decimal     `json:"payment_amount"`
	Notes         *string             `json:"notes"`
}

type SaleService interface {
	CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Transaction, error)
	GetAllTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type saleService struct {
	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	now          func() time.Time
	rnd          *rand.Rand
	rndMu        sync.Mutex
}

// NewSaleService wires the checkout workflow. The clock and random source
// are injected so transaction numbers are deterministic under test; pass
// nil for production defaults.
func NewSaleService(
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	mRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
	now func() time.Time,
	rnd *rand.Rand,
) SaleService {
	if now == nil {
		now = time.Now
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &saleService{
		productRepo:  pRepo,
		txRepo:       tRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
		now:          now,
		rnd:          rnd,
	}
}

// CreateSale validates a multi-line order against catalog state, persists
// the transaction with its line items, decrements stock for every line and
// appends one ledger row per line. All of it runs in a single storage
// transaction so a failure anywhere leaves nothing behind.
func (s *saleService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*model.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if !req.PaymentAmount.IsPositive() {
		return nil, fmt.Errorf("%w: payment_amount must be greater than zero", validator.ErrValidation)
	}

	products, err := s.loadProducts(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Validate lines in order with a running per-product demand so a
	// product appearing on multiple lines is checked cumulatively, not
	// against a stale snapshot.
	demand := make(map[uuid.UUID]int, len(products))
	totalAmount := decimal.Zero
	items := make([]model.TransactionItem, 0, len(req.Items))
	for _, line := range req.Items {
		product := products[line.ProductID]
		if !product.IsActive {
			return nil, fmt.Errorf("product %s: %w", product.Name, model.ErrProductInactive)
		}
		demand[line.ProductID] += line.Quantity
		if demand[line.ProductID] > product.StockQuantity {
			return nil, fmt.Errorf("product %s: %w", product.Name, model.ErrInsufficientStock)
		}

		totalPrice := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		totalAmount = totalAmount.Add(totalPrice)
		items = append(items, model.TransactionItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			TotalPrice:  totalPrice,
		})
	}

	paymentAmount := req.PaymentAmount
	changeAmount := decimal.Zero
	if req.PaymentMethod == model.PaymentCash {
		if req.PaymentAmount.GreaterThan(totalAmount) {
			changeAmount = req.PaymentAmount.Sub(totalAmount)
		}
	} else {
		// Non-cash payments settle exactly; the charged amount is the total.
		paymentAmount = totalAmount
	}

	var transaction *model.Transaction
	for attempt := 0; attempt < saleNumberAttempts; attempt++ {
		transaction = &model.Transaction{
			TransactionNumber: s.generateTransactionNumber(),
			TotalAmount:       totalAmount,
			PaymentMethod:     req.PaymentMethod,
			PaymentAmount:     paymentAmount,
			ChangeAmount:      changeAmount,
			Status:            model.TxCompleted,
			Notes:             req.Notes,
			Items:             items,
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.txRepo.Create(tx, transaction); err != nil {
				return err
			}
			for i := range transaction.Items {
				item := &transaction.Items[i]
				if err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
				note := fmt.Sprintf("sale %s", transaction.TransactionNumber)
				movement := &model.StockMovement{
					ProductID:     item.ProductID,
					MovementType:  model.MovementOut,
					Quantity:      -item.Quantity,
					ReferenceType: model.RefTransaction,
					ReferenceID:   &transaction.ID,
					Notes:         &note,
				}
				if err := s.movementRepo.Append(tx, movement); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		// Number collided with the unique index; reset IDs and try a
		// fresh one.
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].TransactionID = uuid.Nil
		}
	}
	if err != nil {
		return nil, err
	}

	logger.Get().Info("sale completed",
		zap.String("transaction_number", transaction.TransactionNumber),
		zap.String("total_amount", transaction.TotalAmount.String()),
		zap.Int("lines", len(transaction.Items)),
	)

	if s.wsHub != nil {
		go s.broadcastSale(transaction, products, demand)
	}

	return transaction, nil
}

// loadProducts resolves every referenced product once, failing if any line
// points at a product that does not exist.
func (s *saleService) loadProducts(ctx context.Context, lines []SaleLineInput) (map[uuid.UUID]*model.Product, error) {
	products := make(map[uuid.UUID]*model.Product, len(lines))
	for _, line := range lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, fmt.Errorf("product %s: %w", line.ProductID, model.ErrNotFound)
			}
			return nil, err
		}
		products[line.ProductID] = product
	}
	return products, nil
}

// generateTransactionNumber combines a second-resolution timestamp with a
// random suffix. The unique index on transaction_number backstops the
// negligible collision window.
func (s *saleService) generateTransactionNumber() string {
	s.rndMu.Lock()
	suffix := s.rnd.Intn(10000)
	s.rndMu.Unlock()
	return fmt.Sprintf("TRX-%s-%04d", s.now().Format("20060102-150405"), suffix)
}

func (s *saleService) broadcastSale(transaction *model.Transaction, products map[uuid.UUID]*model.Product, demand map[uuid.UUID]int) {
	stock := make([]map[string]interface{}, 0, len(demand))
	for id, sold := range demand {
		product := products[id]
		stock = append(stock, map[string]interface{}{
			"product_id": id,
			"name":       product.Name,
			"new_stock":  product.StockQuantity - sold,
		})
	}
	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_completed",
		"transaction": map[string]interface{}{
			"id":                 transaction.ID,
			"transaction_number": transaction.TransactionNumber,
			"total_amount":       transaction.TotalAmount,
		},
		"products": stock,
	})
}

func (s *saleService) GetAllTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.txRepo.FindAll(ctx, filter)
}

func (s *saleService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(ctx, id)
}
