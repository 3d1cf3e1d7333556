package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	"github.com/velora-app/velora-backend/pkg/pagination"
)

// Repository reads billing data for a user. All writes happen in back-office
// tooling, so the repository is read-only on purpose.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	SumByType(ctx context.Context, userID uuid.UUID, transactionType enums.TransactionType) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, params transactionListParams) ([]models.Transaction, *pagination.Cursor, error)
	ListInvoices(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error)
	FindInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type transactionListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) SumByType(ctx context.Context, userID uuid.UUID, transactionType enums.TransactionType) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ? AND type = ?", userID, transactionType).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repositoryImpl) ListTransactions(ctx context.Context, params transactionListParams) ([]models.Transaction, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, nil, err
	}

	if len(transactions) > normalized {
		next := transactions[normalized]
		transactions = transactions[:normalized]
		return transactions, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return transactions, nil, nil
}

func (r *repositoryImpl) ListInvoices(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC, id DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *repositoryImpl) FindInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", invoiceID, userID).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
