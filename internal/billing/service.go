package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/pagination"
)

// Service exposes the read-only billing surface for the authenticated user.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (*BalanceDTO, error)
	Transactions(ctx context.Context, params TransactionListParams) (*TransactionListResult, error)
	Invoices(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error)
	Invoice(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error)
}

type service struct {
	repo Repository
}

// BalanceDTO reports the user's balance with its components.
type BalanceDTO struct {
	Balance  decimal.Decimal `json:"balance"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Currency string          `json:"currency"`
}

// TransactionListParams configures pagination for transactions.
type TransactionListParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor string
}

// TransactionListResult wraps transactions and the cursor for the next page.
type TransactionListResult struct {
	Items  []models.Transaction `json:"items"`
	Cursor string               `json:"cursor"`
}

// NewService wires billing dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "billing repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (*BalanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	income, err := s.repo.SumByType(ctx, userID, enums.TransactionTypeIncome)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum income")
	}
	expenses, err := s.repo.SumByType(ctx, userID, enums.TransactionTypeExpense)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum expenses")
	}

	return &BalanceDTO{
		Balance:  income.Sub(expenses),
		Income:   income,
		Expenses: expenses,
		Currency: "EUR",
	}, nil
}

func (s *service) Transactions(ctx context.Context, params TransactionListParams) (*TransactionListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := transactionListParams{UserID: params.UserID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListTransactions(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &TransactionListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Invoices(ctx context.Context, userID uuid.UUID) ([]models.Invoice, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	invoices, err := s.repo.ListInvoices(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	return invoices, nil
}

func (s *service) Invoice(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	if invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id required")
	}
	invoice, err := s.repo.FindInvoice(ctx, userID, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return invoice, nil
}
