package service

import (
	"context"

	"bizledger/internal/model"
	"bizledger/internal/repository"

	"github.com/shopspring/decimal"
)

type BankTransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=Deposit Withdrawal"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date" binding:"omitempty,isodate"`
}

type BankService interface {
	ListTransactions(ctx context.Context) ([]model.BankTransaction, error)
	AddTransaction(ctx context.Context, req BankTransactionRequest) (*model.BankTransaction, error)
	RemoveTransaction(ctx context.Context, id string) error
	Balance(ctx context.Context) (decimal.Decimal, error)
}

type bankService struct {
	transactions repository.Collection[model.BankTransaction]
	txManager    repository.TransactionManager
	now          Clock
}

func NewBankService(transactions repository.Collection[model.BankTransaction], txManager repository.TransactionManager, now Clock) BankService {
	return &bankService{transactions: transactions, txManager: txManager, now: orNow(now)}
}

func (s *bankService) ListTransactions(ctx context.Context) ([]model.BankTransaction, error) {
	return s.transactions.All(ctx)
}

func (s *bankService) AddTransaction(ctx context.Context, req BankTransactionRequest) (*model.BankTransaction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	date, err := dateOrToday(req.Date, s.now)
	if err != nil {
		return nil, err
	}

	tx := &model.BankTransaction{
		TxID:        model.NewID(model.PrefixBankTransaction),
		Date:        date,
		Type:        req.Type,
		Amount:      req.Amount.Round(2),
		Description: req.Description,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.transactions.Append(txCtx, tx)
	}, model.TableBankTransactions)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *bankService) RemoveTransaction(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.transactions.Remove(txCtx, id)
	}, model.TableBankTransactions)
}

// Balance is deposits minus withdrawals
func (s *bankService) Balance(ctx context.Context) (decimal.Decimal, error) {
	txs, err := s.transactions.All(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case model.BankDeposit:
			balance = balance.Add(t.Amount)
		case model.BankWithdrawal:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance, nil
}
