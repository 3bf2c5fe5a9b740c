package ui

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/internal/inventory"
)

// Transaction lives from product selection until commit or cancel.
type Transaction struct {
	ID        uuid.UUID
	Index     int
	Product   *inventory.Dispenser
	Quantity  uint32
	Cost      currency.Amount
	Deposited currency.Amount
	Attempts  int

	cancelReason string
}

func newTransaction(index int, d *inventory.Dispenser) *Transaction {
	return &Transaction{
		ID:      uuid.New(),
		Index:   index,
		Product: d,
	}
}

func (tx *Transaction) Remaining() currency.Amount { return tx.Cost.Sub(tx.Deposited) }
func (tx *Transaction) Paid() bool                 { return tx.Cost != 0 && tx.Deposited >= tx.Cost }

func (tx *Transaction) String() string {
	return fmt.Sprintf("tx=%s product=%s quantity=%d cost=%s deposited=%s attempts=%d",
		tx.ID.String(), tx.Product.Name, tx.Quantity, tx.Cost.Format100I(), tx.Deposited.Format100I(), tx.Attempts)
}
