package inventory

import (
	"fmt"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/currency"
)

var (
	ErrInsufficientStock = errors.New("Not enough items in stock")
	ErrInvalidQuantity   = errors.New("Sale quantity must be positive")
)

// Dispenser holds stock and unit price of one product.
type Dispenser struct {
	Name string

	lk    sync.Mutex
	stock uint32
	price currency.Amount
}

func NewDispenser(name string, stock uint32, price currency.Amount) (*Dispenser, error) {
	if name == "" {
		return nil, errors.Errorf("product name=(empty) is invalid")
	}
	if price == 0 {
		return nil, errors.Errorf("product=%s price=0 is invalid", name)
	}
	return &Dispenser{Name: name, stock: stock, price: price}, nil
}

func (self *Dispenser) Stock() uint32 {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.stock
}

func (self *Dispenser) Price() currency.Amount { return self.price }

func (self *Dispenser) Cost(quantity uint32) (currency.Amount, error) {
	cost, err := self.price.Mul(quantity)
	return cost, errors.Annotatef(err, "product=%s cost quantity=%d", self.Name, quantity)
}

// CommitSale decreases stock. Caller must validate quantity against Stock() first,
// any error here means the caller broke that contract.
func (self *Dispenser) CommitSale(quantity uint32) error {
	self.lk.Lock()
	defer self.lk.Unlock()

	if quantity == 0 {
		return errors.Annotatef(ErrInvalidQuantity, "product=%s", self.Name)
	}
	if quantity > self.stock {
		return errors.Annotatef(ErrInsufficientStock, "product=%s stock=%d quantity=%d", self.Name, self.stock, quantity)
	}
	self.stock -= quantity
	return nil
}

func (self *Dispenser) String() string {
	return fmt.Sprintf("product(name=%s stock=%d price=%s)", self.Name, self.Stock(), self.price.Format100I())
}
