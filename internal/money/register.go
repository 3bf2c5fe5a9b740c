// Package money keeps the cash register of the machine.
// Overview:
// - controller->money: settle paid amount against cost, get change back
// - service->money: read current balance
// Physical cash (coins, bills, change tubes) is not modelled,
// so change is only a computed amount.
package money

import (
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/log2"
)

type Register struct {
	Log *log2.Log

	lk      sync.Mutex
	balance currency.Amount
}

func NewRegister(opening currency.Amount, log *log2.Log) *Register {
	return &Register{Log: log, balance: opening}
}

// Settle records cost as earned and returns change for tendered amount.
// Insufficient tendered amount is no-op and returns 0.
// Balance overflow is error, balance is unchanged.
func (self *Register) Settle(tendered, cost currency.Amount) (currency.Amount, error) {
	self.lk.Lock()
	defer self.lk.Unlock()

	if tendered < cost {
		self.Log.Errorf("money.settle tendered=%s < cost=%s ignored", tendered.Format100I(), cost.Format100I())
		return 0, nil
	}
	balance, err := self.balance.Add(cost)
	if err != nil {
		return 0, errors.Annotatef(err, "money.settle balance=%s cost=%s", self.balance.Format100I(), cost.Format100I())
	}
	self.balance = balance
	change := tendered - cost
	self.Log.Debugf("money.settle tendered=%s cost=%s change=%s balance=%s",
		tendered.Format100I(), cost.Format100I(), change.Format100I(), self.balance.Format100I())
	return change, nil
}

func (self *Register) Balance() currency.Amount {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.balance
}

func (self *Register) String() string {
	return "register(balance=" + self.Balance().Format100I() + ")"
}
