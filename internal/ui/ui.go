package ui

import (
	"context"
	"fmt"

	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/internal/state"
	"github.com/temoto/juicebox/internal/types"
	ui_config "github.com/temoto/juicebox/internal/ui/config"
	"github.com/temoto/juicebox/log2"
)

// Notification titles.
const (
	TitleBalance   = "Cash Register Balance"
	TitleOutStock  = "Out of Stock"
	TitleError     = "Error"
	TitleBadQty    = "Invalid Quantity"
	TitleBadPay    = "Invalid Payment"
	TitleShort     = "Insufficient Funds"
	TitleAtLeast   = "Insufficient Payment"
	TitleComplete  = "Transaction Complete"
	TitleCancelled = "Transaction Canceled"
	TitleGoodbye   = "Goodbye"
)

// UI is transaction controller: one customer purchase at a time,
// all interaction goes through Presenter.
type UI struct { //nolint:maligned
	config *ui_config.Config
	m      *state.Machine
	log    *log2.Log
	p      types.Presenter
	state  State
	tx     *Transaction

	XXX_testHook func(State)
}

func NewUI(m *state.Machine, p types.Presenter) *UI {
	self := &UI{
		config: &m.Config.UI,
		m:      m,
		log:    m.Log,
		p:      p,
	}
	self.setState(StateSelectProduct)

	front := &self.config.Front
	if front.MsgSelect == "" {
		front.MsgSelect = "Select a product or check the balance:"
	}
	if front.MsgBalance == "" {
		front.MsgBalance = "The current balance in the register is: %s."
	}
	if front.MsgOutOfStock == "" {
		front.MsgOutOfStock = "Sorry, the selected product is out of stock!"
	}
	if front.MsgInvalidSelection == "" {
		front.MsgInvalidSelection = "Invalid selection."
	}
	if front.MsgInvalidNumber == "" {
		front.MsgInvalidNumber = "Invalid input! Please enter a valid number."
	}
	if front.MsgQuantity == "" {
		front.MsgQuantity = "There are %d items available. How many would you like to purchase?"
	}
	if front.MsgQuantityPositive == "" {
		front.MsgQuantityPositive = "Please enter a positive number."
	}
	if front.MsgQuantityStock == "" {
		front.MsgQuantityStock = "Not enough stock available! Please enter a quantity up to %d"
	}
	if front.MsgDeposit == "" {
		front.MsgDeposit = "Please deposit %s"
	}
	if front.MsgDepositPositive == "" {
		front.MsgDepositPositive = "Please enter a positive amount."
	}
	if front.MsgDepositShort == "" {
		front.MsgDepositShort = "You still need to deposit %s."
	}
	if front.MsgDepositAtLeast == "" {
		front.MsgDepositAtLeast = "Please deposit at least %s."
	}
	if front.MsgChange == "" {
		front.MsgChange = "Thank you! Your change is %s."
	}
	if front.MsgThanks == "" {
		front.MsgThanks = "Thank you for your purchase!"
	}
	if front.MsgCancelled == "" {
		front.MsgCancelled = "Transaction canceled. Returning %s."
	}
	if front.MsgConfirmExit == "" {
		front.MsgConfirmExit = "Are you sure you want to exit?"
	}
	if front.MsgGoodbye == "" {
		front.MsgGoodbye = "Thank you for using the Juice Machine. Goodbye!"
	}
	return self
}

// Transaction returns purchase in progress or nil.
func (self *UI) Transaction() *Transaction { return self.tx }

func (self *UI) money(a currency.Amount) string { return a.FormatUnit(self.m.Config.Money.Unit) }

func (self *UI) notifyf(ctx context.Context, title string, severity types.Severity, format string, args ...interface{}) {
	self.notify(ctx, title, severity, fmt.Sprintf(format, args...))
}

func (self *UI) notify(ctx context.Context, title string, severity types.Severity, msg string) {
	self.log.Debugf("ui notify %s [%s] %s", severity.String(), title, msg)
	self.p.Notify(ctx, title, msg, severity)
}
