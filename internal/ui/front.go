package ui

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/currency"
	"github.com/temoto/juicebox/internal/inventory"
	"github.com/temoto/juicebox/internal/stat"
	"github.com/temoto/juicebox/internal/types"
)

func (self *UI) onSelectProduct(ctx context.Context) (State, error) {
	front := &self.config.Front
	choice, err := self.p.RequestChoice(ctx, front.MsgSelect, self.m.Catalog.Names())
	switch errors.Cause(err) {
	case nil:
	case types.ErrCancelled:
		choice = types.Choice{Kind: types.ChoiceExit}
	case types.ErrInvalidInput:
		self.notify(ctx, TitleError, types.SeverityError, front.MsgInvalidSelection)
		return StateSelectProduct, nil
	default:
		return StateDefault, errors.Annotate(err, "request choice")
	}
	self.log.Debugf("ui choice=%s", choice.String())

	switch choice.Kind {
	case types.ChoiceExit:
		self.notify(ctx, TitleGoodbye, types.SeverityInfo, front.MsgGoodbye)
		return StateStop, nil

	case types.ChoiceCheckBalance:
		return StateCheckBalance, nil

	case types.ChoiceProduct:
		d, err := self.m.Catalog.Get(choice.Index)
		if err != nil {
			self.log.Debugf("ui select err=%v", err)
			self.notify(ctx, TitleError, types.SeverityError, front.MsgInvalidSelection)
			return StateSelectProduct, nil
		}
		if d.Stock() == 0 {
			self.m.Stat.OutOfStock(d.Name)
			self.notify(ctx, TitleOutStock, types.SeverityError, front.MsgOutOfStock)
			return StateSelectProduct, nil
		}
		self.tx = newTransaction(choice.Index, d)
		self.log.Infof("ui begin tx=%s %s", self.tx.ID.String(), d.String())
		return StateSelectQuantity, nil
	}

	self.notify(ctx, TitleError, types.SeverityError, front.MsgInvalidSelection)
	return StateSelectProduct, nil
}

func (self *UI) notifyBalance(ctx context.Context) {
	balance := self.m.Register.Balance()
	self.notifyf(ctx, TitleBalance, types.SeverityInfo, self.config.Front.MsgBalance, self.money(balance))
}

func (self *UI) onSelectQuantity(ctx context.Context) (State, error) {
	front := &self.config.Front
	tx := self.tx
	stock := tx.Product.Stock()
	n, err := self.p.RequestNumber(ctx, fmt.Sprintf(front.MsgQuantity, stock))
	switch errors.Cause(err) {
	case nil:
	case types.ErrInvalidInput:
		self.notify(ctx, TitleError, types.SeverityError, front.MsgInvalidNumber)
		return StateSelectQuantity, nil
	case types.ErrCancelled:
		return self.onCancelSignal(ctx, StateSelectQuantity)
	default:
		return StateDefault, errors.Annotate(err, "request quantity")
	}

	switch {
	case n <= 0:
		self.notify(ctx, TitleBadQty, types.SeverityError, front.MsgQuantityPositive)
		return StateSelectQuantity, nil
	case uint64(n) > uint64(stock):
		self.notifyf(ctx, TitleBadQty, types.SeverityError, front.MsgQuantityStock, stock)
		return StateSelectQuantity, nil
	}

	tx.Quantity = uint32(n)
	tx.Cost, err = tx.Product.Cost(tx.Quantity)
	if err != nil {
		return StateDefault, errors.Annotatef(err, "tx=%s cost", tx.ID.String())
	}
	self.log.Debugf("ui %s", tx.String())
	return StateCollectPayment, nil
}

// onCollectPayment solicits one deposit per call.
func (self *UI) onCollectPayment(ctx context.Context) (State, error) {
	front := &self.config.Front
	payment := &self.config.Payment
	tx := self.tx

	ask := tx.Cost
	if payment.PromptRemaining {
		ask = tx.Remaining()
	}
	n, err := self.p.RequestNumber(ctx, fmt.Sprintf(front.MsgDeposit, self.money(ask)))
	switch errors.Cause(err) {
	case nil:
	case types.ErrInvalidInput:
		self.notify(ctx, TitleBadPay, types.SeverityError, front.MsgInvalidNumber)
		return StateCollectPayment, nil
	case types.ErrCancelled:
		return self.onCancelSignal(ctx, StateCollectPayment)
	default:
		return StateDefault, errors.Annotate(err, "request deposit")
	}
	if n <= 0 {
		self.notify(ctx, TitleBadPay, types.SeverityError, front.MsgDepositPositive)
		return StateCollectPayment, nil
	}
	deposit, err := currency.FromInt(n)
	if err != nil {
		self.log.Debugf("ui deposit=%d err=%v", n, err)
		self.notify(ctx, TitleBadPay, types.SeverityError, front.MsgInvalidNumber)
		return StateCollectPayment, nil
	}

	if payment.PromptRemaining {
		total, err := tx.Deposited.Add(deposit)
		if err != nil {
			self.log.Debugf("ui deposit=%d err=%v", n, err)
			self.notify(ctx, TitleBadPay, types.SeverityError, front.MsgInvalidNumber)
			return StateCollectPayment, nil
		}
		tx.Attempts++
		tx.Deposited = total
		self.log.Debugf("ui deposit=%s %s", deposit.Format100I(), tx.String())
		if tx.Paid() {
			return StateCommit, nil
		}
		self.notifyf(ctx, TitleShort, types.SeverityWarning, front.MsgDepositShort, self.money(tx.Remaining()))
	} else {
		tx.Attempts++
		self.log.Debugf("ui deposit=%s %s", deposit.Format100I(), tx.String())
		if deposit >= tx.Cost {
			tx.Deposited = deposit
			return StateCommit, nil
		}
		self.notifyf(ctx, TitleAtLeast, types.SeverityWarning, front.MsgDepositAtLeast, self.money(tx.Cost))
	}

	if payment.MaxAttempts != 0 && tx.Attempts >= payment.MaxAttempts {
		tx.cancelReason = stat.ReasonUnderpaid
		return StateCancel, nil
	}
	return StateCollectPayment, nil
}

func (self *UI) onCommit(ctx context.Context) (State, error) {
	front := &self.config.Front
	tx := self.tx

	if !tx.Paid() {
		err := errors.Errorf("code error commit underpaid %s", tx.String())
		self.m.Error(err)
		return StateDefault, err
	}
	if tx.Product.Stock() < tx.Quantity {
		err := errors.Annotatef(inventory.ErrInsufficientStock, "commit %s stock=%d", tx.String(), tx.Product.Stock())
		self.m.Error(err)
		return StateDefault, err
	}

	change, err := self.m.Register.Settle(tx.Deposited, tx.Cost)
	if err != nil {
		err = errors.Annotatef(err, "commit %s", tx.String())
		self.m.Error(err)
		return StateDefault, err
	}
	if err := tx.Product.CommitSale(tx.Quantity); err != nil {
		err = errors.Annotatef(err, "commit %s", tx.String())
		self.m.Error(err)
		return StateDefault, err
	}
	self.m.Stat.Sale(tx.Product.Name, tx.Quantity, tx.Cost)
	self.m.Stat.SetBalance(self.m.Register.Balance())
	self.log.Infof("ui sold %s change=%s", tx.String(), change.Format100I())

	if change != 0 {
		self.notifyf(ctx, TitleComplete, types.SeverityInfo, front.MsgChange, self.money(change))
	} else {
		self.notify(ctx, TitleComplete, types.SeverityInfo, front.MsgThanks)
	}
	return StateSelectProduct, nil
}

func (self *UI) onCancel(ctx context.Context) {
	tx := self.tx
	reason := tx.cancelReason
	if reason == "" {
		reason = stat.ReasonUnderpaid
	}
	self.m.Stat.Cancel(reason)
	self.log.Infof("ui cancel reason=%s %s", reason, tx.String())
	self.notifyf(ctx, TitleCancelled, types.SeverityWarning, self.config.Front.MsgCancelled, self.money(tx.Deposited))
}

// onCancelSignal handles user dismissing quantity or deposit prompt.
// Returns `current` when user decided to continue.
func (self *UI) onCancelSignal(ctx context.Context, current State) (State, error) {
	front := &self.config.Front
	if !self.config.ConfirmExit {
		self.tx.cancelReason = stat.ReasonUser
		return StateCancel, nil
	}

	yes, err := self.p.Confirm(ctx, front.MsgConfirmExit)
	switch errors.Cause(err) {
	case nil:
	case types.ErrCancelled, types.ErrInvalidInput:
		yes = false
	default:
		return StateDefault, errors.Annotate(err, "confirm exit")
	}
	if !yes {
		self.log.Debugf("ui exit declined, back to %s", current.String())
		return current, nil
	}

	tx := self.tx
	self.m.Stat.Cancel(stat.ReasonUser)
	self.log.Infof("ui exit %s", tx.String())
	if tx.Deposited != 0 {
		self.notifyf(ctx, TitleCancelled, types.SeverityWarning, front.MsgCancelled, self.money(tx.Deposited))
	}
	self.notify(ctx, TitleGoodbye, types.SeverityInfo, front.MsgGoodbye)
	return StateStop, nil
}
