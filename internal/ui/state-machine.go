package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/juju/errors"
)

type State uint32

const (
	StateDefault State = iota

	StateSelectProduct  // +exit=Stop +balance=CheckBalance +outOfStock=SelectProduct +ok=SelectQuantity
	StateCheckBalance   // ->SelectProduct
	StateSelectQuantity // +invalid=SelectQuantity +cancel=confirm +ok=CollectPayment
	StateCollectPayment // +invalid=CollectPayment +cancel=confirm +paid=Commit +attemptsOver=Cancel
	StateCommit         // t=settle,commitSale ->SelectProduct
	StateCancel         // ->SelectProduct

	StateStop
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Default"
	case StateSelectProduct:
		return "SelectProduct"
	case StateCheckBalance:
		return "CheckBalance"
	case StateSelectQuantity:
		return "SelectQuantity"
	case StateCollectPayment:
		return "CollectPayment"
	case StateCommit:
		return "Commit"
	case StateCancel:
		return "Cancel"
	case StateStop:
		return "Stop"
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

func (self *UI) State() State               { return State(atomic.LoadUint32((*uint32)(&self.state))) }
func (self *UI) setState(new State)         { atomic.StoreUint32((*uint32)(&self.state), uint32(new)) }
func (self *UI) XXX_testSetState(new State) { self.setState(new) }

// Loop serves customers until exit is confirmed, ctx is done
// or presentation/invariant failure. Confirmed exit returns nil.
func (self *UI) Loop(ctx context.Context) error {
	next := StateDefault
	for next != StateStop {
		if err := ctx.Err(); err != nil {
			self.log.Debugf("ui loop stopping because ctx err=%v", err)
			return err
		}
		current := self.State()
		var err error
		next, err = self.enter(ctx, current)
		if err != nil {
			return errors.Annotatef(err, "ui state=%s", current.String())
		}
		if next == StateDefault {
			return errors.Errorf("code error ui state=%s next=default", current.String())
		}
		self.exit(ctx, current, next)

		self.setState(next)
		if self.XXX_testHook != nil {
			self.XXX_testHook(next)
		}
	}
	self.log.Debugf("ui loop end")
	return nil
}

func (self *UI) enter(ctx context.Context, s State) (State, error) {
	self.log.Debugf("ui enter %s", s.String())
	switch s {
	case StateSelectProduct:
		return self.onSelectProduct(ctx)

	case StateCheckBalance:
		self.notifyBalance(ctx)
		return StateSelectProduct, nil

	case StateSelectQuantity:
		return self.onSelectQuantity(ctx)

	case StateCollectPayment:
		return self.onCollectPayment(ctx)

	case StateCommit:
		return self.onCommit(ctx)

	case StateCancel:
		self.onCancel(ctx)
		return StateSelectProduct, nil

	case StateStop:
		return StateStop, nil

	default:
		return StateDefault, errors.Errorf("unhandled ui state=%s", s.String())
	}
}

func (self *UI) exit(ctx context.Context, current, next State) {
	self.log.Debugf("ui exit %s -> %s", current.String(), next.String())

	if next == StateSelectProduct || next == StateStop {
		self.tx = nil
	}
}
