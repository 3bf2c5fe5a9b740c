// Validate config and sell one item on a scratch machine.
package check

import (
	"context"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/cmd/juicebox/subcmd"
	"github.com/temoto/juicebox/internal/inventory"
	"github.com/temoto/juicebox/internal/state"
	"github.com/temoto/juicebox/internal/types"
	"github.com/temoto/juicebox/internal/ui"
	"github.com/temoto/juicebox/log2"
)

var Mod = subcmd.Mod{Name: "check", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	log := log2.ContextValueLogger(ctx)
	m, err := state.NewMachine(log, config)
	if err != nil {
		return errors.Annotate(err, "machine init")
	}
	log.Infof("config ok %s unit=%s max_attempts=%d prompt_remaining=%t confirm_exit=%t",
		m.Register.String(), config.Money.Unit,
		config.UI.Payment.MaxAttempts, config.UI.Payment.PromptRemaining, config.UI.ConfirmExit)
	m.Catalog.Iter(func(i int, d *inventory.Dispenser) {
		log.Infof("%d %s", i+1, d.String())
	})
	return DryRun(ctx, log, config)
}

// DryRun sells one item of first stocked product on a fresh machine from config.
func DryRun(ctx context.Context, log *log2.Log, config *state.Config) error {
	m, err := state.NewMachine(log.Clone(log2.LError), config)
	if err != nil {
		return errors.Annotate(err, "dry run machine init")
	}
	index := -1
	var d *inventory.Dispenser
	m.Catalog.Iter(func(i int, p *inventory.Dispenser) {
		if index < 0 && p.Stock() != 0 {
			index, d = i, p
		}
	})
	if d == nil {
		log.Infof("dry run skipped: all products out of stock")
		return nil
	}

	stock, balance := d.Stock(), m.Register.Balance()
	p := types.NewMockPresenter(
		types.MockPick(index),
		types.MockNum(1),
		types.MockNum(int(d.Price())),
		types.MockExit(),
	)
	if err := ui.NewUI(m, p).Loop(ctx); err != nil {
		return errors.Annotatef(err, "dry run transcript:\n%s\n", p.Transcript())
	}
	if d.Stock() != stock-1 || m.Register.Balance() != balance+d.Price() {
		return errors.Errorf("dry run product=%s stock=%d->%d balance=%d->%d transcript:\n%s",
			d.Name, stock, d.Stock(), balance, m.Register.Balance(), p.Transcript())
	}
	log.Infof("dry run ok product=%s", d.Name)
	return nil
}
