package state

import (
	"github.com/juju/errors"
	"github.com/temoto/juicebox/internal/inventory"
	"github.com/temoto/juicebox/internal/money"
	"github.com/temoto/juicebox/internal/stat"
	"github.com/temoto/juicebox/log2"
)

// Machine owns everything mutable in one juice machine.
// Constructed explicitly and passed around, there is no global instance.
type Machine struct {
	Config   *Config
	Log      *log2.Log
	Register *money.Register
	Catalog  *inventory.Catalog
	Stat     *stat.Stat
}

// If `NewMachine` fails, returned Machine must not be used.
func NewMachine(log *log2.Log, cfg *Config) (*Machine, error) {
	m := &Machine{
		Config:   cfg,
		Log:      log,
		Register: money.NewRegister(cfg.Money.OpeningBalance, log),
		Stat:     stat.NewStat(),
	}
	var err error
	m.Catalog, err = inventory.NewCatalog(cfg.Products, log)
	if err != nil {
		return nil, errors.Annotate(err, "catalog init")
	}
	m.Stat.SetBalance(m.Register.Balance())
	log.Debugf("machine init %s %s", m.Register.String(), m.Catalog.String())
	return m, nil
}

func MustNewMachine(log *log2.Log, cfg *Config) *Machine {
	m, err := NewMachine(log, cfg)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return m
}

// Error logs err with optional annotation, args[0] is format.
func (m *Machine) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		m.Log.Error(errors.ErrorStack(err))
	}
}
