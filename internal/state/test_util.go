package state

import (
	"testing"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/log2"
)

func NewTestMachine(t testing.TB, confString string) *Machine {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	log.SetFlags(log2.LTestFlags)
	cfg, err := ReadConfig(log, fs, "test-inline")
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	m, err := NewMachine(log, cfg)
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	return m
}
