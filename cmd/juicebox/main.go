package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/juicebox/cmd/juicebox/check"
	"github.com/temoto/juicebox/cmd/juicebox/run"
	"github.com/temoto/juicebox/cmd/juicebox/subcmd"
	"github.com/temoto/juicebox/internal/state"
	"github.com/temoto/juicebox/log2"
)

var modules = []subcmd.Mod{
	run.Mod,
	check.Mod,
}

func main() {
	flagConfig := flag.String("config", "juicebox.hcl", "")
	flagLogLevel := flag.String("log-level", "info", "error|info|debug|all")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] [run|check]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := log2.NewStderr(log2.LInfo)
	level, err := log2.ParseLevel(*flagLogLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)
	if subcmd.SdNotify(log, "start") {
		// we're under systemd, assume systemd journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	command := flag.Arg(0)
	if command == "" {
		command = run.Mod.Name
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	log.Debugf("config=%+v", config)

	ctx := context.WithValue(context.Background(), log2.ContextKey, log)
	if err := mod.Main(ctx, config); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}
