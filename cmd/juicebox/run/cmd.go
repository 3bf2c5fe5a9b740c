// Serve customers on the controlling terminal or stdin pipe.
package run

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/juicebox/cmd/juicebox/subcmd"
	"github.com/temoto/juicebox/helpers"
	"github.com/temoto/juicebox/internal/console"
	"github.com/temoto/juicebox/internal/state"
	"github.com/temoto/juicebox/internal/ui"
	"github.com/temoto/juicebox/log2"
)

var Mod = subcmd.Mod{Name: "run", Main: Main}

// prompts block on input, give up waiting for them after signal
const stopTimeout = 2 * time.Second

func Main(ctx context.Context, config *state.Config) error {
	log := log2.ContextValueLogger(ctx)
	m, err := state.NewMachine(log, config)
	if err != nil {
		return errors.Annotate(err, "machine init")
	}

	a := alive.NewAlive()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigch)
	go func() {
		select {
		case <-a.StopChan():
			return
		case sig := <-sigch:
			log.Infof("signal=%v stopping", sig)
			a.Stop()
		}
		select {
		case <-a.WaitChan():
		case <-time.After(stopTimeout):
			log.Infof("input still blocked after %v, exit", stopTimeout)
			m.Stat.Report(log)
			os.Exit(1)
		}
	}()
	ctx, cancel := helpers.AliveContext(ctx, a)
	defer cancel()

	front := ui.NewUI(m, console.NewStdio(log))
	subcmd.SdNotify(log, daemon.SdNotifyReady)
	log.Infof("juicebox ready %s %s", m.Register.String(), m.Catalog.String())

	var loopErr error
	if a.Add(1) {
		go func() {
			defer a.Done()
			defer a.Stop()
			loopErr = front.Loop(ctx)
		}()
	}
	a.Wait()
	subcmd.SdNotify(log, daemon.SdNotifyStopping)
	m.Stat.Report(log)

	switch errors.Cause(loopErr) {
	case nil, io.EOF, context.Canceled:
		log.Infof("juicebox stop state=%s", front.State().String())
		return nil
	}
	return errors.Annotate(loopErr, "ui loop")
}
