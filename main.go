package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/ledger-sync/cmd/accounts"
	"fjacquet/ledger-sync/cmd/categorize"
	"fjacquet/ledger-sync/cmd/root"
	synccmd "fjacquet/ledger-sync/cmd/sync"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(synccmd.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(accounts.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
