package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fredbi/symptoms/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := cmd.NewCommand()

	if err := cli.Execute(ctx); err != nil {
		stop()
		cli.Fatalf(err)
	}
}
