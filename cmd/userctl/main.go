// userctl is an interactive terminal client for the user API.
//
// Usage:
//
//	userctl -server http://127.0.0.1:8080
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"go-user-api/internal/client"
	"go-user-api/internal/client/cli"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "base URL of the user API")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(client.New(*server), os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "userctl:", err)
		os.Exit(1)
	}
}
