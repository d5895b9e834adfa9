// Sigseg CLI — инструмент командной строки демонстрации.
//
// Использование:
//
//	sigseg [--rabbitmq-url URL] [--json] <command> [flags]
//
// Команды:
//
//	topology  Описание exchange/queue/binding
//	publish   Публикация одного сообщения
//	report    Сводка журнала по message id
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/sigseg/internal/cli"
	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
	"github.com/shaiso/sigseg/internal/sigseg"
	"github.com/shaiso/sigseg/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var mqURL string
	var jsonOutput bool

	logger := telemetry.NewLogger(os.Stderr, "text", telemetry.LogLevel())

	defaultURL := os.Getenv("RABBITMQ_URL")
	if defaultURL == "" {
		defaultURL = mq.DefaultURL
	}

	rootCmd := &cobra.Command{
		Use:           "sigseg",
		Short:         "sigseg CLI — poison message demonstration tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&mqURL, "rabbitmq-url", defaultURL, "RabbitMQ URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	topologyFn := mq.DefaultTopology
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	publisherFn := func(ctx context.Context) (sigseg.Publisher, func(), error) {
		conn, err := mq.NewConnection(mq.ConnectionConfig{URL: mqURL, Confirm: true}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := topologyFn().Declare(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return mq.NewPublisher(conn, logger), func() { conn.Close() }, nil
	}

	journalFn := func(ctx context.Context) (journal.Journal, func(), error) {
		pool, err := journal.NewPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		pg := journal.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	}

	rootCmd.AddCommand(
		cli.NewTopologyCmd(topologyFn, outputFn),
		cli.NewPublishCmd(publisherFn, journalFn, topologyFn, outputFn, logger),
		cli.NewReportCmd(journalFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
