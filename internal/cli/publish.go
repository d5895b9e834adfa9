package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/sigseg/internal/journal"
	"github.com/shaiso/sigseg/internal/mq"
	"github.com/shaiso/sigseg/internal/sigseg"
)

// NewPublishCmd создаёт команду публикации одного сообщения.
func NewPublishCmd(
	publisherFn PublisherFunc,
	journalFn JournalFunc,
	topologyFn func() mq.Topology,
	outputFn func() *Output,
	logger *slog.Logger,
) *cobra.Command {
	var id int
	var poison bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a single message",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := outputFn()

			pub, closePub, err := publisherFn(ctx)
			if err != nil {
				return fmt.Errorf("open publisher: %w", err)
			}
			defer closePub()

			var j journal.Journal = journal.Nop{}
			if journalFn != nil {
				jj, closeJournal, err := journalFn(ctx)
				if err != nil {
					out.Error("journal unavailable, message will not be recorded: " + err.Error())
				} else {
					defer closeJournal()
					j = jj
				}
			}

			producer := sigseg.NewProducer(sigseg.ProducerConfig{
				Publisher: pub,
				Topology:  topologyFn(),
				Delay:     -1,
				Journal:   j,
				Logger:    logger,
			})

			msg := sigseg.Message{ID: id, Sigseg: poison}
			if err := producer.Run(ctx, []sigseg.Message{msg}); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Message %d published (sigseg=%t)", msg.ID, msg.Sigseg))
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Message id (required)")
	cmd.Flags().BoolVar(&poison, "sigseg", false, "Set the fault-trigger flag")
	cmd.MarkFlagRequired("id")

	return cmd
}
