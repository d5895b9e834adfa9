package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/sigseg/internal/journal"
)

// NewReportCmd создаёт команду сводки по журналу.
func NewReportCmd(journalFn JournalFunc, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize sent and received messages from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			j, closeJournal, err := journalFn(cmd.Context())
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer closeJournal()

			entries, err := j.List(cmd.Context())
			if err != nil {
				return err
			}

			outcomes := journal.Summarize(entries)

			headers := []string{"ID", "SIGSEG", "SENT", "RECEIVED", "STATUS"}
			rows := make([][]string, len(outcomes))
			for i, o := range outcomes {
				rows[i] = []string{
					strconv.Itoa(o.MessageID),
					strconv.FormatBool(o.Sigseg),
					strconv.Itoa(o.Sent),
					strconv.Itoa(o.Received),
					string(o.Status),
				}
			}

			out.Print(headers, rows, outcomes)
			return nil
		},
	}
}
