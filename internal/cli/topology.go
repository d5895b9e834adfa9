package cli

import (
	"github.com/spf13/cobra"

	"github.com/shaiso/sigseg/internal/mq"
)

// NewTopologyCmd создаёт команду вывода топологии.
func NewTopologyCmd(topologyFn func() mq.Topology, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "topology",
		Short: "Show exchange, queue and binding",
		RunE: func(cmd *cobra.Command, args []string) error {
			top := topologyFn()
			out := outputFn()

			if out.jsonMode {
				out.JSON(top)
				return nil
			}
			out.Text(top.Describe())
			return nil
		},
	}
}
