package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docshuffle/internal/model"
)

func newValidateCmd(a *app) *cobra.Command {
	var dom bool

	cmd := &cobra.Command{
		Use:   "validate file",
		Short: "Check that a document loads against the box schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0], dom)
			if err != nil {
				return err
			}
			if err := a.schema.Check(doc); err != nil {
				return err
			}
			if err := a.schema.CheckRoot(doc); err != nil {
				return err
			}

			counts := map[string]int{}
			model.Descendants(doc, func(n *model.Node, _ int, _ *model.Node, _ int) model.Visit {
				counts[n.Type().Name]++
				return model.Descend()
			})
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"ok: %d parents, %d childparents, %d children, %d text nodes, size %d\n",
				counts["parent"], counts["childparent"], counts["child"], counts["text"], doc.Content().Size())
			return err
		},
	}
	cmd.Flags().BoolVar(&dom, "dom", false, "read the file as rendered editor HTML")

	return cmd
}
