package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvkit/internal/format"
	"github.com/joshuapare/nvkit/layout"
	"github.com/joshuapare/nvkit/nvm"
	"github.com/joshuapare/nvkit/store"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show item offsets and the layout signature",
		Long: `The layout command prints where each manifest item lives in the store,
where the signature goes and how many bytes remain unused.

Example:
  nvctl layout -m board.yaml
  nvctl layout -m board.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
	return cmd
}

type layoutReport struct {
	Size          int        `json:"size"`
	Items         []nvm.Slot `json:"items"`
	Signature     uint16     `json:"signature"`
	SignatureAddr int        `json:"signature_addr"`
	Unused        int        `json:"unused"`
}

func runLayout() error {
	man, err := openManifest()
	if err != nil {
		return err
	}

	// The signature depends only on the layout, so a scratch store suffices.
	mgr := nvm.New(layout.New(), store.NewMemory(man.Size), nvm.Config{})
	if _, err := bindLayout(mgr, man); err != nil {
		return err
	}

	rep := layoutReport{
		Size:          man.Size,
		Items:         mgr.Layout(),
		Signature:     mgr.Registry().Finalize(),
		SignatureAddr: mgr.SignatureAddr(),
		Unused:        man.Size - mgr.SignatureAddr() - format.SignatureSize,
	}
	if rep.Unused < 0 {
		return fmt.Errorf("%w: need %d bytes, store has %d", format.ErrLayoutTooLarge, man.Size-rep.Unused, man.Size)
	}

	if jsonOut {
		return printJSON(rep)
	}

	printInfo("%-20s %8s %6s\n", "NAME", "ADDR", "SIZE")
	for _, s := range rep.Items {
		printInfo("%-20s %#08x %6d\n", s.Name, s.Addr, s.Size)
	}
	printInfo("\nSignature: 0x%04X at %#x\n", rep.Signature, rep.SignatureAddr)
	printInfo("Unused:    %d of %d bytes\n", rep.Unused, rep.Size)
	return nil
}
