package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvkit/nvm"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Print the stored value of every item",
		Long: `The dump command loads every item from the image and prints it. The
image must carry the manifest's layout signature; otherwise nothing is loaded.

Example:
  nvctl dump eeprom.bin -m board.yaml
  nvctl dump eeprom.bin -m board.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

type dumpEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Addr  int    `json:"addr"`
	Size  int    `json:"size"`
	Value string `json:"value"`
}

func runDump(args []string) error {
	man, err := openManifest()
	if err != nil {
		return err
	}

	sess, err := openSession(args[0], man, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	if !sess.mgr.Finalize(nvm.Options{RetrieveIfValid: true}) {
		return fmt.Errorf("image %s does not match the manifest layout (run init first)", args[0])
	}

	entries := make([]dumpEntry, 0, len(sess.slots))
	for _, s := range sess.slots {
		entries = append(entries, dumpEntry{
			Name:  s.spec.Name,
			Type:  s.spec.Type,
			Addr:  s.item.Addr(),
			Size:  s.item.Size(),
			Value: s.Value(),
		})
	}

	if jsonOut {
		return printJSON(entries)
	}

	for _, e := range entries {
		printInfo("%-20s %-6s %#06x  %s\n", e.Name, e.Type, e.Addr, e.Value)
	}
	return nil
}
