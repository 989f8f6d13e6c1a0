package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvkit/nvm"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <image> <name=value>...",
		Short: "Change stored item values",
		Long: `The set command loads the image, assigns the given values and writes
back only the items whose bytes changed. Every assignment is parsed first;
if any is invalid nothing is written. The image must already carry the
manifest's layout signature.

Example:
  nvctl set eeprom.bin -m board.yaml baud=115200 name=kitchen`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

type setResult struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Changed bool   `json:"changed"`
}

func runSet(args []string) error {
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

	// Parse every assignment before storing any.
	pending := make([]*slot, 0, len(args)-1)
	for _, assign := range args[1:] {
		name, value, ok := strings.Cut(assign, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", assign)
		}
		s, found := sess.slot(name)
		if !found {
			return fmt.Errorf("unknown item %q", name)
		}
		if err := s.Set(value); err != nil {
			return fmt.Errorf("item %q: %w", name, err)
		}
		pending = append(pending, s)
	}

	results := make([]setResult, 0, len(pending))
	for _, s := range pending {
		changed := !sess.mgr.Verify(s.item)
		if changed {
			sess.mgr.Store(s.item)
			printVerbose("Stored %s at %#x\n", s.spec.Name, s.item.Addr())
		}
		results = append(results, setResult{Name: s.spec.Name, Value: s.Value(), Changed: changed})
	}

	if err := sess.Close(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(results)
	}
	for _, r := range results {
		status := "unchanged"
		if r.Changed {
			status = "updated"
		}
		printInfo("%s = %s (%s)\n", r.Name, r.Value, status)
	}
	return nil
}
