package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvkit/nvm"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <image>",
		Short: "Check that an image holds the manifest defaults",
		Long: `The verify command compares the image with the manifest defaults,
byte for byte, after checking the layout signature. Every differing item is
listed. The command fails if anything differs.

Example:
  nvctl verify eeprom.bin -m board.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

type verifyReport struct {
	Image      string         `json:"image"`
	OK         bool           `json:"ok"`
	Mismatches []nvm.Mismatch `json:"mismatches,omitempty"`
}

func runVerify(args []string) error {
	man, err := openManifest()
	if err != nil {
		return err
	}

	sess, err := openSession(args[0], man, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.mgr.Finalize(nvm.Options{})
	rep := verifyReport{
		Image:      args[0],
		OK:         sess.mgr.VerifyAll(),
		Mismatches: sess.mgr.Diff(),
	}

	if jsonOut {
		if err := printJSON(rep); err != nil {
			return err
		}
	} else {
		for i := range rep.Mismatches {
			printInfo("  %s\n", rep.Mismatches[i].Error())
		}
		if rep.OK {
			printInfo("Image %s matches the manifest defaults\n", rep.Image)
		}
	}

	if !rep.OK {
		return fmt.Errorf("image %s differs from the manifest defaults (%d difference(s))", rep.Image, len(rep.Mismatches))
	}
	return nil
}
