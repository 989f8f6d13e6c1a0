package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nvkit/nvm"
)

var (
	initNoStore     bool
	initStoreAlways bool
	initWipe        bool
)

func init() {
	cmd := newInitCmd()
	cmd.Flags().BoolVar(&initNoStore, "no-store", false, "Only check the signature, never write")
	cmd.Flags().BoolVar(&initStoreAlways, "store-always", false, "Write defaults even if the image is valid")
	cmd.Flags().BoolVar(&initWipe, "wipe", false, "Erase unused bytes after the signature when storing")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <image>",
		Short: "Create or validate an image, writing defaults when needed",
		Long: `The init command runs the start-up sequence against an image: it
computes the layout signature, compares it with the image, and writes the
manifest defaults plus the signature when they differ. The image is created
(erased to 0xFF) if it does not exist.

Flags given on the command line override the manifest's finalize section.

Example:
  nvctl init eeprom.bin -m board.yaml
  nvctl init eeprom.bin -m board.yaml --store-always --wipe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args)
		},
	}
	return cmd
}

type initReport struct {
	Image        string `json:"image"`
	Valid        bool   `json:"valid"`
	Signature    uint16 `json:"signature"`
	BytesWritten int    `json:"bytes_written"`
}

func runInit(cmd *cobra.Command, args []string) error {
	if initNoStore && initStoreAlways {
		return errors.New("--no-store and --store-always cannot be combined")
	}

	man, err := openManifest()
	if err != nil {
		return err
	}

	opts := nvm.Options{
		StoreIfInvalid:  man.Finalize.StoreIfInvalid,
		StoreAlways:     man.Finalize.StoreAlways,
		WipeUnusedAreas: man.Finalize.WipeUnusedAreas,
	}
	if cmd != nil {
		if cmd.Flags().Changed("no-store") {
			opts.StoreIfInvalid = !initNoStore
			opts.StoreAlways = opts.StoreAlways && !initNoStore
		}
		if cmd.Flags().Changed("store-always") {
			opts.StoreAlways = initStoreAlways
		}
		if cmd.Flags().Changed("wipe") {
			opts.WipeUnusedAreas = initWipe
		}
	}

	sess, err := openSession(args[0], man, !initNoStore)
	if err != nil {
		return err
	}
	defer sess.Close()

	valid := sess.mgr.Finalize(opts)
	rep := initReport{
		Image:        args[0],
		Valid:        valid,
		Signature:    sess.mgr.Registry().Signature(),
		BytesWritten: sess.bytesWritten(),
	}
	if err := sess.Close(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rep)
	}

	if valid {
		printInfo("Image %s matches layout (signature 0x%04X)\n", rep.Image, rep.Signature)
	} else {
		printInfo("Image %s did not match layout (signature 0x%04X)\n", rep.Image, rep.Signature)
	}
	printInfo("Bytes written: %d\n", rep.BytesWritten)
	return nil
}
