// file: cmd/adfvol/main.go

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amigafs/adfvol/cmd/adfvol/internal/add"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/check"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/create"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/del"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/extract"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/info"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/list"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/mkrm"
	"github.com/amigafs/adfvol/cmd/adfvol/internal/mount"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "adfvol",
		Short: "Read and write Amiga Disk File (ADF) floppy images",
	}

	root.AddCommand(
		newCreateCmd(),
		newInfoCmd(),
		newListCmd(),
		newAddCmd(),
		newExtractCmd(),
		newDeleteCmd(),
		newMkdirCmd(),
		newRmdirCmd(),
		newCheckCmd(),
		newMountCmd(),
	)
	return root
}

func newCreateCmd() *cobra.Command {
	opts := create.DefaultCreateOptions()
	cmd := &cobra.Command{
		Use:   "create <image>",
		Short: "Write a freshly formatted, empty ADF image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return create.Create(args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.Blocks, "size", opts.Blocks, "total blocks in the image")
	cmd.Flags().StringVar(&opts.Name, "name", opts.Name, "volume label")
	cmd.Flags().BoolVar(&opts.FFS, "ffs", opts.FFS, "format as Fast File System instead of OFS")
	return cmd
}

func newInfoCmd() *cobra.Command {
	opts := info.DefaultInfoOptions()
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Show volume name, DOS type, and block usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vi, findings, err := info.Info(args[0], opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(vi)
			}
			variant := "OFS"
			if vi.FFS {
				variant = "FFS"
			}
			fmt.Printf("volume:      %s\n", vi.Name)
			fmt.Printf("variant:     %s\n", variant)
			fmt.Printf("blocks:      %d (%d free, %d used)\n", vi.Blocks, vi.FreeBlocks, vi.UsedBlocks)
			fmt.Printf("bytes:       %d total, %d free, %d used\n", vi.TotalBytes, vi.FreeBytes, vi.UsedBytes)
			for _, f := range findings {
				fmt.Printf("finding:     %v\n", f)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Validate, "validate", opts.Validate, "run the consistency checker")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <image> <dir>",
		Short: "List a directory's contents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := list.List(args[0], args[1])
			if err != nil {
				return err
			}
			for _, e := range entries {
				kind := "file"
				if e.IsDir {
					kind = "dir"
				}
				fmt.Printf("%-4s %10d  %s  %s\n", kind, e.Size, e.ModTime.Format("2006-01-02 15:04:05"), e.Name)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	opts := add.DefaultAddOptions()
	cmd := &cobra.Command{
		Use:   "add <image> <hostfile> <adfpath>",
		Short: "Import a host file into the image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return add.Add(args[0], args[1], args[2], opts)
		},
	}
	return cmd
}

func newExtractCmd() *cobra.Command {
	opts := extract.DefaultExtractOptions()
	cmd := &cobra.Command{
		Use:   "extract <image> <adfpath> <hostfile>",
		Short: "Export a file from the image to the host",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return extract.Extract(args[0], args[1], args[2], opts)
		},
	}
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <image> <adfpath>",
		Short: "Unlink a file from the image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return del.Delete(args[0], args[1])
		},
	}
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <image> <adfpath>",
		Short: "Create a directory in the image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mkrm.Mkdir(args[0], args[1])
		},
	}
}

func newRmdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <image> <adfpath>",
		Short: "Remove an empty directory from the image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mkrm.Rmdir(args[0], args[1])
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <image>",
		Short: "Run the consistency checker and print every finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			findings, err := check.Check(args[0])
			if err != nil {
				return err
			}
			for _, f := range findings {
				fmt.Println(f)
			}
			if len(findings) > 0 {
				return fmt.Errorf("%d consistency finding(s)", len(findings))
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func newMountCmd() *cobra.Command {
	opts := mount.DefaultMountOptions()
	cmd := &cobra.Command{
		Use:   "mount <image> <mountpoint>",
		Short: "Mount the image as a host filesystem via FUSE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mount.Mount(args[0], args[1], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.ReadWrite, "read-write", opts.ReadWrite, "mount read-write instead of read-only")
	cmd.Flags().BoolVar(&opts.Debug, "debug", opts.Debug, "log every FUSE callback")
	return cmd
}
