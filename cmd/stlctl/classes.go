package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/stlkit/alloc"
)

var (
	classesConfig string
)

func init() {
	cmd := newClassesCmd()
	cmd.Flags().StringVar(&classesConfig, "config", "default", "Size class configuration (default, wide)")
	rootCmd.AddCommand(cmd)
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Show the size-class table",
		Long: `The classes command prints every pool size class: its index, block
size and the bytes one refill carves from the pool window.

Example:
  stlctl classes
  stlctl classes --config wide
  stlctl classes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
	return cmd
}

// ClassRow describes one size class.
type ClassRow struct {
	Index       int `json:"index"`
	Size        int `json:"size"`
	RefillBytes int `json:"refill_bytes"`
}

// ClassTable is the classes command output.
type ClassTable struct {
	Name          string     `json:"name"`
	Align         int        `json:"align"`
	MaxBytes      int        `json:"max_bytes"`
	RefillObjects int        `json:"refill_objects"`
	Classes       []ClassRow `json:"classes"`
}

func buildClassTable(cfg *alloc.Config) ClassTable {
	table := ClassTable{
		Name:          cfg.Name,
		Align:         cfg.Align,
		MaxBytes:      cfg.MaxBytes,
		RefillObjects: cfg.RefillObjects,
	}
	for i := range cfg.NumClasses() {
		size := cfg.ClassSize(i)
		table.Classes = append(table.Classes, ClassRow{
			Index:       i,
			Size:        size,
			RefillBytes: size * cfg.RefillObjects,
		})
	}
	return table
}

func runClasses() error {
	cfg, err := configByName(classesConfig)
	if err != nil {
		return err
	}
	table := buildClassTable(cfg)

	if jsonOut {
		return printJSON(table)
	}

	printInfo("Size classes (%s): align %d, max %d bytes, refill %d blocks\n",
		table.Name, table.Align, table.MaxBytes, table.RefillObjects)
	for _, row := range table.Classes {
		printInfo("  SC[%2d] %5d B  refill %7d B\n", row.Index, row.Size, row.RefillBytes)
	}
	printVerbose("Requests above %d bytes go to the primary allocator\n", table.MaxBytes)
	return nil
}
