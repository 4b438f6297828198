package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nextbus.dev/nextbus"
	"nextbus.dev/nextbus/parse"
)

var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Loads a GTFS Static timetable into the database",
	Long: "Loads the GTFS files in dir into the database, replacing any " +
		"previous timetable. With --static-url and no dir, the archive is " +
		"downloaded and unpacked first.",
	Args: cobra.MaximumNArgs(1),
	RunE: load,
}

var staticDir string

func init() {
	loadCmd.Flags().StringVarP(&staticDir, "dir", "", "gtfs-static", "Directory for downloaded GTFS files")
	rootCmd.AddCommand(loadCmd)
}

func load(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		return parse.LoadStatic(store, args[0])
	}

	if staticURL == "" {
		return fmt.Errorf("need a directory argument or --static-url")
	}

	manager := nextbus.NewManager(store)

	if err := manager.RefreshStatic(cmd.Context(), staticURL, staticDir); err != nil {
		return err
	}

	fmt.Printf("loaded %s into %s\n", staticURL, staticDir)

	return nil
}
