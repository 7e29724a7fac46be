package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/choplin/projectdb/internal/model"
)

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage the entries of a project",
	}
	cmd.AddCommand(newEntryListCmd())
	cmd.AddCommand(newEntryGetCmd())
	cmd.AddCommand(newEntryAddCmd())
	cmd.AddCommand(newEntryDeleteCmd())
	return cmd
}

func parseEntryID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q: %w", s, err)
	}
	return uint32(id), nil
}

func newEntryListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list <project>",
		Short: "List the entries of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			a, err := currentApp()
			if err != nil {
				return err
			}

			entries, err := a.svc.Entries(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if format == formatJSON {
				return outputJSON(cmd, entries)
			}
			outputEntriesTable(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func newEntryGetCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <project> <id>",
		Short: "Show a single entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			id, err := parseEntryID(args[1])
			if err != nil {
				return err
			}
			a, err := currentApp()
			if err != nil {
				return err
			}

			entry, err := a.svc.Entry(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("entry %d of project '%s': %w", id, args[0], model.ErrNotFound)
			}

			if format == formatJSON {
				return outputJSON(cmd, entry)
			}
			outputEntry(cmd, *entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func newEntryAddCmd() *cobra.Command {
	var (
		title     string
		body      string
		published bool
	)

	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add an entry to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := currentApp()
			if err != nil {
				return err
			}

			id, err := a.svc.CreateEntry(cmd.Context(), args[0], model.CreateEntry{
				Title:     title,
				Body:      body,
				Published: published,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created entry %d in '%s'\n", id, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Entry title")
	cmd.Flags().StringVar(&body, "body", "", "Entry body")
	cmd.Flags().BoolVar(&published, "published", false, "Mark the entry as published")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEntryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project> <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[1])
			if err != nil {
				return err
			}
			a, err := currentApp()
			if err != nil {
				return err
			}
			if _, err := a.svc.DeleteEntry(cmd.Context(), args[0], id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d from '%s'\n", id, args[0])
			return nil
		},
	}
}
