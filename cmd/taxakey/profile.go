package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taxakey/internal/key"
)

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile KEYFILE ENTITY_ID",
		Short: "Print an entity's characteristic profile",
		Args:  cobra.ExactArgs(2),
		RunE:  runProfile,
	}
}

func runProfile(cmd *cobra.Command, args []string) error {
	k, err := loadKeyFile(args[0])
	if err != nil {
		return err
	}
	defer k.Close()

	profile, ok := k.Profiles[key.EntityID(args[1])]
	if !ok {
		return fmt.Errorf("entity not found: %s", args[1])
	}

	fmt.Fprintln(os.Stdout, profile.Name)
	if len(profile.Characteristics) == 0 {
		fmt.Fprintln(os.Stdout, "  (no scored characteristics)")
		return nil
	}

	// Characteristics keep document order; print them grouped, first
	// occurrence of each group decides its position.
	var groups []string
	byGroup := map[string][]key.Characteristic{}
	for _, c := range profile.Characteristics {
		if _, ok := byGroup[c.Group]; !ok {
			groups = append(groups, c.Group)
		}
		byGroup[c.Group] = append(byGroup[c.Group], c)
	}

	for _, group := range groups {
		fmt.Fprintf(os.Stdout, "  %s:\n", group)
		for _, c := range byGroup[group] {
			line := "    - " + c.Text
			if c.Score != "" && c.Score != "1" {
				line += " (code " + c.Score + ")"
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}
	return nil
}
