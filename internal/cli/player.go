package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/anandvarma/namegen"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/courtside/internal/domain/players"
)

const defaultSeedCount = 10

func newPlayerCommand(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "player",
		Aliases: []string{"players"},
		Short:   "Manage the roster",
	}

	add := &cobra.Command{
		Use:   "add <number> <name>",
		Short: "Add a player",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			p, err := get().players.Add(number, name)
			if err != nil {
				return err
			}
			cmd.Printf("added #%d %s (%s)\n", p.Number, p.Name, shortID(p.ID))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List players by jersey number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roster := get().players.List()
			if len(roster) == 0 {
				cmd.Println("no players yet")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tNAME\tID")
			for _, p := range roster {
				fmt.Fprintf(tw, "#%d\t%s\t%s\n", p.Number, p.Name, p.ID)
			}
			return tw.Flush()
		},
	}

	var (
		editNumber int
		editName   string
	)
	edit := &cobra.Command{
		Use:   "edit <player>",
		Short: "Change a player's number or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.resolvePlayer(args[0])
			if err != nil {
				return err
			}
			var patch players.Patch
			if cmd.Flags().Changed("number") {
				if editNumber < 0 {
					return usagef("number must not be negative")
				}
				patch.Number = &editNumber
			}
			if cmd.Flags().Changed("name") {
				name := strings.TrimSpace(editName)
				patch.Name = &name
			}
			if patch.Number == nil && patch.Name == nil {
				return usagef("nothing to change: pass --number or --name")
			}
			updated, err := a.players.Update(p.ID, patch)
			if err != nil {
				return err
			}
			cmd.Printf("updated #%d %s\n", updated.Number, updated.Name)
			return nil
		},
	}
	edit.Flags().IntVar(&editNumber, "number", 0, "new jersey number")
	edit.Flags().StringVar(&editName, "name", "", "new name")

	rm := &cobra.Command{
		Use:     "rm <player>",
		Aliases: []string{"remove"},
		Short:   "Remove a player from the roster",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.resolvePlayer(args[0])
			if err != nil {
				return err
			}
			if err := a.players.Remove(p.ID); err != nil {
				return err
			}
			cmd.Printf("removed #%d %s\n", p.Number, p.Name)
			return nil
		},
	}

	var seedCount int
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Add demo players with generated names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedCount <= 0 {
				return usagef("--count must be positive")
			}
			a := get()
			gen := namegen.NewWithPostfixId([]namegen.DictType{namegen.Adjectives, namegen.Animals}, namegen.Numeric, 2)
			number := 0
			for added := 0; added < seedCount; {
				number++
				if _, taken := a.players.FindByNumber(number); taken {
					continue
				}
				p, err := a.players.Add(number, displayName(gen.Get()))
				if err != nil {
					return err
				}
				cmd.Printf("added #%d %s\n", p.Number, p.Name)
				added++
			}
			return nil
		},
	}
	seed.Flags().IntVar(&seedCount, "count", defaultSeedCount, "number of players to add")

	cmd.AddCommand(add, list, edit, rm, seed)
	return cmd
}

func parseNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if err != nil || n < 0 {
		return 0, usagef("invalid jersey number %q", raw)
	}
	return n, nil
}

// displayName turns a generated handle such as "brave_otter_42" into "Brave Otter 42".
func displayName(handle string) string {
	parts := strings.FieldsFunc(handle, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
