package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-mission/internal/config"
	"github.com/litescript/ls-mission/internal/control"
	"github.com/litescript/ls-mission/internal/logging"
	"github.com/litescript/ls-mission/internal/mission"
	"github.com/litescript/ls-mission/internal/ui"
	"github.com/litescript/ls-mission/internal/version"
)

// app carries the global flags and the center built from them.
type app struct {
	configPath string
	root       string
	logLevel   string

	logOut io.Writer
	center *control.Center
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{logOut: logOut}

	root := &cobra.Command{
		Use:   "ls-mission",
		Short: "Mission control centre for local mission data",
		Long: `ls-mission reads the on-board log, the mission catalog and the telemetry
feed from a data directory and prints formatted reports.

Without a subcommand it opens the interactive control centre.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runMenu,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ./"+config.DefaultPath+" when present)")
	flags.StringVar(&a.root, "root", "", "Data directory (overrides config)")
	flags.StringVarP(&a.logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Open the interactive control centre",
			Args:  cobra.NoArgs,
			RunE:  a.runMenu,
		},
		a.reportCmd("journal", "Extract alert lines from the on-board log", func(w io.Writer) error {
			return a.center.Journal(w)
		}),
		a.reportCmd("explore", "List the data directory and create the report and archive directories", func(w io.Writer) error {
			return a.center.Explore(w)
		}),
		a.reportCmd("missions", "Show the mission catalog and its totals", func(w io.Writer) error {
			return a.center.Missions(w)
		}),
		a.reportCmd("telemetry", "Show the telemetry feed", func(w io.Writer) error {
			return a.center.Telemetry(w)
		}),
		a.reportCmd("archive", "Archive the on-board log under today's date", func(w io.Writer) error {
			_, err := a.center.Archive(w)
			return err
		}),
		a.missionCmd(),
		a.navCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			// No config needed.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "ls-mission %s\n", version.Version)
			},
		},
	)
	return root
}

// setup resolves the configuration (defaults, file, environment, flags) and
// builds the control center.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = a.root
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	logger.SetOutput(a.logOut)
	logger.Debug("Data root: %s", cfg.Root)

	a.center = control.New(cfg, logger)
	return nil
}

func (a *app) reportCmd(use, short string, fn func(io.Writer) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fn(cmd.OutOrStdout())
		},
	}
}

// runMenu starts the Bubble Tea program on a terminal and the plain prompt
// loop otherwise.
func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	menu := ui.ControlCentre(a.center)

	interactive := cmd.InOrStdin() == os.Stdin && cmd.OutOrStdout() == os.Stdout &&
		term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		return ui.RunLines(cmd.InOrStdin(), cmd.OutOrStdout(), menu)
	}

	p := tea.NewProgram(ui.New(menu), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running control centre: %w", err)
	}
	// Leave the last report on the normal screen.
	if m, ok := final.(ui.Model); ok && m.Output() != "" {
		fmt.Fprint(cmd.OutOrStdout(), m.Output())
	}
	return nil
}

func (a *app) missionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Edit the mission catalog",
	}

	var (
		id, name, destination string
		days, budget          float64
		crew                  []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a mission to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.center.AddMission(cmd.OutOrStdout(), mission.Mission{
				ID:                mission.ParseID(id),
				Name:              name,
				Destination:       destination,
				DurationDays:      days,
				Crew:              mission.NewCrew(crew...),
				BudgetMillionsUSD: budget,
			})
		},
	}
	add.Flags().StringVar(&id, "id", "", "Mission id (numeric ids are stored as numbers)")
	add.Flags().StringVar(&name, "name", "", "Mission name")
	add.Flags().StringVar(&destination, "destination", "", "Destination body")
	add.Flags().Float64Var(&days, "days", 0, "Duration in days")
	add.Flags().StringSliceVar(&crew, "crew", nil, "Crew members, comma separated")
	add.Flags().Float64Var(&budget, "budget", 0, "Budget in millions of USD")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("name")

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove every mission with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.center.RemoveMission(cmd.OutOrStdout(), mission.ParseID(args[0]))
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func (a *app) navCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Navigation calculations",
	}

	distance := &cobra.Command{
		Use:   "distance BODY BODY",
		Short: "Distance between two bodies in millions of km",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.center.Distance(cmd.OutOrStdout(), args[0], args[1])
			return err
		},
	}

	travel := &cobra.Command{
		Use:   "travel DISTANCE_MKM SPEED_KM_S",
		Short: "Travel time in days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist, err := parseFloat("distance", args[0])
			if err != nil {
				return err
			}
			speed, err := parseFloat("speed", args[1])
			if err != nil {
				return err
			}
			_, err = a.center.TravelTime(cmd.OutOrStdout(), dist, speed)
			return err
		},
	}

	var (
		gravity float64
		body    string
	)
	weight := &cobra.Command{
		Use:   "weight MASS_KG",
		Short: "Weight in newtons under a gravity or on a body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mass, err := parseFloat("mass", args[0])
			if err != nil {
				return err
			}
			if body != "" {
				_, err = a.center.WeightOn(cmd.OutOrStdout(), mass, body)
				return err
			}
			a.center.Weight(cmd.OutOrStdout(), mass, gravity)
			return nil
		},
	}
	weight.Flags().Float64Var(&gravity, "gravity", 0, "Surface gravity in m/s²")
	weight.Flags().StringVar(&body, "body", "", "Body name from the dataset")
	weight.MarkFlagsMutuallyExclusive("gravity", "body")
	weight.MarkFlagsOneRequired("gravity", "body")

	cmd.AddCommand(distance, travel, weight)
	return cmd
}

func parseFloat(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return v, nil
}
