package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"okr/internal/bootstrap"
	"okr/internal/modules/okr/dto"
	"okr/internal/platform/config"
	"okr/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir string
	backend string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "okr",
		Short:         "Track objectives and key results from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", defaultDataDir(), "data directory")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: file|sqlite (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newObjectiveCmd(opts))
	root.AddCommand(newKeyResultCmd(opts))
	root.AddCommand(newDashboardCmd(opts))
	return root
}

func defaultDataDir() string {
	if v := os.Getenv("OKR_DATA"); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".okr")
	}
	return ".okr"
}

// withApp builds the application for one command run and tears it down
// afterwards.
func withApp(opts *rootOptions, run func(app *bootstrap.App) error) error {
	_ = godotenv.Load()

	cfg, err := config.Load(opts.dataDir)
	if err != nil {
		return err
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()
	return run(app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, bootstrap.RunTUI)
		},
	}
}

type objectiveFlags struct {
	title       string
	description string
	category    string
	timeframe   string
	start       string
	end         string
	keyResults  []string
}

func (f *objectiveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "objective title")
	cmd.Flags().StringVar(&f.description, "description", "", "objective description")
	cmd.Flags().StringVar(&f.category, "category", "", "category: Business|Product|Engineering|Marketing|Personal")
	cmd.Flags().StringVar(&f.timeframe, "timeframe", "", "pre-fill dates: monthly|quarterly|yearly")
	cmd.Flags().StringVar(&f.start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "end date YYYY-MM-DD")
}

func newObjectiveCmd(opts *rootOptions) *cobra.Command {
	objective := &cobra.Command{Use: "objective", Aliases: []string{"obj"}, Short: "Manage objectives"}

	addFlags := &objectiveFlags{}
	add := &cobra.Command{
		Use:   "add --title <title>",
		Short: "Create an objective",
		RunE: func(cmd *cobra.Command, _ []string) error {
			krs, err := parseKeyResultSpecs(addFlags.keyResults)
			if err != nil {
				return err
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.OKRCLI.SaveObjective(context.Background(), dto.SaveObjectiveInput{
					Title:       addFlags.title,
					Description: addFlags.description,
					Category:    addFlags.category,
					Timeframe:   addFlags.timeframe,
					StartDate:   addFlags.start,
					EndDate:     addFlags.end,
					KeyResults:  krs,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s %q %s..%s\n", out.Objective.ID, out.Objective.Title, out.Objective.StartDate, out.Objective.EndDate)
				warnUnsaved(cmd, out.Persisted)
				return nil
			})
		},
	}
	addFlags.register(add)
	add.Flags().StringArrayVar(&addFlags.keyResults, "kr", nil, "key result as title[=target], repeatable")

	editFlags := &objectiveFlags{}
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an objective's fields; key results are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				ctx := context.Background()
				current, err := app.OKRCLI.GetObjective(ctx, args[0])
				if err != nil {
					return err
				}
				input := dto.SaveObjectiveInput{
					ID:          current.ID,
					Title:       current.Title,
					Description: current.Description,
					Category:    current.Category,
					Timeframe:   current.Timeframe,
					StartDate:   current.StartDate,
					EndDate:     current.EndDate,
				}
				flags := cmd.Flags()
				if flags.Changed("title") {
					input.Title = editFlags.title
				}
				if flags.Changed("description") {
					input.Description = editFlags.description
				}
				if flags.Changed("category") {
					input.Category = editFlags.category
				}
				if flags.Changed("timeframe") {
					input.Timeframe = editFlags.timeframe
					if !flags.Changed("start") && !flags.Changed("end") {
						input.StartDate, input.EndDate = "", ""
					}
				}
				if flags.Changed("start") {
					input.StartDate = editFlags.start
				}
				if flags.Changed("end") {
					input.EndDate = editFlags.end
				}
				out, err := app.OKRCLI.SaveObjective(ctx, input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s %q\n", out.Objective.ID, out.Objective.Title)
				warnUnsaved(cmd, out.Persisted)
				return nil
			})
		},
	}
	editFlags.register(edit)

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an objective and its key results",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.OKRCLI.DeleteObjective(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %q\n", out.ID, out.Title)
				warnUnsaved(cmd, out.Persisted)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every objective",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				objectives, err := app.OKRCLI.ListObjectives(context.Background())
				if err != nil {
					return err
				}
				if len(objectives) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no objectives")
					return nil
				}
				for _, o := range objectives {
					printObjectiveLine(cmd, o)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an objective with its key results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				o, err := app.OKRCLI.GetObjective(context.Background(), args[0])
				if err != nil {
					return err
				}
				printObjectiveDetail(cmd, o)
				return nil
			})
		},
	}

	objective.AddCommand(add, edit, del, list, show)
	return objective
}

func newKeyResultCmd(opts *rootOptions) *cobra.Command {
	kr := &cobra.Command{Use: "kr", Short: "Manage key results"}

	var title string
	var target, current float64
	add := &cobra.Command{
		Use:   "add <objective-id> --title <title>",
		Short: "Add a key result to an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.OKRCLI.AddKeyResult(context.Background(), args[0], title, target, current)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %q target=%s objective=%d%%\n", out.KeyResult.ID, out.KeyResult.Title, formatNumber(out.KeyResult.Target), out.ObjectiveProgress)
				warnUnsaved(cmd, out.Persisted)
				return nil
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "key result title")
	add.Flags().Float64Var(&target, "target", 0, "target value (100 when omitted)")
	add.Flags().Float64Var(&current, "current", 0, "starting value")

	remove := &cobra.Command{
		Use:     "remove <objective-id> <kr-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a key result",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.OKRCLI.RemoveKeyResult(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s %q objective=%d%%\n", out.KeyResult.ID, out.KeyResult.Title, out.ObjectiveProgress)
				warnUnsaved(cmd, out.Persisted)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <objective-id> <kr-id> <value>",
		Short: "Record the current value of a key result",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.OKRCLI.SetProgress(context.Background(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				k := out.KeyResult
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s %d%% %s objective=%d%%\n", k.Title, formatNumber(k.Current), formatNumber(k.Target), k.Progress, k.Status, out.ObjectiveProgress)
				warnUnsaved(cmd, out.Persisted)
				return nil
			})
		},
	}

	history := &cobra.Command{
		Use:   "history <objective-id> <kr-id>",
		Short: "Print every recorded value of a key result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				o, err := app.OKRCLI.GetObjective(context.Background(), args[0])
				if err != nil {
					return err
				}
				k, err := findKeyResult(o, args[1])
				if err != nil {
					return err
				}
				if len(k.History) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history")
					return nil
				}
				for _, h := range k.History {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", h.Date, formatNumber(h.Value))
				}
				return nil
			})
		},
	}

	kr.AddCommand(add, remove, set, history)
	return kr
}

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var filter dto.FilterInput
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Filtered objectives, progress chart and summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				board, err := app.OKRCLI.Dashboard(context.Background(), filter)
				if err != nil {
					return err
				}
				printDashboard(cmd, board)
				return nil
			})
		},
	}
	dashboard.Flags().StringVar(&filter.Search, "search", "", "case-insensitive match on title or description")
	dashboard.Flags().StringVar(&filter.Category, "category", "", "category or All")
	dashboard.Flags().StringVar(&filter.Status, "status", "", "on-track|in-progress|at-risk|off-track|overachieved|all")
	dashboard.Flags().StringVar(&filter.From, "from", "", "range start YYYY-MM-DD (default Jan 1 this year)")
	dashboard.Flags().StringVar(&filter.To, "to", "", "range end YYYY-MM-DD (default Dec 31 this year)")
	dashboard.Flags().BoolVar(&filter.AllDates, "all-dates", false, "ignore the default date range")
	return dashboard
}

// parseKeyResultSpecs reads "title" or "title=target" pairs.
func parseKeyResultSpecs(specs []string) ([]dto.KeyResultInput, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]dto.KeyResultInput, 0, len(specs))
	for _, spec := range specs {
		title, rawTarget, hasTarget := strings.Cut(spec, "=")
		kr := dto.KeyResultInput{Title: strings.TrimSpace(title)}
		if hasTarget {
			target, err := strconv.ParseFloat(strings.TrimSpace(rawTarget), 64)
			if err != nil {
				return nil, fmt.Errorf("--kr %q: target must be a number", spec)
			}
			kr.Target = target
		}
		out = append(out, kr)
	}
	return out, nil
}

func findKeyResult(o dto.ObjectiveOutput, ref string) (dto.KeyResultOutput, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return dto.KeyResultOutput{}, fmt.Errorf("key result id is required")
	}
	var match *dto.KeyResultOutput
	for i := range o.KeyResults {
		k := &o.KeyResults[i]
		if k.ID == ref {
			return *k, nil
		}
		if strings.HasPrefix(k.ID, ref) {
			if match != nil {
				return dto.KeyResultOutput{}, fmt.Errorf("key result %q is ambiguous", ref)
			}
			match = k
		}
	}
	if match == nil {
		return dto.KeyResultOutput{}, fmt.Errorf("key result %q not found", ref)
	}
	return *match, nil
}

func warnUnsaved(cmd *cobra.Command, persisted bool) {
	if !persisted {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: the change could not be saved")
	}
}
