package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/jointreg/internal/config"
	"github.com/san-kum/jointreg/internal/ctxlog"
	"github.com/san-kum/jointreg/internal/dynamo"
	"github.com/san-kum/jointreg/internal/engine"
	"github.com/san-kum/jointreg/internal/jointset"
	"github.com/san-kum/jointreg/internal/models"
	"github.com/san-kum/jointreg/internal/storage"
	"github.com/san-kum/jointreg/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	strict     bool
	plot       bool
	save       bool
	scales     []string
)

// main registers the jointreg commands and flags and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "jointreg",
		Short:         "register multibody joints in kinematic tree order",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	registerCmd := &cobra.Command{
		Use:   "register [model.yaml]",
		Short: "register a model's joints with the multibody engine",
		Args:  cobra.MaximumNArgs(1),
		RunE:  registerModel,
	}
	registerCmd.Flags().StringVar(&preset, "preset", "", "use a built-in model")
	registerCmd.Flags().BoolVar(&strict, "strict", true, "reject joints whose parent body is not mobilized yet")
	registerCmd.Flags().BoolVar(&plot, "plot", false, "plot tree level by registration position")
	registerCmd.Flags().BoolVar(&save, "save", true, "store the pass in the data directory")
	registerCmd.Flags().StringSliceVar(&scales, "scale", nil, "scale a body before registering (body=factor or body=sx:sy:sz)")

	validateCmd := &cobra.Command{
		Use:   "validate [model.yaml]...",
		Short: "check models for duplicate child bodies and parent cycles",
		Args:  cobra.MinimumNArgs(1),
		RunE:  validateModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in models",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	jointTypesCmd := &cobra.Command{
		Use:   "joint-types",
		Short: "list joint types",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := models.NewRegistry()
			for _, name := range reg.ListJointTypes() {
				j, _ := reg.NewJoint(name, name, nil)
				fmt.Printf("  %-10s %d dof\n", name, j.DOF())
			}
			return nil
		},
	}

	exportPresetCmd := &cobra.Command{
		Use:   "export-preset [preset] [model.yaml]",
		Short: "write a built-in model to a file for editing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mc := config.GetPreset(args[0])
			if mc == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			if err := config.SaveModel(args[1], mc); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[1])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored passes",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the registration order of a stored pass",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&plot, "plot", false, "plot tree level by registration position")

	rootCmd.AddCommand(registerCmd, validateCmd, presetsCmd, exportPresetCmd, jointTypesCmd, listCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusFailed.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// applyConfig loads the config file, if any, and applies its values to
// every flag the user did not set, then installs the logger.
func applyConfig(cmd *cobra.Command) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		flags := cmd.Flags()
		if !flags.Changed("data") {
			dataDir = cfg.DataDir
		}
		if !flags.Changed("log-level") {
			logLevel = cfg.LogLevel
		}
		if flags.Lookup("strict") != nil && !flags.Changed("strict") {
			strict = cfg.Strict
		}
		if flags.Lookup("plot") != nil && !flags.Changed("plot") {
			plot = cfg.Plot
		}
		if flags.Lookup("save") != nil && !flags.Changed("save") {
			save = cfg.Save
		}
	}

	logger := ctxlog.New(os.Stderr, logLevel)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

func loadModel(args []string) (*models.Model, error) {
	var mc *config.ModelConfig
	switch {
	case preset != "":
		mc = config.GetPreset(preset)
		if mc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case len(args) == 1:
		var err error
		mc, err = config.LoadModel(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
	default:
		return nil, errors.New("a model file or --preset is required")
	}

	if mc.Name == "" && len(args) == 1 {
		base := filepath.Base(args[0])
		mc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return models.FromConfig(mc, models.NewRegistry())
}

func registerModel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := ctxlog.FromContext(ctx)

	m, err := loadModel(args)
	if err != nil {
		return err
	}

	js := m.JointSet()
	if len(scales) > 0 {
		set, err := parseScales(scales)
		if err != nil {
			return err
		}
		for name := range set {
			if _, ok := m.Body(name); !ok {
				return fmt.Errorf("%w: %s", dynamo.ErrUnknownBody, name)
			}
		}
		js.Scale(set)
	}

	rec := &recorder{}
	sys := engine.New(engine.WithStrictOrder(strict), engine.WithObserver(rec))

	log.Info("registering model", "model", m.Name, "joints", js.Len(), "strict", strict)
	regErr := registerSet(ctx, js, sys, rec)

	rows := rec.rows()
	fmt.Println(viz.RenderOrder(m.Name, rows))
	fmt.Println(viz.Summary(m.Name, js.Len(), sys.Len(), sys.DOF(), regErr))
	if plot && len(rows) > 0 {
		fmt.Println(viz.Separator(60))
		fmt.Println(viz.PlotLevels(rows))
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.RunMetadata{
			Model:      m.Name,
			Joints:     js.Len(),
			Registered: sys.Len(),
			DOF:        sys.DOF(),
			Strict:     strict,
		}
		if regErr != nil {
			meta.Error = regErr.Error()
		}
		runID, err := st.Save(meta, toEntries(rows))
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return regErr
}

// registerSet runs the pass and keeps its plan so recorded mobilizers can
// be matched back to their depth and level.
func registerSet(ctx context.Context, js *jointset.JointSet, sys *engine.System, rec *recorder) error {
	steps, err := js.RegisterPlan(ctx, sys)
	rec.plan = steps
	return err
}

func validateModels(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := ctxlog.FromContext(ctx)

	// Unreadable or unparsable files abort the whole run; model errors are
	// collected per file.
	results := make([]error, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mc, err := config.LoadModel(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			m, err := models.FromConfig(mc, models.NewRegistry())
			if err != nil {
				results[i] = err
				return nil
			}
			_, results[i] = m.JointSet().Plan()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, path := range args {
		if results[i] != nil {
			failed++
			log.Debug("validation failed", "model", path, "error", results[i])
			fmt.Printf("%s  %s\n", viz.StatusFailed.Render("FAIL"), path)
			fmt.Printf("      %s\n", results[i])
			continue
		}
		fmt.Printf("%s  %s\n", viz.StatusOK.Render("ok  "), path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d models invalid", failed, len(args))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tJOINTS\tREGISTERED\tDOF\tSTATUS")
	for _, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", r.ID, r.Model, r.Joints, r.Registered, r.DOF, status)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	order, err := st.LoadOrder(args[0])
	if err != nil {
		return err
	}

	rows := make([]viz.Row, len(order))
	for i, e := range order {
		rows[i] = viz.Row(e)
	}

	var runErr error
	if meta.Error != "" {
		runErr = errors.New(meta.Error)
	}
	fmt.Println(viz.RenderOrder(meta.Model, rows))
	fmt.Println(viz.Summary(meta.Model, meta.Joints, meta.Registered, meta.DOF, runErr))
	if plot && len(rows) > 0 {
		fmt.Println(viz.Separator(60))
		fmt.Println(viz.PlotLevels(rows))
	}
	return nil
}

// parseScales reads body=factor or body=sx:sy:sz entries.
func parseScales(specs []string) (dynamo.ScaleSet, error) {
	set := make(dynamo.ScaleSet, len(specs))
	for _, spec := range specs {
		body, factors, ok := strings.Cut(spec, "=")
		if !ok || body == "" {
			return nil, fmt.Errorf("invalid scale %q: want body=factor", spec)
		}
		parts := strings.Split(factors, ":")
		if len(parts) != 1 && len(parts) != 3 {
			return nil, fmt.Errorf("invalid scale %q: want 1 or 3 factors", spec)
		}
		var v dynamo.Vec3
		for i := range v {
			p := parts[0]
			if len(parts) == 3 {
				p = parts[i]
			}
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid scale %q: %w", spec, err)
			}
			v[i] = f
		}
		set[body] = v
	}
	return set, nil
}
