package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"apidoc/config"
	"apidoc/internal/adapter/classify"
	"apidoc/internal/adapter/dump"
	"apidoc/internal/adapter/fs"
	"apidoc/internal/adapter/memstore"
	"apidoc/internal/adapter/store"
	"apidoc/internal/adapter/xref"
	"apidoc/internal/domain"
	"apidoc/internal/port"
	"apidoc/internal/usecase"
)

var (
	buildPackages []string
	buildClasses  []string
	buildDryRun   bool
	buildQuiet    bool
)

var buildCmd = &cobra.Command{
	Use:   "build [dump-dir]",
	Short: "Build the documentation model from introspection dumps",
	Long: `Build the documentation model from the introspection dumps in dump-dir
(default is build.dump_dir from the config). The model is stored in
.apidoc/model.db within the root directory and replaces any previous build.

Examples:
  apidoc build                           # Build every dumped package
  apidoc build ./dump --package core     # Build one package
  apidoc build --class QgsVector         # Classes starting with QgsVector
  apidoc build --class '*Layer' --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVarP(&buildPackages, "package", "p", nil, "packages to build (default is every dumped package)")
	buildCmd.Flags().StringSliceVarP(&buildClasses, "class", "c", nil, "class name prefixes or glob patterns")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "build in memory without writing the model")
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "disable the progress bar")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dumpDir := cfg.Build.DumpDir
	if len(args) > 0 {
		dumpDir = args[0]
	}
	if !filepath.IsAbs(dumpDir) {
		dumpDir = filepath.Join(GetRootDir(), dumpDir)
	}

	walker := fs.NewWalker(cfg.Build.Includes, cfg.Build.Excludes)
	source, err := dump.Load(dumpDir, walker)
	if err != nil {
		return fmt.Errorf("failed to load dumps: %w", err)
	}

	cache := xref.NewCache(cfg.Naming.CacheSize)
	resolver, err := xref.New(xref.Options{
		ClassPattern:         cfg.Naming.ClassPattern,
		PrivateModulePattern: cfg.Naming.PrivateModulePattern,
		Role:                 cfg.Naming.Role,
	}, cache)
	if err != nil {
		return err
	}

	documenter := usecase.NewDocumenter(source, resolver, usecase.DocumenterOptions{
		SideTables:  cfg.SideTables,
		Classifier:  classifierOptions(cfg),
		Constructor: cfg.Naming.Constructor,
	})

	var st port.ModelStore
	var bolt *store.BoltStore
	dbPath := cfg.ModelDBPath(GetRootDir())
	if buildDryRun {
		st = memstore.NewMemoryStore()
	} else {
		if err := config.EnsureDir(dbPath); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
		bolt, err = store.NewBoltStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open model store: %w", err)
		}
		defer bolt.Close()
		st = bolt
	}

	packages := buildPackages
	if len(packages) == 0 {
		packages = cfg.Build.Packages
	}
	classes := buildClasses
	if len(classes) == 0 {
		classes = cfg.Build.Classes
	}

	buildUC := usecase.NewBuildUseCase(source, st, documenter, cfg.SideTables, cfg.Naming.PrivacyMarker)

	slog.Info("building documentation model", "dumps", dumpDir, "packages", len(source.Packages()))

	var progress usecase.ProgressFunc
	if !buildQuiet {
		progress = newProgress("Documenting")
	}

	result, err := buildUC.Build(cmd.Context(), usecase.BuildOptions{
		Packages:      packages,
		Classes:       classes,
		ConfigHash:    store.ComputeConfigHash(cfg),
		SchemaVersion: store.CurrentSchemaVersion,
	}, progress)
	if err != nil {
		var sigErr *domain.SignatureError
		if errors.As(err, &sigErr) {
			return fmt.Errorf("build aborted: %w (add the class to non-instantiable to skip it)", sigErr)
		}
		return fmt.Errorf("build failed: %w", err)
	}

	hits, misses := cache.Stats()
	slog.Debug("link cache", "hits", hits, "misses", misses, "entries", cache.Size())

	if bolt != nil {
		if err := bolt.Stamp(cfg); err != nil {
			return fmt.Errorf("failed to update schema info: %w", err)
		}
	}

	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Build ID:         %s\n", result.Info.ID)
	fmt.Printf("  Packages:         %d\n", len(result.Info.Packages))
	fmt.Printf("  Classes:          %d\n", result.Info.Classes)
	fmt.Printf("  Classes skipped:  %d\n", result.Skipped)
	fmt.Printf("  Duration:         %s\n", formatDuration(result.Duration))
	if buildDryRun {
		fmt.Printf("\nDry run: model not written\n")
	} else {
		fmt.Printf("\nModel stored at: %s\n", dbPath)
	}
	return nil
}

func classifierOptions(cfg *config.Config) classify.Options {
	opts := classify.DefaultOptions()
	opts.PrivacyMarker = cfg.Naming.PrivacyMarker
	opts.Whitelist[domain.KindMethod] = []string{cfg.Naming.Constructor}
	opts.SkipMembers = cfg.SideTables.SkipMembers
	return opts
}

// newProgress returns a progress callback that draws a bar once the total is known.
func newProgress(label string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(done, total int, class string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(done)

		elapsed := time.Since(startTime)
		rate := float64(done) / elapsed.Seconds()
		if rate > 0 {
			eta := time.Duration(float64(total-done)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]%s[reset] %s ETA: %s", label, class, formatDuration(eta)))
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
