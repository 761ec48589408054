package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"regen/internal/driver"
	"regen/internal/observ"
	"regen/internal/source"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <file.json>...",
	Short: "Lower generators and for-of loops in ESTree JSON files",
	Long: `Lower every generator function and for-of loop of the given ESTree JSON files.
Results go to stdout, or to <out>/<name>.<format> with --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLower,
}

func init() {
	registerLowerFlags(lowerCmd)
}

func registerLowerFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "write results into this directory instead of stdout")
	cmd.Flags().String("format", "json", "output format (json|js)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("no-cache", false, "disable the persistent result cache")
	cmd.Flags().String("runtime", "", "name of the runtime object (default wrapGenerator)")
	cmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
}

func runLower(cmd *cobra.Command, args []string) error {
	settings, err := readLowerSettings(cmd)
	if err != nil {
		return err
	}
	log := driver.Logger()
	if settings.configPath != "" {
		log.Debug("using config", zap.String("path", settings.configPath))
	}

	var timer *observ.Timer
	if settings.timings {
		timer = observ.NewTimer()
	}

	var cache *driver.DiskCache
	if settings.cache {
		cache, err = driver.OpenDiskCache("regen")
		if err != nil {
			// без кэша тоже работаем
			log.Warn("disk cache unavailable", zap.Error(err))
			cache = nil
		}
	}

	req := driver.Request{
		Files:          args,
		Jobs:           settings.jobs,
		MaxDiagnostics: settings.maxDiag,
		Runtime:        settings.runtime,
		Format:         settings.format,
		Cache:          cache,
		Timer:          timer,
	}

	var (
		fileSet *source.FileSet
		results []driver.FileResult
	)
	if shouldUseTUI(settings.ui, settings.out != "", settings.quiet) {
		fileSet, results, err = runLowerWithUI(cmd.Context(), "regen lower", args, &req)
	} else {
		fileSet, results, err = driver.LowerFiles(cmd.Context(), &req)
	}
	if err != nil {
		return err
	}

	endWrite := timer.Track("write")
	written, err := writeResults(cmd.OutOrStdout(), settings.out, settings.format, results)
	endWrite(fmt.Sprintf("%d files", written))
	if err != nil {
		return err
	}

	failed := printDiagnostics(cmd.ErrOrStderr(), fileSet, results)
	if settings.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	if !settings.quiet && settings.out != "" {
		printSummary(cmd.ErrOrStderr(), results, written)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
