package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupesweep/internal/config"
	"dupesweep/internal/diskstat"
	"dupesweep/internal/grouper"
	"dupesweep/internal/hashcache"
	"dupesweep/internal/logger"
	"dupesweep/internal/platform"
	"dupesweep/internal/resolver"
	"dupesweep/internal/scanner"
	"dupesweep/internal/screener"
	"dupesweep/internal/types"
)

// defaultConfigFile is picked up from the working directory when --config
// is not given.
const defaultConfigFile = "dupesweep.ini"

// sweepOptions holds CLI flags for the sweep command.
type sweepOptions struct {
	recursive  bool
	dryRun     bool
	keep       string
	mode       string
	algorithm  string
	ignore     string
	workers    int
	minSizeStr string
	maxSizeStr string
	noProgress bool
	verbose    bool
	configFile string
}

// newSweepCmd creates the sweep subcommand.
func newSweepCmd() *cobra.Command {
	opts := &sweepOptions{
		mode:       "symlink",
		algorithm:  "md5",
		ignore:     ".lnk,.url",
		workers:    runtime.NumCPU(),
		minSizeStr: "1MB",
		maxSizeStr: "1TB",
	}

	cmd := &cobra.Command{
		Use:   "sweep [path]",
		Short: "Find duplicate files and delete, symlink or hardlink them",
		Long: `Scans a directory for duplicate files, keeps one file per duplicate group
according to the keep policy, and deletes the rest or replaces them with
links to the kept file.

Duplicates are detected by content digest (md5, sha256, sha512, crc32) or
by structural grouping (size, name). Content signatures are cached in
duplicates.hashes.csv inside the scan root, so unchanged files are never
hashed twice across runs.

Use --dry-run to preview without making changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, args, opts)
		},
	}

	// Bind flags to options
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Preview changes without executing")
	cmd.Flags().StringVarP(&opts.keep, "keep", "k", "", "Which duplicate to keep (required): latest, oldest, highest, deepest, first or last")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "Action for non-kept duplicates: delete, symlink or hardlink")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", opts.algorithm, "Signature algorithm: md5, sha256, sha512, crc32, size or name")
	cmd.Flags().StringVarP(&opts.ignore, "ignore", "i", opts.ignore, "Comma-separated file or directory names to skip")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel hashing workers")
	cmd.Flags().StringVar(&opts.minSizeStr, "min-size", opts.minSizeStr, "Minimum file size (e.g., 100, 500KB, 1.5M; -1 = unbounded)")
	cmd.Flags().StringVar(&opts.maxSizeStr, "max-size", opts.maxSizeStr, "Maximum file size (-1 = unbounded)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "INI file seeding flags not set on the command line")

	return cmd
}

// runSweep executes the sweep pipeline: scan → screen → group → resolve.
func runSweep(cmd *cobra.Command, args []string, opts *sweepOptions) error {
	// Seed unset flags from the config file before anything reads opts.
	if opts.configFile != "" {
		if err := config.Apply(cmd.Flags(), opts.configFile); err != nil {
			return err
		}
	} else if _, err := os.Stat(defaultConfigFile); err == nil {
		if err := config.Apply(cmd.Flags(), defaultConfigFile); err != nil {
			return err
		}
	}

	// Required here rather than via MarkFlagRequired so the config file can
	// supply the policy; cobra checks required flags before RunE runs.
	if opts.keep == "" {
		return errors.New(`required flag "keep" not set`)
	}
	keep, err := types.ParseKeepCriteria(opts.keep)
	if err != nil {
		return fmt.Errorf("invalid --keep: %w", err)
	}
	mode, err := types.ParseMode(opts.mode)
	if err != nil {
		return fmt.Errorf("invalid --mode: %w", err)
	}
	algo, err := types.ParseAlgorithm(opts.algorithm)
	if err != nil {
		return fmt.Errorf("invalid --algorithm: %w", err)
	}
	minSize, err := parseSize(opts.minSizeStr)
	if err != nil {
		return fmt.Errorf("invalid --min-size: %w", err)
	}
	maxSize, err := parseSize(opts.maxSizeStr)
	if err != nil {
		return fmt.Errorf("invalid --max-size: %w", err)
	}
	if opts.workers < 1 {
		return errors.New("invalid --workers: must be at least 1")
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	root, err := filepath.Abs(path)
	if err == nil {
		root, err = filepath.EvalSymlinks(root)
	}
	if err != nil {
		return fmt.Errorf("resolving path %q: %w", path, err)
	}

	log, logClose, err := logger.New(root, opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logClose.Close() }()

	log.Infof("Settings: Path=%s | Keep=%s | Mode=%s | Algorithm=%s | Recursive=%t",
		root, keep, mode, algo, opts.recursive)

	before, beforeErr := diskstat.Snapshot(root)
	if beforeErr != nil {
		log.Info("Free space before: Unknown")
	} else {
		log.Infof("Free space before: %s", before)
	}

	showProgress := !opts.noProgress
	plat := platform.Native()

	// Phase 1: Scan filesystem
	log.Info("Scanning directory...")
	sc := scanner.New(root, opts.recursive, strings.Split(opts.ignore, ","), plat, showProgress)
	files, cacheFiles, err := sc.Run()
	if err != nil {
		return err
	}
	log.Infof("Found %d total files in %d folders.", len(files), sc.Folders())

	// Phase 2: Open the cache and merge every copy found during the scan
	cache, err := hashcache.Open(root)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if len(cacheFiles) > 0 {
		log.Infof("Loading %d hash CSV file(s)...", len(cacheFiles))
		loaded := 0
		for _, f := range cacheFiles {
			n, err := cache.LoadFile(f)
			if err != nil {
				log.Debugf("Skipping cache file %s: %v", f, err)
				continue
			}
			loaded += n
		}
		if loaded > 0 {
			log.Infof("Loaded %d cached hashes from %d file(s)", loaded, len(cacheFiles))
		}
	}

	// Phase 3: Screen out hardlinks and out-of-range sizes
	candidates := screener.New(minSize, maxSize, log).Run(files)

	// Phase 4: Group by signature
	groups, err := grouper.New(algo, opts.workers, showProgress, cache, log).Run(candidates)
	if err != nil {
		return err
	}

	// Phase 5: Resolve duplicate groups
	res := resolver.New(keep, mode, opts.dryRun, plat, log)
	if err := res.Run(groups); err != nil {
		return err
	}
	log.Debugf("Resolved %d duplicate(s), %s reclaimable",
		res.Resolved(), humanize.IBytes(uint64(res.FreedBytes())))

	after, afterErr := diskstat.Snapshot(root)
	if afterErr != nil {
		log.Info("Free space after: Unknown")
	} else {
		log.Infof("Free space after: %s", after)
	}
	if beforeErr == nil && afterErr == nil {
		log.Infof("Total space freed: %s", diskstat.Freed(before, after))
	}

	log.Info("Done.")
	return nil
}
