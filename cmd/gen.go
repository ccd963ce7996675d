package cmd

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/dtgen/internal/cache"
	"github.com/Norgate-AV/dtgen/internal/codes"
	"github.com/Norgate-AV/dtgen/internal/config"
	"github.com/Norgate-AV/dtgen/internal/emitter"
	"github.com/Norgate-AV/dtgen/internal/pkgdb"
	"github.com/Norgate-AV/dtgen/internal/plan"
	"github.com/Norgate-AV/dtgen/internal/toolchain"
)

var genCmd = &cobra.Command{
	Use:          "gen [plan]",
	Short:        "Generate the doctest artifact",
	Long:         `Read the build plan and write the doctest runner invocation for the target test suite.`,
	RunE:         runGen,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func runGen(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.LoadForGen(cmd, args)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		cfg.PlanPath = args[0]
	}

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	p, err := plan.Load(cfg.PlanPath)
	if err != nil {
		return err
	}

	raw := cfg.Toolchain
	if raw == "" {
		raw = p.Toolchain
	}

	tc, err := toolchain.Parse(raw)
	if err != nil {
		return err
	}

	log.Debugf("plan: %s", cfg.PlanPath)
	log.Debugf("package: %s, toolchain: %s, suite: %s", p.SelfID(), tc.Version(), cfg.Suite)

	var c *cache.Cache
	if !cfg.NoCache {
		c, err = cache.New(cfg.CacheDir)
		if err != nil {
			// The cache only saves a rewrite; generation works without it
			log.Warnf("cache disabled: %v", err)
		} else {
			defer c.Close()
		}
	}

	return emitter.Run(p, tc, cfg.Suite, c)
}

// exitCode maps an error to the dtgen exit code taxonomy.
func exitCode(err error) int {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, pkgdb.ErrUnexpectedStack):
		return codes.ConfigShape
	case errors.Is(err, emitter.ErrWrite):
		return codes.IO
	case errors.Is(err, plan.ErrInvalid):
		return codes.Plan
	default:
		return codes.Failure
	}
}
