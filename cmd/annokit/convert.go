package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/system"
)

type conversion struct {
	src, dst string
	records  int
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var to, outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "convert --to EXT FILE...",
		Short: "Convert label files to the format registered for another extension",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := ctx.planConversions(args, to, outDir)
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = ctx.cfg.Workers
			}
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(system.Workers(workers, len(jobs)))

			for i := range jobs {
				job := &jobs[i]
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					n, err := ctx.convert(job.src, job.dst)
					if err != nil {
						return fmt.Errorf("convert %s: %w", job.src, err)
					}
					job.records = n
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, job := range jobs {
				fmt.Fprintf(out, "%s -> %s (%d records)\n", job.src, job.dst, job.records)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target extension, e.g. json or yaml (required)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write converted files here instead of next to the source")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel conversions (default: config workers or CPU count)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// planConversions maps every source to its target path and checks that a
// writable format is registered for it before any source is loaded.
func (cc *commandContext) planConversions(srcs []string, to, outDir string) ([]conversion, error) {
	ext := strings.TrimPrefix(strings.TrimSpace(to), ".")
	if ext == "" {
		return nil, fmt.Errorf("--to: extension required: %w", container.ErrInvalidArgument)
	}

	jobs := make([]conversion, 0, len(srcs))
	seen := make(map[string]string, len(srcs))
	for _, src := range srcs {
		dir := filepath.Dir(src)
		if outDir != "" {
			dir = outDir
		}
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dst := filepath.Join(dir, base+"."+ext)

		if filepath.Clean(dst) == filepath.Clean(src) {
			return nil, fmt.Errorf("%s: source and target are the same file: %w", src, container.ErrInvalidArgument)
		}
		if prev, ok := seen[dst]; ok {
			return nil, fmt.Errorf("%s and %s both convert to %s: %w", prev, src, dst, container.ErrInvalidArgument)
		}
		seen[dst] = src

		if _, ok := cc.factory.Lookup(src); !ok {
			return nil, fmt.Errorf("no container registered for filename %s: %w", src, container.ErrConfiguration)
		}
		if _, ok := cc.factory.Lookup(dst); !ok {
			return nil, fmt.Errorf("no container registered for filename %s: %w", dst, container.ErrConfiguration)
		}
		if !cc.factory.Writable(dst) {
			return nil, fmt.Errorf("%s: format is read-only: %w", dst, container.ErrUnsupported)
		}
		jobs = append(jobs, conversion{src: src, dst: dst})
	}
	return jobs, nil
}

// convert loads src and saves it as dst with media references rebased onto
// dst's directory. Each call uses its own pair of containers.
func (cc *commandContext) convert(src, dst string) (int, error) {
	in, err := cc.open(src)
	if err != nil {
		return 0, err
	}
	sess, err := in.Load(src)
	if err != nil {
		return 0, err
	}
	set, err := sess.Rebase(filepath.Dir(dst))
	if err != nil {
		return 0, err
	}

	out, err := cc.open(dst)
	if err != nil {
		return 0, err
	}
	if err := out.Save(set, dst); err != nil {
		return 0, err
	}
	cc.logger.Debug("annotations converted", "src", src, "dst", dst, "format", out.Format().Name())
	return len(set), nil
}
