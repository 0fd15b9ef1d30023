package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/annokit/internal/config"
	"github.com/ivlev/annokit/internal/container"
	"github.com/ivlev/annokit/internal/logging"
	"github.com/ivlev/annokit/internal/media"
	"github.com/ivlev/annokit/internal/registry"
	"github.com/ivlev/annokit/internal/system"
)

// commandContext lazily builds what every subcommand shares: configuration,
// logger, the container factory and the media decoder.
type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	cfg     *config.Config
	logger  *slog.Logger
	factory *registry.Factory
	media   *media.Decoder
	prober  *system.Prober
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, logLevelFlag: logLevelFlag}
}

func (cc *commandContext) ensure(cmd *cobra.Command) error {
	if cc.cfg != nil {
		return nil
	}

	cfg, err := config.Load(*cc.configFlag)
	if err != nil {
		return err
	}
	if *cc.logLevelFlag != "" {
		cfg.Logging.Level = *cc.logLevelFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	factory, err := registry.FromConfig(cfg.Containers)
	if err != nil {
		return err
	}

	cc.cfg = cfg
	cc.logger = logger
	cc.factory = factory
	cc.media = newMediaDecoder(cfg.Media)
	cc.prober = &system.Prober{
		Binary:  cfg.Media.FFprobe,
		Timeout: time.Duration(cfg.Media.FrameTimeoutSecond) * time.Second,
	}
	return nil
}

func newMediaDecoder(m config.Media) *media.Decoder {
	d := media.Default()
	d.PDF.DPI = m.DPI
	d.Video.Binary = m.FFmpeg
	d.Video.Timeout = time.Duration(m.FrameTimeoutSecond) * time.Second
	return d
}

// containerOptions returns the options every container created by the CLI
// shares.
func (cc *commandContext) containerOptions() []container.Option {
	opts := []container.Option{
		container.WithLogger(cc.logger),
		container.WithMedia(cc.media),
	}
	if cc.cfg.FileLock {
		opts = append(opts, container.WithFileLock())
	}
	return opts
}

func (cc *commandContext) open(filename string) (*container.Container, error) {
	return cc.factory.Create(filename, cc.containerOptions()...)
}
