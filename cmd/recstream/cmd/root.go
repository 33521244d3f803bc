package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/recstream"
	"github.com/unkn0wn-root/recstream/codec"
	"github.com/unkn0wn-root/recstream/internal/config"
	zaplog "github.com/unkn0wn-root/recstream/log/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	zlog    *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recstream",
	Short: "Inspect and convert record streams",
	Long: `recstream works with the record-stream formats produced by batch
workers: the chunked, checksummed container and the legacy netstr format.

cat decodes a stream to JSON lines, pack builds a stream from text input,
and inspect walks chunk headers without decoding payloads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		zcfg := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(cfg.Logging.Level); perr == nil {
			zcfg.Level = lvl
		}
		zlog, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file")
}

func logger() recstream.Logger {
	return zaplog.Logger{L: zlog}
}

// objectCodec resolves the configured payload codec for dynamically typed
// records.
func objectCodec() (codec.Codec[any], error) {
	switch cfg.Codec {
	case "", "msgpack":
		return codec.Msgpack[any]{}, nil
	case "cbor":
		return codec.NewCBOR[any](false)
	case "json":
		return codec.JSON[any]{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want msgpack, cbor or json)", cfg.Codec)
	}
}
