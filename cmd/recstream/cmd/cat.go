package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/recstream"
	"github.com/unkn0wn-root/recstream/codec"
	"github.com/unkn0wn-root/recstream/source"
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat <url>...",
	Short: "Decode streams and print records as JSON lines",
	Long: `Decode one or more record streams and print every record to stdout
as one JSON value per line. Legacy netstr records print as
{"key":...,"value":...} with both fields as strings.

Example:
  recstream cat part-0000.rec
  recstream cat http://node7:8989/job/map-3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oc, err := objectCodec()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		for _, rawurl := range args {
			if err := catOne(cmd, rawurl, oc, enc); err != nil {
				return err
			}
		}
		return nil
	},
}

func catOne(cmd *cobra.Command, rawurl string, oc codec.Codec[any], enc *json.Encoder) error {
	src, size, err := source.Open(cmd.Context(), rawurl)
	if err != nil {
		return err
	}
	defer src.Close()

	r, err := recstream.Open(src, recstream.Options[any]{
		Source:        rawurl,
		Size:          size,
		Codec:         oc,
		IgnoreCorrupt: cfg.IgnoreCorrupt,
		LegacyRecord: func(rec recstream.Record) (any, error) {
			return map[string]string{
				"key":   string(rec.Key),
				"value": string(rec.Value),
			}, nil
		},
		Logger: logger(),
	})
	if err != nil {
		return err
	}
	for v, err := range r.All() {
		if err != nil {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(catCmd)
}
