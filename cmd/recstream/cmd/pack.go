package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/recstream"
)

var (
	packInput  string
	packLegacy bool
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <output>",
	Short: "Build a record stream from lines of text",
	Long: `Read lines from a text input and write them as a record stream.
By default each line becomes one object in a chunked, compressed stream.
With --legacy, each line is split on the first tab into a key/value pair
and written in the legacy netstr format.

Example:
  recstream pack part-0000.rec --input words.txt
  recstream pack legacy.rec --legacy < pairs.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if packInput != "" && packInput != "-" {
			f, err := os.Open(packInput)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		out, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer out.Close()

		n, err := pack(in, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "packed %d records into %s\n", n, args[0])
		return nil
	},
}

func pack(in io.Reader, out io.Writer) (int, error) {
	lines := recstream.NewLineTokenizer(in, recstream.TokenizerOptions{
		Source: packInput,
		Logger: logger(),
	})

	if packLegacy {
		return packNetstr(lines, out)
	}

	oc, err := objectCodec()
	if err != nil {
		return 0, err
	}
	w, err := recstream.NewWriter(out, oc, recstream.WriterOptions{
		CompressLevel: cfg.CompressLevel,
		MinChunkSize:  cfg.MinChunkSize,
	})
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		line, err := lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if err := w.Write(string(line)); err != nil {
			return n, err
		}
		n++
	}
	return n, w.Close()
}

func packNetstr(lines *recstream.LineTokenizer, out io.Writer) (int, error) {
	nw := recstream.NewNetstrWriter(out)
	n := 0
	for {
		line, err := lines.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		key, val, ok := bytes.Cut(line, []byte{'\t'})
		if !ok {
			return n, fmt.Errorf("line %d has no tab separator", n+1)
		}
		if err := nw.Write(recstream.Record{Key: key, Value: val}); err != nil {
			return n, err
		}
		n++
	}
}

func init() {
	packCmd.Flags().StringVarP(&packInput, "input", "i", "-", "Input file ('-' for stdin)")
	packCmd.Flags().BoolVar(&packLegacy, "legacy", false, "Write the legacy netstr format")
	rootCmd.AddCommand(packCmd)
}
