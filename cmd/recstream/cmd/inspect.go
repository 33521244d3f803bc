package cmd

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/recstream/internal/wire"
	"github.com/unkn0wn-root/recstream/source"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Walk a stream's chunk headers without decoding records",
	Long: `Print per-chunk metadata of a chunked stream: format version,
compression flag, payload length and checksum verification. Legacy netstr
streams are reported as such.

Example:
  recstream inspect part-0000.rec`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, _, err := source.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer src.Close()
		return inspect(src, os.Stdout)
	},
}

func inspect(src io.Reader, out io.Writer) error {
	var mb [1]byte
	if _, err := io.ReadFull(src, mb[:]); err != nil {
		fmt.Fprintln(out, "empty stream")
		return nil
	}
	if wire.IsLegacy(mb[0]) {
		fmt.Fprintln(out, "format: legacy netstr")
		return nil
	}

	fmt.Fprintf(out, "format: chunked (version %d)\n", wire.Version(mb[0]))
	for i := 0; ; i++ {
		if i > 0 {
			if _, err := io.ReadFull(src, mb[:]); err != nil {
				fmt.Fprintln(out, "warning: no terminal chunk")
				return nil
			}
		}
		var hb [wire.HeaderSize]byte
		if _, err := io.ReadFull(src, hb[:]); err != nil {
			return fmt.Errorf("truncated header in chunk %d", i)
		}
		hdr, err := wire.DecodeHeader(hb[:])
		if err != nil {
			return err
		}
		if hdr.Length == 0 {
			fmt.Fprintf(out, "chunk %d: terminal\n", i)
			return nil
		}
		payload := make([]byte, hdr.Length)
		if _, err := io.ReadFull(src, payload); err != nil {
			return fmt.Errorf("truncated payload in chunk %d", i)
		}
		fmt.Fprintf(out, "chunk %d: compressed=%v length=%d crc=%08x verify=%s\n",
			i, hdr.Compressed, hdr.Length, hdr.Checksum, verify(payload, hdr))
	}
}

func verify(payload []byte, hdr wire.Header) string {
	data := payload
	if hdr.Compressed {
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return "bad deflate"
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return "bad deflate"
		}
	}
	if crc32.ChecksumIEEE(data) != hdr.Checksum {
		return "checksum mismatch"
	}
	return "ok"
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
