// Package recstream implements the record-stream codec used by batch-worker
// processes to consume task input and produce task output. Inputs are
// forward-only byte sources (files, network handles) of declared or unknown
// length; the codec recovers a lazy sequence of logical records from them
// despite short reads, a legacy wire format, and possible corruption.
//
// Components:
//   - Tokenizer: generic incremental matcher that grows a buffer from an
//     io.Reader and emits matches of an anchored pattern at the buffer head.
//   - Legacy netstr framing: ASCII length-prefixed key/value records.
//   - Chunked container: checksummed, optionally zlib-compressed chunks
//     carrying back-to-back self-delimiting objects (see codec.Codec).
//   - Open: single decode entry point that sniffs one byte and routes the
//     stream to the legacy or the chunked decoder.
//
// Decoding is synchronous, pull-based and non-restartable: a Reader owns its
// buffer for the duration of one pass over the source, and any data fault
// (*DataError, kind Truncated or Corrupted) terminates the sequence. Closing
// or retrying the source is the caller's responsibility.
//
// Wire format of a chunked stream, per chunk:
//
//	marker(1, 0x80|version) | compressed(1) | crc32(u32 le) | length(u64 le) | payload(length)
//
// A zero length marks the terminal chunk. The checksum always covers the
// decompressed payload. A first byte below 0x80 is not a marker but the
// start of a legacy netstr stream.
package recstream
