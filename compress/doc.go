// Package compress provides the codecs used to compress store snapshots.
//
// A snapshot is a tar stream of the master index and every symbol file. Price
// records compress well because neighbouring records share most timestamp bits and
// their prices change slowly, so the tar is compressed as one payload:
//   - None: no compression
//   - Zstd: best ratio, the default
//   - S2: fast with a fair ratio
//   - LZ4: fastest decompression
//
// Codecs are stateless values and are safe for concurrent use:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress(tarball)
//
// Zstd uses klauspost/compress by default. Building with the gozstd tag (and cgo)
// switches to the cgo binding of the reference library; the frames are compatible.
package compress
