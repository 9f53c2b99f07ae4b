// Package layout maps symbol names to paths inside a store directory.
//
// A store keeps its master index at the root and shards symbol files into one
// sub-directory per lowercased first character:
//
//	root/broker.master
//	root/a/AAPL
//	root/s/SPCE
//	root/_/^GSPC
package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/amistore/errs"
)

// MasterFileName is the file name of the master index.
const MasterFileName = "broker.master"

// IndexShard holds symbols starting with an index or special prefix.
const IndexShard = "_"

var reservedPrefixes = []string{"CON", "AUX", "LST", "PRN", "NUL", "EOF", "INP", "OUT"}

// ShardOf returns the shard directory name of symbol.
//
// Returns:
//   - string: "_" for symbols starting with '^', '~' or '@', otherwise the
//     lowercased first character
//   - error: ErrInvalidSymbol for an empty symbol
func ShardOf(symbol string) (string, error) {
	if symbol == "" {
		return "", fmt.Errorf("%w: empty symbol", errs.ErrInvalidSymbol)
	}

	switch c := symbol[0]; c {
	case '^', '~', '@':
		return IndexShard, nil
	default:
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		return string(c), nil
	}
}

// PathOf returns the file path of symbol below root. The master index name
// resolves to the master file itself.
//
// Returns:
//   - string: The path
//   - error: ErrInvalidSymbol if the symbol is empty, starts with '.', or would
//     escape its shard
func PathOf(root, symbol string) (string, error) {
	if strings.EqualFold(symbol, MasterFileName) {
		return MasterPath(root), nil
	}

	if err := checkPathSafe(symbol); err != nil {
		return "", err
	}

	shard, err := ShardOf(symbol)
	if err != nil {
		return "", err
	}

	return filepath.Join(root, shard, symbol), nil
}

// MasterPath returns the path of the master index below root.
func MasterPath(root string) string {
	return filepath.Join(root, MasterFileName)
}

// IsReserved reports whether the first three characters of symbol spell a reserved
// device name, ignoring case.
func IsReserved(symbol string) bool {
	if len(symbol) < 3 {
		return false
	}

	for _, prefix := range reservedPrefixes {
		if strings.EqualFold(symbol[:3], prefix) {
			return true
		}
	}

	return false
}

// Sanitize rewrites a reserved three-character prefix by inserting underscores
// between its characters, e.g. "CON.DE" becomes "C_O_N.DE". Other symbols are
// returned unchanged. The rewrite cannot be undone.
func Sanitize(symbol string) string {
	if !IsReserved(symbol) {
		return symbol
	}

	var b strings.Builder
	b.Grow(len(symbol) + 2)
	b.WriteByte(symbol[0])
	b.WriteByte('_')
	b.WriteByte(symbol[1])
	b.WriteByte('_')
	b.WriteString(symbol[2:])

	return b.String()
}

func checkPathSafe(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", errs.ErrInvalidSymbol)
	}

	// a leading dot would name the shard "." and put the file at the root
	if symbol[0] == '.' || strings.ContainsAny(symbol, "/\\\x00") {
		return fmt.Errorf("%w: %q cannot be used as a file name", errs.ErrInvalidSymbol, symbol)
	}

	return nil
}
