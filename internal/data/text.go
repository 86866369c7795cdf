package data

import (
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// readText reads path, decodes it from the named text encoding to UTF-8 and
// returns the decoded bytes plus a fingerprint of the raw file.
func readText(path, encoding string) ([]byte, uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	sum := xxhash.Sum64(raw)
	out, err := decode(raw, encoding)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, sum, nil
}

func decode(raw []byte, encoding string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return raw, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}
	return enc.NewDecoder().Bytes(raw)
}
