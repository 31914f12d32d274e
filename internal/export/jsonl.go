package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/dgnsrekt/barcache/internal/bars"
)

// WriteJSONL writes one compact JSON object per bar.
func WriteJSONL(w io.Writer, table *bars.Table) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	if table != nil {
		for i := range table.Bars {
			// Encode appends the newline
			if err := enc.Encode(&table.Bars[i]); err != nil {
				return fmt.Errorf("writing line %d: %w", i+1, err)
			}
		}
	}

	return bw.Flush()
}

// WriteFile writes table to path as JSONL. A ".zst" suffix selects zstd
// compression. The file is renamed into place once complete.
func WriteFile(path string, table *bars.Table) (err error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if strings.HasSuffix(path, ".zst") {
		err = writeZstd(f, table)
	} else {
		err = WriteJSONL(f, table)
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func writeZstd(w io.Writer, table *bars.Table) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if err := WriteJSONL(enc, table); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
