package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"

	"htmlpdf/archive"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readInput loads source file. Path may continue inside of a zip archive
// ("site.zip/docs/index.html"), in which case named archive entry is read.
// Files recognized as known binary formats are rejected.
func readInput(src string) ([]byte, error) {
	data, err := readSource(src)
	if err != nil {
		return nil, err
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return nil, fmt.Errorf("%w: looks like %s (%s)", ErrUnsupportedInput, kind.MIME.Value, kind.Extension)
	}
	return data, nil
}

func readSource(src string) ([]byte, error) {
	for head := src; len(head) != 0; head, _ = filepath.Split(head) {
		head = strings.TrimSuffix(head, string(filepath.Separator))
		if len(head) == 0 {
			break
		}

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}
		if fi.IsDir() && head != src {
			// directory cannot have tail - it would be simple file
			break
		}
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: unexpected path mode for (%s) => (%s)", ErrInputUnreadable, head, strings.TrimPrefix(src, head))
		}
		if head == src {
			data, err := os.ReadFile(src)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
			}
			return data, nil
		}

		tail := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
		data, err := archive.ReadFile(head, filepath.ToSlash(tail))
		if err != nil {
			return nil, fmt.Errorf("%w: (%s) => (%s): %w", ErrInputUnreadable, head, tail, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: input source was not found (%s): %w", ErrInputUnreadable, src, os.ErrNotExist)
}

// decodeInput converts markup to UTF-8. Encoding is taken from byte order
// mark or meta element, UTF-8 is assumed for valid UTF-8 data. Returns name
// of detected encoding.
func decodeInput(data []byte) ([]byte, string, error) {
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	if name != "utf-8" {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, name, fmt.Errorf("%w: unable to decode %s: %w", ErrInputUnreadable, name, err)
		}
		data = decoded
	}
	return bytes.TrimPrefix(data, utf8BOM), name, nil
}
