package mesh

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
)

// zstdLevel is the compression level of .zst exports.
const zstdLevel = 3

// WriteOBJ writes m as Wavefront OBJ: one "v x y z" line per vertex, a
// blank line, then one "f a b c" line per triangle with 1-based indices.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %d %d %d\n", v.X, v.Y, v.Z)
	}
	bw.WriteString("\n")
	for t := 0; t+2 < len(m.Indices); t += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Indices[t]+1, m.Indices[t+1]+1, m.Indices[t+2]+1)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing obj: %w", err)
	}
	return nil
}

// SaveOBJ writes m to path. A ".zst" suffix stores the OBJ text
// zstd-compressed.
func SaveOBJ(path string, m *Mesh) error {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		return err
	}

	data := buf.Bytes()
	if strings.HasSuffix(path, ".zst") {
		var err error
		data, err = zstd.CompressLevel(nil, data, zstdLevel)
		if err != nil {
			return fmt.Errorf("compressing obj: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing obj file: %w", err)
	}
	return nil
}
