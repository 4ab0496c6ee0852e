package scene

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadHeightmap reads a CSV heightmap: one row of comma-separated heights
// per grid row, row-major from z=0. Blank lines and lines starting with
// '#' are skipped. Returns the heights with the parsed width and depth.
func LoadHeightmap(path string) ([]float32, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening heightmap %s: %w", path, err)
	}
	defer f.Close()

	var (
		heights []float32
		width   int
		depth   int
	)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if width == 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, 0, 0, fmt.Errorf("heightmap %s line %d: expected %d values, got %d",
				path, lineNo, width, len(fields))
		}

		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("heightmap %s line %d field %d: %w",
					path, lineNo, i+1, err)
			}
			heights = append(heights, float32(v))
		}
		depth++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("reading heightmap %s: %w", path, err)
	}
	if depth == 0 {
		return nil, 0, 0, fmt.Errorf("heightmap %s: no data rows", path)
	}
	return heights, width, depth, nil
}
