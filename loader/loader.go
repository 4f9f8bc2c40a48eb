// Package loader parses raw entity feature files into the ID → vector
// mapping consumed by featgo.New.
//
// The expected line format is whitespace separated:
//
//	<entity-id> <v1> <v2> ... <vN>
//
// Blank lines and lines starting with '#' are skipped. Vector lengths are
// not validated here; dimension consistency is enforced by
// FeatureModule.Build.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds parallel file parsing to avoid FD exhaustion.
const defaultConcurrency = 8

// Load parses feature lines from r.
func Load(r io.Reader) (map[string][]float32, error) {
	features := make(map[string][]float32)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected id followed by at least one value", lineNo)
		}

		vec := make([]float32, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", lineNo, f, err)
			}
			vec = append(vec, float32(v))
		}

		features[fields[0]] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return features, nil
}

// LoadFile parses a single feature file.
func LoadFile(path string) (map[string][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	features, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return features, nil
}

// LoadFiles parses multiple feature files concurrently and merges the
// results. On duplicate IDs, later paths win, so the merge is deterministic
// regardless of parse completion order.
func LoadFiles(ctx context.Context, paths ...string) (map[string][]float32, error) {
	results := make([]map[string][]float32, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultConcurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string][]float32)
	for _, m := range results {
		for id, vec := range m {
			merged[id] = vec
		}
	}

	return merged, nil
}
