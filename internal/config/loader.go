package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/expstack/runcfg/internal/conftree"
)

// LoadFile parses a single config file into an ordered tree. The format is
// chosen by extension: .yml/.yaml or .json. Any other extension fails with
// ErrUnsupportedFormat. An empty file yields an empty tree.
func LoadFile(path string) (*conftree.Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	defer file.Close()

	tree := conftree.New()

	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		err = yaml.NewDecoder(file).Decode(tree)
	case ".json":
		err = json.NewDecoder(file).Decode(tree)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	if errors.Is(err, io.EOF) {
		return conftree.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding config file %q: %w", path, err)
	}

	return tree, nil
}

// LoadFiles loads every path and folds the results with conftree.Merge, so
// later files override earlier ones. With no paths it returns an empty
// tree.
func LoadFiles(paths []string) (*conftree.Tree, error) {
	merged := conftree.New()
	for _, path := range paths {
		tree, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged = conftree.Merge(merged, tree)
	}
	return merged, nil
}
