package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hugr-lab/fetchargs"
	"github.com/hugr-lab/fetchargs/args"
	"github.com/hugr-lab/fetchargs/condition"
)

// isYAML reports whether path has a YAML extension.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, exitError(exitInput, "reading stdin: %s", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path from user CLI arg
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, exitError(exitInput, "file not found: %s", path)
		}
		return nil, exitError(exitInput, "reading file: %s", err)
	}
	return data, nil
}

// loadRegistry returns the built-in registry when path is empty, a YAML
// registry definition for .yaml/.yml files, and a snapshot written by
// "registry export" otherwise.
func loadRegistry(cmd *cobra.Command, path string) (*condition.StaticRegistry, error) {
	if path == "" {
		return condition.DefaultRegistry(), nil
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	var reg *condition.StaticRegistry
	if isYAML(path) {
		reg, err = condition.LoadYAML(bytes.NewReader(data))
	} else {
		reg, err = fetchargs.ImportRegistry(bytes.NewReader(data))
	}
	if err != nil {
		return nil, exitError(exitConfiguration, "loading registry %s: %s", path, err)
	}
	return reg, nil
}

// decodeBag parses an argument bag from JSON, or YAML for .yaml/.yml files.
func decodeBag(data []byte, path string) (args.Bag, error) {
	var bag map[string]any
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(data, &bag)
	} else {
		err = json.Unmarshal(data, &bag)
	}
	if err != nil {
		return nil, exitError(exitInput, "parsing arguments: %s", err)
	}
	if bag == nil {
		bag = map[string]any{}
	}
	return args.Bag(bag), nil
}

// newLogger returns a stderr logger; --verbose enables debug output.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
