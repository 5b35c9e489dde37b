package configutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/titanous/json5"
)

// localName turns "dir/owlstats.json5" into "dir/owlstats.local.json5".
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readInto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(contents) == 0) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, errors.Wrapf(err, "parse %s", path)
	}
	return true, nil
}

// ReadConfig reads `name` (which must carry its extension) and merges
// `<name>.local.<ext>` over it when present. It returns os.ErrNotExist when
// neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readInto(name, &out)
	if err != nil {
		return out, err
	}

	localPath := localName(name)
	var override T
	foundLocal, err := readInto(localPath, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, errors.Wrap(err, "merge local overrides")
		}
		slog.Info("merging config with local overrides", "local", localPath)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadWithDefaults is ReadConfig with zero fields filled in from defaults.
// A missing file yields the defaults unchanged.
func ReadWithDefaults[T any](name string, defaults T) (T, error) {
	out, err := ReadConfig[T](name)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", name)
		return defaults, nil
	}
	if err != nil {
		return out, err
	}
	err = mergo.Merge(&out, defaults)
	if err != nil {
		return out, errors.Wrap(err, "apply defaults")
	}
	return out, nil
}

// ReadRecursively walks up from the working directory until it finds a
// config file matching name.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	root, err := filepath.Abs("/")
	if err != nil {
		return zero, err
	}
	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for current != root {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if errors.Is(err, os.ErrNotExist) {
			current = filepath.Dir(current)
			continue
		}
		if err != nil {
			return zero, err
		}
		return config, nil
	}

	return zero, os.ErrNotExist
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the `validate` struct tags of a config.
func Validate(config any) error {
	err := validate.Struct(config)
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
