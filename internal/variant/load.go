package variant

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed variants/*.yaml
var builtins embed.FS

// Names lists the built-in variants.
func Names() []string {
	entries, err := fs.ReadDir(builtins, "variants")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin loads one of the embedded variants by name.
func Builtin(name string) (*Variant, error) {
	data, err := builtins.ReadFile(path.Join("variants", name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownVariant, name, strings.Join(Names(), ", "))
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Load reads a variant from a YAML file on disk.
func Load(file string) (*Variant, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("variant: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return v, nil
}

// Resolve treats nameOrPath as a built-in name first and a file path otherwise.
func Resolve(nameOrPath string) (*Variant, error) {
	if nameOrPath == "" {
		nameOrPath = "runway"
	}
	if !strings.ContainsAny(nameOrPath, `/\`) && path.Ext(nameOrPath) == "" {
		return Builtin(nameOrPath)
	}
	return Load(nameOrPath)
}

// Parse decodes, defaults and validates a variant. Unknown keys are rejected.
func Parse(data []byte) (*Variant, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var v Variant
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("variant: parsing YAML: %w", err)
	}
	v.withDefaults()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}
