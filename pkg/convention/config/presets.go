package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/linecard/filelink/pkg/fault"
)

const (
	DefaultPreset    = "gateway-indexed"
	DefaultTableName = "FileLinkDB"
)

func defaultCors() Cors {
	return Cors{
		Methods: []string{"GET", "POST", "PUT", "DELETE"},
		Origins: []string{"*"},
		Headers: []string{"*"},
	}
}

func indexTable() Table {
	return Table{
		Enabled:      true,
		Name:         DefaultTableName,
		PartitionKey: "ID",
		SortKey:      "Path",
		IndexName:    "Path-ID-Index",
	}
}

// presets mirror the four stack variants that were previously maintained as copies.
var presets = map[string]func() Config{
	"gateway-indexed": func() Config {
		return Config{
			Retention: Ephemeral,
			Bucket:    Bucket{Name: "file-link-s3bucket", Versioned: true, Cors: defaultCors()},
			Table:     indexTable(),
			Function:  Function{MemorySize: 3008, Timeout: 900, Architecture: "arm64"},
			Entry:     Entry{Kind: Gateway},
		}
	},
	"url-indexed": func() Config {
		return Config{
			Retention: Persistent,
			Bucket:    Bucket{Versioned: true, Cors: defaultCors()},
			Table:     indexTable(),
			Function:  Function{MemorySize: 3008, Timeout: 900, Architecture: "arm64"},
			Entry:     Entry{Kind: Url},
		}
	},
	"gateway-basic": func() Config {
		t := indexTable()
		t.Enabled, t.Name = false, ""
		return Config{
			Retention: Persistent,
			Bucket:    Bucket{Cors: defaultCors()},
			Table:     t,
			Function:  Function{MemorySize: 512, Timeout: 30, Architecture: "arm64"},
			Entry:     Entry{Kind: Gateway},
		}
	},
	"url-basic": func() Config {
		t := indexTable()
		t.Enabled, t.Name = false, ""
		return Config{
			Retention: Ephemeral,
			Bucket:    Bucket{Cors: defaultCors()},
			Table:     t,
			Function:  Function{MemorySize: 512, Timeout: 30, Architecture: "arm64"},
			Entry:     Entry{Kind: Url},
		}
	},
}

func Preset(name string) (Config, error) {
	build, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: preset %s does not exist. valid options: %s", fault.ErrInvalidConfig, name, strings.Join(Presets(), ", "))
	}

	c := build()
	c.Preset = name
	c.Stack = "filelink"
	return c, nil
}

func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
