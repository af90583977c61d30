package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/linecard/filelink/internal/umwelt"
	"github.com/linecard/filelink/internal/util"
	"github.com/linecard/filelink/pkg/fault"
	"github.com/rs/zerolog/log"
)

const DefaultFile = "filelink.toml"

// Every stack file key can be overridden from the environment. The CLI writes its flags into
// these variables, so flags win over env which wins over the file.
const (
	EnvFile         = "FILELINK_FILE"
	EnvPreset       = "FILELINK_PRESET"
	EnvStack        = "FILELINK_STACK"
	EnvStage        = "FILELINK_STAGE"
	EnvRetention    = "FILELINK_RETENTION"
	EnvBucket       = "FILELINK_BUCKET"
	EnvVersioned    = "FILELINK_VERSIONED"
	EnvIndexed      = "FILELINK_INDEXED"
	EnvTable        = "FILELINK_TABLE"
	EnvMemory       = "FILELINK_MEMORY"
	EnvTimeout      = "FILELINK_TIMEOUT"
	EnvArchitecture = "FILELINK_ARCHITECTURE"
	EnvArtifact     = "FILELINK_ARTIFACT"
	EnvImageUri     = "FILELINK_IMAGE_URI"
	EnvEntry        = "FILELINK_ENTRY"
	EnvCorsOrigins  = "FILELINK_CORS_ORIGINS"
)

const fallbackStage = "dev"

type presetOnly struct {
	Preset string `toml:"preset"`
}

// FromHere resolves the stack configuration: preset defaults, then the stack file at path
// (missing file is fine), then FILELINK_* env, then what the caller and checkout say.
func FromHere(here umwelt.Here, path string) (c Config, err error) {
	var document []byte
	if path != "" && util.PathExists(path) {
		if document, err = os.ReadFile(path); err != nil {
			return Config{}, err
		}
	}

	if c, err = Decode(document); err != nil {
		return Config{}, err
	}

	if err = c.fromEnv(); err != nil {
		return Config{}, err
	}

	c.Caller.Arn = here.Caller.Arn
	c.Account.Id = here.Caller.Account
	c.Account.Region = here.Caller.Region

	c.Git.Branch = here.Git.Branch
	c.Git.Sha = here.Git.Sha
	c.Git.Root = here.Git.Root
	c.Git.Dirty = here.Git.Dirty

	if c.Stage == "" {
		if here.Git.Branch != "" {
			c.Stage = util.DeSlasher(here.Git.Branch)
		} else {
			c.Stage = fallbackStage
		}
	}

	log.Debug().
		Str("preset", c.Preset).
		Str("stack", c.Stack).
		Str("stage", c.Stage).
		Str("variant", c.Variant()).
		Msg("resolved stack configuration")

	return c, nil
}

// Decode lays a stack file over the preset it names. Keys absent from the document keep
// their preset values.
func Decode(document []byte) (Config, error) {
	var selector presetOnly
	if _, err := toml.Decode(string(document), &selector); err != nil {
		return Config{}, fmt.Errorf("%w: %w", fault.ErrInvalidConfig, err)
	}

	name := DefaultPreset
	if selector.Preset != "" {
		name = selector.Preset
	}
	if value, exists := os.LookupEnv(EnvPreset); exists && value != "" {
		name = value
	}

	c, err := Preset(name)
	if err != nil {
		return Config{}, err
	}

	meta, err := toml.Decode(string(document), &c)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", fault.ErrInvalidConfig, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys in stack file: %s", fault.ErrInvalidConfig, strings.Join(keys, ", "))
	}

	c.Preset = name
	return c, nil
}

func (c *Config) fromEnv() (err error) {
	lookup := func(key string, apply func(string) error) {
		if err != nil {
			return
		}
		if value, exists := os.LookupEnv(key); exists && value != "" {
			if applyErr := apply(value); applyErr != nil {
				err = fmt.Errorf("%w: %s=%q: %w", fault.ErrInvalidConfig, key, value, applyErr)
			}
		}
	}

	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}

	flag := func(dst *bool) func(string) error {
		return func(v string) (err error) { *dst, err = strconv.ParseBool(v); return }
	}

	number := func(dst *int32) func(string) error {
		return func(v string) error {
			n, err := strconv.ParseInt(v, 10, 32)
			*dst = int32(n)
			return err
		}
	}

	lookup(EnvStack, str(&c.Stack))
	lookup(EnvStage, str(&c.Stage))
	lookup(EnvRetention, func(v string) error { c.Retention = Retention(v); return nil })
	lookup(EnvBucket, str(&c.Bucket.Name))
	lookup(EnvVersioned, flag(&c.Bucket.Versioned))
	lookup(EnvIndexed, flag(&c.Table.Enabled))
	lookup(EnvTable, str(&c.Table.Name))
	lookup(EnvMemory, number(&c.Function.MemorySize))
	lookup(EnvTimeout, number(&c.Function.Timeout))
	lookup(EnvArchitecture, str(&c.Function.Architecture))
	lookup(EnvArtifact, str(&c.Function.Artifact))
	lookup(EnvImageUri, str(&c.Function.ImageUri))
	lookup(EnvEntry, func(v string) error { c.Entry.Kind = EntryKind(v); return nil })
	lookup(EnvCorsOrigins, func(v string) error {
		c.Bucket.Cors.Origins = strings.Split(v, ",")
		return nil
	})

	return err
}
