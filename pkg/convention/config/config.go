package config

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linecard/filelink/internal/util"
)

//go:embed embedded/*
var embedded embed.FS

type EntryKind string

const (
	Gateway EntryKind = "gateway"
	Url     EntryKind = "url"
)

// Retention decides what teardown does with the Object Store and Metadata Index.
type Retention string

const (
	Ephemeral  Retention = "ephemeral"
	Persistent Retention = "persistent"
)

type Cors struct {
	Methods []string `toml:"methods" json:"methods" yaml:"methods"`
	Origins []string `toml:"origins" json:"origins" yaml:"origins"`
	Headers []string `toml:"headers" json:"headers" yaml:"headers"`
}

type Bucket struct {
	Name      string `toml:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Versioned bool   `toml:"versioned" json:"versioned" yaml:"versioned"`
	Cors      Cors   `toml:"cors" json:"cors" yaml:"cors"`
}

type Table struct {
	Enabled      bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Name         string `toml:"name" json:"name,omitempty" yaml:"name,omitempty"`
	PartitionKey string `toml:"partition_key" json:"partitionKey" yaml:"partitionKey"`
	SortKey      string `toml:"sort_key" json:"sortKey" yaml:"sortKey"`
	IndexName    string `toml:"index_name" json:"indexName" yaml:"indexName"`
}

type Function struct {
	MemorySize   int32  `toml:"memory" json:"memory" yaml:"memory"`
	Timeout      int32  `toml:"timeout" json:"timeout" yaml:"timeout"`
	Architecture string `toml:"architecture" json:"architecture" yaml:"architecture"`
	// Artifact is a prebuilt deployment zip or a bare bootstrap binary.
	Artifact string `toml:"artifact" json:"artifact,omitempty" yaml:"artifact,omitempty"`
	ImageUri string `toml:"image_uri" json:"imageUri,omitempty" yaml:"imageUri,omitempty"`
}

type Entry struct {
	Kind EntryKind `toml:"kind" json:"kind" yaml:"kind"`
}

type Caller struct {
	Arn string
}

type Account struct {
	Id     string
	Region string
}

type Git struct {
	Branch string
	Sha    string
	Root   string
	Dirty  bool
}

type Config struct {
	Preset    string    `toml:"preset" json:"preset" yaml:"preset"`
	Stack     string    `toml:"stack" json:"stack" yaml:"stack"`
	Stage     string    `toml:"stage" json:"stage" yaml:"stage"`
	Retention Retention `toml:"retention" json:"retention" yaml:"retention"`
	Bucket    Bucket    `toml:"bucket" json:"bucket" yaml:"bucket"`
	Table     Table     `toml:"table" json:"table" yaml:"table"`
	Function  Function  `toml:"function" json:"function" yaml:"function"`
	Entry     Entry     `toml:"entry" json:"entry" yaml:"entry"`
	Caller    Caller    `toml:"-" json:"caller" yaml:"-"`
	Account   Account   `toml:"-" json:"account" yaml:"-"`
	Git       Git       `toml:"-" json:"git" yaml:"-"`
}

// derived information
func (c Config) Indexed() bool {
	return c.Table.Enabled
}

func (c Config) Variant() string {
	if c.Indexed() {
		return string(c.Entry.Kind) + "-indexed"
	}
	return string(c.Entry.Kind) + "-basic"
}

func (c Config) ResourceName() string {
	return c.Stack + "-" + util.DeSlasher(c.Stage)
}

// BucketName falls back to a name derived from stack, stage, account and region,
// standing in for the platform assigned name a declarative tool would pick.
func (c Config) BucketName() string {
	if c.Bucket.Name != "" {
		return c.Bucket.Name
	}

	return util.BucketSafe(strings.Join([]string{c.ResourceName(), c.Account.Id, c.Account.Region}, "-"))
}

func (c Config) TableName() string {
	if c.Table.Name != "" {
		return c.Table.Name
	}
	return c.ResourceName()
}

// TableNames lists every name a table of this stack may carry, including the
// preset default used before the index was switched off.
func (c Config) TableNames() []string {
	if name := c.TableName(); name != DefaultTableName {
		return []string{name, DefaultTableName}
	}
	return []string{DefaultTableName}
}

func (c Config) FunctionName() string {
	return c.ResourceName()
}

func (c Config) RoleName() string {
	return c.ResourceName()
}

func (c Config) PolicyName() string {
	return c.ResourceName()
}

func (c Config) ApiName() string {
	return c.ResourceName()
}

func (c Config) Tags() map[string]string {
	tags := map[string]string{
		TagStack:     c.Stack,
		TagStage:     c.Stage,
		TagRetention: string(c.Retention),
		TagVariant:   c.Variant(),
	}

	if c.Git.Sha != "" {
		tags[TagSha] = c.Git.Sha
	}

	return tags
}

const (
	TagStack     = "filelink:stack"
	TagStage     = "filelink:stage"
	TagRetention = "filelink:retention"
	TagVariant   = "filelink:variant"
	TagSha       = "filelink:git-sha"
)

func (c Config) Json(ctx context.Context) (string, error) {
	cJson, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(cJson), nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s (%s) in %s/%s", c.ResourceName(), c.Variant(), c.Account.Id, c.Account.Region)
}
