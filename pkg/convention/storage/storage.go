package storage

import (
	"context"

	"github.com/linecard/filelink/pkg/convention/config"
	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/service/bucket"
	"github.com/linecard/filelink/pkg/service/table"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type BucketService interface {
	Inspect(ctx context.Context, name string) (bucket.State, error)
	PutBucket(ctx context.Context, d bucket.Definition) (bucket.State, error)
	EmptyBucket(ctx context.Context, name string) (int, error)
	DeleteBucket(ctx context.Context, name string) error
}

type TableService interface {
	Inspect(ctx context.Context, name string) (table.State, error)
	PutTable(ctx context.Context, d table.Definition) (table.State, error)
	Tags(ctx context.Context, arn string) (map[string]string, error)
	DeleteTable(ctx context.Context, name string) error
}

// Storage is the observed state of the object store and, when provisioned, the metadata index.
type Storage struct {
	Bucket bucket.State `json:"bucket" yaml:"bucket"`
	Table  table.State  `json:"table" yaml:"table"`
}

// Teardown reports what Destroy did with each store.
type Teardown struct {
	Retained       bool `json:"retained" yaml:"retained"`
	ObjectsRemoved int  `json:"objectsRemoved" yaml:"objectsRemoved"`
	TableDeleted   bool `json:"tableDeleted" yaml:"tableDeleted"`
}

type Services struct {
	Bucket BucketService
	Table  TableService
}

type Convention struct {
	Config  config.Config
	Service Services
}

func FromServices(c config.Config, b BucketService, t TableService) Convention {
	return Convention{
		Config: c,
		Service: Services{
			Bucket: b,
			Table:  t,
		},
	}
}

func (c Convention) Find(ctx context.Context, plan manifest.Plan) (Storage, error) {
	var storage Storage
	var err error

	ctx, span := otel.Tracer("").Start(ctx, "storage.Find")
	defer span.End()

	if storage.Bucket, err = c.Service.Bucket.Inspect(ctx, plan.Bucket.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Storage{}, err
	}

	if !plan.Table.Enabled {
		return storage, nil
	}

	if storage.Table, err = c.Service.Table.Inspect(ctx, plan.Table.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Storage{}, err
	}

	return storage, nil
}

// Deploy converges the bucket and then the table. Neither depends on the other.
func (c Convention) Deploy(ctx context.Context, plan manifest.Plan) (Storage, error) {
	var storage Storage
	var err error

	ctx, span := otel.Tracer("").Start(ctx, "storage.Deploy")
	defer span.End()

	storage.Bucket, err = c.Service.Bucket.PutBucket(ctx, bucket.Definition{
		Name:        plan.Bucket.Name,
		Region:      plan.Bucket.Region,
		Versioned:   plan.Bucket.Versioned,
		CorsMethods: plan.Bucket.Cors.Methods,
		CorsOrigins: plan.Bucket.Cors.Origins,
		CorsHeaders: plan.Bucket.Cors.Headers,
		Policy:      plan.Bucket.Policy.String(),
		Tags:        plan.Bucket.Tags,
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Storage{}, err
	}

	if !plan.Table.Enabled {
		if _, err := c.dropOrphanTable(ctx, plan); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Storage{}, err
		}
		return storage, nil
	}

	storage.Table, err = c.Service.Table.PutTable(ctx, table.Definition{
		Name:         plan.Table.Name,
		PartitionKey: plan.Table.PartitionKey,
		SortKey:      plan.Table.SortKey,
		IndexName:    plan.Table.IndexName,
		Tags:         plan.Table.Tags,
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Storage{}, err
	}

	return storage, nil
}

// Destroy empties and deletes both stores of an ephemeral stack. A persistent stack keeps them untouched.
func (c Convention) Destroy(ctx context.Context, plan manifest.Plan) (Teardown, error) {
	ctx, span := otel.Tracer("").Start(ctx, "storage.Destroy")
	defer span.End()

	if plan.Bucket.Retention != config.Ephemeral {
		log.Info().Str("bucket", plan.Bucket.Name).Str("table", plan.Table.Name).Msg("persistent stack, retaining storage")
		return Teardown{Retained: true}, nil
	}

	var teardown Teardown
	var err error

	if plan.Table.Enabled {
		if err = c.Service.Table.DeleteTable(ctx, plan.Table.Name); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return teardown, err
		}
		teardown.TableDeleted = true
	} else if teardown.TableDeleted, err = c.dropOrphanTable(ctx, plan); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return teardown, err
	}

	if teardown.ObjectsRemoved, err = c.Service.Bucket.EmptyBucket(ctx, plan.Bucket.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return teardown, err
	}

	if err = c.Service.Bucket.DeleteBucket(ctx, plan.Bucket.Name); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return teardown, err
	}

	return teardown, nil
}

// dropOrphanTable removes an index this stack provisioned before it was switched to a basic
// variant. Only a table tagged with this stack and stage counts, and a persistent stack keeps it.
func (c Convention) dropOrphanTable(ctx context.Context, plan manifest.Plan) (bool, error) {
	var dropped bool

	for _, name := range c.Config.TableNames() {
		state, err := c.Service.Table.Inspect(ctx, name)
		if err != nil {
			return dropped, err
		}

		if !state.Exists {
			continue
		}

		tags, err := c.Service.Table.Tags(ctx, state.Arn)
		if err != nil {
			return dropped, err
		}

		if tags[config.TagStack] != c.Config.Stack || tags[config.TagStage] != c.Config.Stage {
			log.Debug().Str("table", name).Msg("table belongs to another stack")
			continue
		}

		if plan.Bucket.Retention != config.Ephemeral {
			log.Warn().Str("table", name).Msg("index disabled on a persistent stack, retaining table")
			continue
		}

		log.Info().Str("table", name).Msg("index disabled, deleting table")

		if err := c.Service.Table.DeleteTable(ctx, name); err != nil {
			return dropped, err
		}
		dropped = true
	}

	return dropped, nil
}
