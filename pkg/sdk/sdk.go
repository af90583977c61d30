package sdk

import (
	"context"
	"net/http"

	// config
	"github.com/linecard/filelink/pkg/convention/config"

	// services
	"github.com/linecard/filelink/pkg/service/bucket"
	"github.com/linecard/filelink/pkg/service/function"
	"github.com/linecard/filelink/pkg/service/gateway"
	"github.com/linecard/filelink/pkg/service/table"

	// conventions
	"github.com/linecard/filelink/pkg/convention/curl"
	"github.com/linecard/filelink/pkg/convention/deployment"
	"github.com/linecard/filelink/pkg/convention/httproxy"
	"github.com/linecard/filelink/pkg/convention/stack"
	"github.com/linecard/filelink/pkg/convention/storage"

	// clients
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type Clients struct {
	StsClient          *sts.Client
	S3Client           *s3.Client
	DynamoDBClient     *dynamodb.Client
	LambdaClient       *lambda.Client
	IamClient          *iam.Client
	ApiGatewayV2Client *apigatewayv2.Client
	HttpClient         *http.Client
}

type Services struct {
	Bucket   bucket.Service
	Table    table.Service
	Function function.Service
	Gateway  gateway.Service
}

type Conventions struct {
	Storage    storage.Convention
	Deployment deployment.Convention
	Httproxy   httproxy.Convention
	Curl       curl.Convention
	Stack      stack.Convention
}

type API struct {
	Conventions
	Clients   Clients
	Config    config.Config
	AwsConfig aws.Config
}

func Init(ctx context.Context, awsConfig aws.Config, config config.Config) (API, error) {
	clients, err := InitClients(ctx, awsConfig)
	if err != nil {
		return API{}, err
	}

	services, err := InitServices(ctx, clients)
	if err != nil {
		return API{}, err
	}

	conventions, err := InitConventions(ctx, config, services, clients)
	if err != nil {
		return API{}, err
	}

	return API{
		Conventions: conventions,
		Clients:     clients,
		Config:      config,
		AwsConfig:   awsConfig,
	}, nil
}

func InitConventions(ctx context.Context, config config.Config, services Services, clients Clients) (Conventions, error) {
	storageConvention := storage.FromServices(config, services.Bucket, services.Table)
	deploymentConvention := deployment.FromServices(config, services.Function)
	httproxyConvention := httproxy.FromServices(config, services.Gateway, services.Function)

	return Conventions{
		Storage:    storageConvention,
		Deployment: deploymentConvention,
		Httproxy:   httproxyConvention,
		Curl:       curl.FromClient(config, clients.HttpClient),
		Stack:      stack.FromConventions(config, storageConvention, deploymentConvention, httproxyConvention),
	}, nil
}

func InitServices(ctx context.Context, clients Clients) (Services, error) {
	return Services{
		Bucket:   bucket.FromClients(clients.S3Client),
		Table:    table.FromClients(clients.DynamoDBClient),
		Function: function.FromClients(clients.LambdaClient, clients.IamClient),
		Gateway:  gateway.FromClients(clients.ApiGatewayV2Client, clients.LambdaClient),
	}, nil
}

func InitClients(ctx context.Context, awsConfig aws.Config) (Clients, error) {
	return Clients{
		StsClient:          sts.NewFromConfig(awsConfig),
		S3Client:           s3.NewFromConfig(awsConfig),
		DynamoDBClient:     dynamodb.NewFromConfig(awsConfig),
		LambdaClient:       lambda.NewFromConfig(awsConfig),
		IamClient:          iam.NewFromConfig(awsConfig),
		ApiGatewayV2Client: apigatewayv2.NewFromConfig(awsConfig),
		HttpClient:         http.DefaultClient,
	}, nil
}
