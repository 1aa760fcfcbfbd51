package mediaservices

import (
	"fmt"
	"os"

	"media-transform-api/utils"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/mediaservices/armmediaservices/v3"
	"go.uber.org/zap"
)

var Default *Provisioner

// InitMediaServices builds the Transforms client from the environment and
// installs the process-wide provisioner.
func InitMediaServices(logger *zap.Logger) error {
	subscription := utils.MustGetEnv("AZURE_SUBSCRIPTION_ID")
	resourceGroup := utils.MustGetEnv("AZURE_RESOURCE_GROUP")
	account := utils.MustGetEnv("AZURE_MEDIA_ACCOUNT")

	sugar := logger.Sugar()
	sugar.Info("Initializing media services client")

	cred, err := buildCredential(logger)
	if err != nil {
		return fmt.Errorf("failed to build media services credential: %w", err)
	}

	client, err := armmediaservices.NewTransformsClient(subscription, cred, nil)
	if err != nil {
		return fmt.Errorf("failed to create transforms client: %w", err)
	}

	Default = NewProvisioner(client, resourceGroup, account)
	sugar.Infow("Media services client initialized successfully",
		"resource_group", resourceGroup,
		"account", account)
	return nil
}

func buildCredential(logger *zap.Logger) (azcore.TokenCredential, error) {
	sugar := logger.Sugar()

	if utils.EnvSet("AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET") {
		sugar.Info("Using service principal credentials")
		return azidentity.NewClientSecretCredential(
			os.Getenv("AZURE_TENANT_ID"),
			os.Getenv("AZURE_CLIENT_ID"),
			os.Getenv("AZURE_CLIENT_SECRET"),
			nil,
		)
	}

	sugar.Info("Using default credential chain")
	return azidentity.NewDefaultAzureCredential(nil)
}
