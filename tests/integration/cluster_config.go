package integration

import (
	"os"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/tests/helpers"
)

// ClusterConfig holds configuration for in-cluster testing
type ClusterConfig struct {
	DatabaseURL string
	Storage     config.StorageConfig
	IsInCluster bool
	Namespace   string
}

// SetupInClusterEnvironment resolves the backing services the integration
// tests run against.
func SetupInClusterEnvironment() *ClusterConfig {
	cfg := &ClusterConfig{
		DatabaseURL: helpers.DatabaseURL(),
		IsInCluster: isRunningInCluster(),
		Namespace:   getNamespace(),
		Storage: config.StorageConfig{
			Endpoint:  os.Getenv("ARCHIVE_S3_ENDPOINT"),
			AccessKey: os.Getenv("ARCHIVE_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("ARCHIVE_S3_SECRET_KEY"),
			Bucket:    os.Getenv("ARCHIVE_S3_BUCKET"),
			Region:    os.Getenv("ARCHIVE_S3_REGION"),
			UseSSL:    os.Getenv("ARCHIVE_S3_USE_SSL") == "true",
		},
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "sdv-studio-test"
	}
	return cfg
}

// isRunningInCluster detects if we're running inside a Kubernetes cluster
func isRunningInCluster() bool {
	if _, err := os.Stat("/var/run/secrets/kubernetes.io/serviceaccount/token"); err == nil {
		return true
	}
	return os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

// getNamespace returns the current Kubernetes namespace
func getNamespace() string {
	if data, err := os.ReadFile("/var/run/secrets/kubernetes.io/serviceaccount/namespace"); err == nil {
		return string(data)
	}
	if ns := os.Getenv("NAMESPACE"); ns != "" {
		return ns
	}
	return "sdv-studio"
}
