package kubernetes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"viya-model-manager/internal/config"
	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
)

// Keys read from the credentials Secret.
const (
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
)

type secretCredentials struct {
	client    kubernetes.Interface
	namespace string
	name      string
}

// NewSecretCredentialSource reads Viya credentials from a Kubernetes Secret.
func NewSecretCredentialSource(cfg *config.KubernetesConfig) (ports.CredentialSource, error) {
	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create k8s client: %w", err)
	}

	return NewSecretCredentialSourceFromClient(client, cfg.Namespace, cfg.SecretName), nil
}

func NewSecretCredentialSourceFromClient(client kubernetes.Interface, namespace, name string) ports.CredentialSource {
	if namespace == "" {
		namespace = "default"
	}
	return &secretCredentials{client: client, namespace: namespace, name: name}
}

func (s *secretCredentials) Credentials(ctx context.Context) (ports.Credentials, error) {
	secret, err := s.client.CoreV1().Secrets(s.namespace).Get(ctx, s.name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return ports.Credentials{}, fmt.Errorf("secret %s/%s: %w", s.namespace, s.name, domain.ErrNoCredentials)
		}
		return ports.Credentials{}, fmt.Errorf("get secret %s/%s: %w", s.namespace, s.name, err)
	}

	value := func(key string) string {
		if b, ok := secret.Data[key]; ok {
			return strings.TrimSpace(string(b))
		}
		return strings.TrimSpace(secret.StringData[key])
	}

	creds := ports.Credentials{
		Username:     value(KeyUsername),
		Password:     value(KeyPassword),
		ClientID:     value(KeyClientID),
		ClientSecret: value(KeyClientSecret),
	}
	if !creds.HasPassword() && !creds.HasClientSecret() {
		return ports.Credentials{}, fmt.Errorf("secret %s/%s has no usable keys: %w", s.namespace, s.name, domain.ErrNoCredentials)
	}
	return creds, nil
}
