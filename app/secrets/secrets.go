package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// API is the slice of the Secrets Manager client the cache needs.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var _ API = (*secretsmanager.Client)(nil)

// Cache resolves named secrets to their structured JSON payloads and caches
// the result for the process lifetime.
type Cache struct {
	client API
	mu     sync.RWMutex
	cache  map[string]map[string]any
}

func NewCache(client API) *Cache {
	return &Cache{
		client: client,
		cache:  make(map[string]map[string]any),
	}
}

func (c *Cache) Get(ctx context.Context, name string) (map[string]any, error) {
	if name == "" {
		return nil, fmt.Errorf("secret name not provided")
	}

	c.mu.RLock()
	value, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}

	resp, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to fetch secret %s: %w", name, err)
	}
	if resp.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string payload", name)
	}

	value = make(map[string]any)
	if err := json.Unmarshal([]byte(*resp.SecretString), &value); err != nil {
		return nil, fmt.Errorf("failed to parse secret %s: %w", name, err)
	}

	c.mu.Lock()
	c.cache[name] = value
	c.mu.Unlock()

	return value, nil
}
