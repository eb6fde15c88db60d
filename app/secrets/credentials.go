package secrets

import (
	"cmp"
	"fmt"
)

func stringField(m map[string]any, key string) string {
	value, _ := m[key].(string)
	return value
}

func section(m map[string]any, key string) map[string]any {
	value, _ := m[key].(map[string]any)
	if value == nil {
		return map[string]any{}
	}
	return value
}

// NewsAPIKey extracts the API key from a NewsAPI secret payload: a top-level
// "apiKey" or a nested "newsapi" section.
func NewsAPIKey(secret map[string]any) string {
	return cmp.Or(
		stringField(secret, "apiKey"),
		stringField(section(secret, "newsapi"), "apiKey"),
	)
}

// KafkaProducerConfig maps a Kafka secret payload onto librdkafka-style
// producer settings. Credentials live in a "confluent" section with flat
// "bootstrap"/"username"/"password" keys as a fallback.
func KafkaProducerConfig(secret map[string]any) (map[string]string, error) {
	confluent := section(secret, "confluent")

	bootstrap := cmp.Or(stringField(confluent, "bootstrap_servers"), stringField(secret, "bootstrap"))
	apiKey := cmp.Or(stringField(confluent, "api_key"), stringField(secret, "username"))
	apiSecret := cmp.Or(stringField(confluent, "api_secret"), stringField(secret, "password"))

	if bootstrap == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("kafka secret missing bootstrap/api credentials")
	}

	config := map[string]string{
		"bootstrap.servers": bootstrap,
		"security.protocol": cmp.Or(stringField(confluent, "security_protocol"), "SASL_SSL"),
		"sasl.mechanism":    cmp.Or(stringField(confluent, "sasl_mechanism"), "PLAIN"),
		"sasl.username":     apiKey,
		"sasl.password":     apiSecret,
		"linger.ms":         "0",
		"acks":              "all",
	}

	if clientID := stringField(confluent, "client_id"); clientID != "" {
		config["client.id"] = clientID
	}

	return config, nil
}
