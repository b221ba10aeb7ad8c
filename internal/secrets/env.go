package secrets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvServerHost = "PAIRBENCH_SERVER_HOST"
	EnvClientHost = "PAIRBENCH_CLIENT_HOST"
	EnvPrivateKey = "PAIRBENCH_SSH_KEY"
	EnvUser       = "PAIRBENCH_SSH_USER"
	EnvPort       = "PAIRBENCH_SSH_PORT"
)

// WithEnv resolves the material from the process environment, the way a
// CI secret store usually injects it.
func WithEnv(lookup func(string) (string, bool)) Resolver {
	return func(ctx context.Context) (Material, error) {
		get := func(key string) string {
			v, _ := lookup(key)
			return v
		}

		return fromMap(map[string]string{
			EnvServerHost: get(EnvServerHost),
			EnvClientHost: get(EnvClientHost),
			EnvPrivateKey: get(EnvPrivateKey),
			EnvUser:       get(EnvUser),
			EnvPort:       get(EnvPort),
		})
	}
}

// WithDotenv resolves the material from a dotenv file using the same keys
// as WithEnv.
func WithDotenv(path string) Resolver {
	return func(ctx context.Context) (Material, error) {
		envs, err := godotenv.Read(path)
		if err != nil {
			return Material{}, fmt.Errorf("failed to read dotenv file: %w", err)
		}

		return fromMap(envs)
	}
}

func fromMap(envs map[string]string) (Material, error) {
	material := Material{
		ServerHost: envs[EnvServerHost],
		ClientHost: envs[EnvClientHost],
		PrivateKey: []byte(envs[EnvPrivateKey]),
		User:       envs[EnvUser],
		Port:       22,
	}

	if raw, ok := envs[EnvPort]; ok && raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return material, fmt.Errorf("failed to parse %s: %w", EnvPort, err)
		}

		material.Port = port
	}

	return material, nil
}
