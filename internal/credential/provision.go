package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/pairbench/pairbench/internal/secrets"
)

// AccessCredential is the provisioned, run scoped access channel to the
// host pair: a restricted private key plus a client policy which forces
// key based non interactive auth.
type AccessCredential struct {
	KeyPath    string
	ConfigPath string
	ServerHost string
	ClientHost string
	User       string
	Port       int
}

// Remove disposes the provisioned files. Registered as run teardown, the
// credential must not outlive its run.
func (c *AccessCredential) Remove(ctx context.Context) error {
	var errs []error
	for _, path := range []string{c.KeyPath, c.ConfigPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to remove credential: %v", errs)
	}

	return nil
}

type Provisioner struct {
	dir    string
	logger logr.Logger
}

func NewProvisioner(dir string, logger logr.Logger) *Provisioner {
	return &Provisioner{
		dir:    dir,
		logger: logger,
	}
}

// Provision materializes the secret record on disk: the private key with
// owner-only permissions and an ssh client configuration which disables
// strict host key verification as well as password auth for both hosts.
// Host identity checks are traded for unattended execution here, the
// channel is only as trustworthy as the path to the secret store.
func (p *Provisioner) Provision(ctx context.Context, material secrets.Material) (*AccessCredential, error) {
	if err := material.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create ssh directory: %w", err)
	}

	cred := &AccessCredential{
		KeyPath:    filepath.Join(p.dir, "id_pairbench"),
		ConfigPath: filepath.Join(p.dir, "config"),
		ServerHost: material.ServerHost,
		ClientHost: material.ClientHost,
		User:       material.User,
		Port:       material.Port,
	}

	key := material.PrivateKey
	if key[len(key)-1] != '\n' {
		key = append(key, '\n')
	}

	if err := os.WriteFile(cred.KeyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}

	if err := os.WriteFile(cred.ConfigPath, []byte(cred.clientConfig()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write client config: %w", err)
	}

	p.logger.V(1).Info("provisioned access credential", "key", cred.KeyPath, "config", cred.ConfigPath)

	return cred, nil
}

func (c *AccessCredential) clientConfig() string {
	return fmt.Sprintf(`Host %s %s
  IdentityFile %s
  User %s
  Port %d
  IdentitiesOnly yes
  PasswordAuthentication no
  StrictHostKeyChecking no
`, c.ServerHost, c.ClientHost, c.KeyPath, c.User, c.Port)
}
