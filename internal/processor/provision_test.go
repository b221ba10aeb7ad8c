package processor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pairbench/pairbench/internal/mask"
	"github.com/pairbench/pairbench/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvision(t *testing.T) {
	provider := secrets.New(secrets.WithStatic(testContext().Material))
	provisioner := &fakeProvisioner{}

	teardown := make(chan Teardown, 1)
	next, err := WithProvision(provider, provisioner, nil, teardown)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	out, err := next(context.Background(), NewContext("main", &bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, err)
	require.NotNil(t, out.Credential)
	assert.Equal(t, "srv", out.Credential.ServerHost)
	assert.Equal(t, 1, provisioner.calls)
	assert.Len(t, teardown, 1)
}

func TestProvisionReusesCredential(t *testing.T) {
	provider := secrets.New(secrets.WithStatic(testContext().Material))
	provisioner := &fakeProvisioner{}

	teardown := make(chan Teardown, 2)
	next, err := WithProvision(provider, provisioner, nil, teardown)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	out, err := next(context.Background(), NewContext("main", &bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, err)

	// the release stage runs with the credential provisioned for debug
	_, err = next(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 1, provisioner.calls)
	assert.Len(t, teardown, 1)
}

func TestProvisionMissingSecrets(t *testing.T) {
	provider := secrets.New(secrets.WithStatic(secrets.Material{}))
	provisioner := &fakeProvisioner{}

	nextCalled := false
	next, err := WithProvision(provider, provisioner, nil, nil)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		nextCalled = true
		return stageContext, nil
	})
	require.NoError(t, err)

	_, err = next(context.Background(), NewContext("main", &bytes.Buffer{}, &bytes.Buffer{}))
	require.Error(t, err)
	assert.False(t, nextCalled)
	assert.Equal(t, 0, provisioner.calls)
}

func TestProvisionFailure(t *testing.T) {
	provider := secrets.New(secrets.WithStatic(testContext().Material))
	provisioner := &fakeProvisioner{err: errors.New("disk full")}

	next, err := WithProvision(provider, provisioner, nil, nil)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	_, err = next(context.Background(), NewContext("main", &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Error(t, err)
}

func TestProvisionRegistersMasks(t *testing.T) {
	provider := secrets.New(secrets.WithStatic(testContext().Material))
	maskStore := mask.NewStore(nil)

	next, err := WithProvision(provider, &fakeProvisioner{}, maskStore, nil)(debugSpec()).Bootstrap(func(ctx context.Context, stageContext StageContext) (StageContext, error) {
		return stageContext, nil
	})
	require.NoError(t, err)

	_, err = next(context.Background(), NewContext("main", &bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := maskStore.Writer(&buf)
	_, err = w.Write([]byte("the key is visible"))
	require.NoError(t, err)
	assert.Equal(t, "the *** is visible", buf.String())

	// host names from the secret material never reach the output either
	buf.Reset()
	_, err = w.Write([]byte("ssh srv and cli reachable"))
	require.NoError(t, err)
	assert.Equal(t, "ssh *** and *** reachable", buf.String())
}
