package processor

import (
	"bytes"
	"context"
	"io"

	"github.com/pairbench/pairbench/internal/artifact"
	"github.com/pairbench/pairbench/internal/credential"
	"github.com/pairbench/pairbench/internal/driver"
	"github.com/pairbench/pairbench/internal/secrets"
	"github.com/pairbench/pairbench/pkg/apis/core/v1beta1"
)

func testContext() StageContext {
	ctx := NewContext("main", &bytes.Buffer{}, &bytes.Buffer{})
	ctx.Material = secrets.Material{
		ServerHost: "srv",
		ClientHost: "cli",
		PrivateKey: []byte("key"),
		User:       "ci",
		Port:       22,
	}

	return ctx
}

func debugSpec() *StageSpec {
	return &StageSpec{
		Name:  v1beta1.StageDebug,
		Debug: true,
	}
}

type fakeCollector struct {
	calls []v1beta1.StageName
	err   error
}

func (f *fakeCollector) Collect(ctx context.Context, stage v1beta1.StageName) (*artifact.Set, error) {
	f.calls = append(f.calls, stage)
	if f.err != nil {
		return nil, f.err
	}

	return &artifact.Set{
		Stage: stage,
		Name:  artifact.BundleName(stage),
	}, nil
}

type fakeProvisioner struct {
	calls int
	err   error
}

func (f *fakeProvisioner) Provision(ctx context.Context, material secrets.Material) (*credential.AccessCredential, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return &credential.AccessCredential{
		ServerHost: material.ServerHost,
		ClientHost: material.ClientHost,
		User:       material.User,
		Port:       material.Port,
	}, nil
}

type fakeInvoker struct {
	params []driver.Params
	output string
	err    error
}

func (f *fakeInvoker) Invoke(ctx context.Context, params driver.Params, stdout, stderr io.Writer) error {
	f.params = append(f.params, params)
	if f.output != "" {
		_, _ = io.WriteString(stdout, f.output)
	}

	return f.err
}
