package otelsetup

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"

	"github.com/spf13/pflag"
)

type Options struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
	Stdout      bool
	TLS         struct {
		CA   string
		Cert string
		Key  string
	}
}

func DefaultOptions(serviceName string) Options {
	return Options{
		ServiceName: serviceName,
	}
}

func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Endpoint, "otel-endpoint", o.Endpoint, "OTLP gRPC endpoint traces and metrics are exported to. Export is disabled if empty.")
	fs.BoolVar(&o.Insecure, "otel-insecure", o.Insecure, "Disable transport security for the OTLP exporter.")
	fs.BoolVar(&o.Stdout, "otel-stdout", o.Stdout, "Dump traces and metrics to stdout.")
	fs.StringVar(&o.TLS.CA, "otel-tls-ca", o.TLS.CA, "Path to the OTLP exporter CA certificate.")
	fs.StringVar(&o.TLS.Cert, "otel-tls-cert", o.TLS.Cert, "Path to the OTLP exporter client certificate.")
	fs.StringVar(&o.TLS.Key, "otel-tls-key", o.TLS.Key, "Path to the OTLP exporter client key.")
}

func (o *Options) getTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if o.TLS.CA != "" {
		b, err := os.ReadFile(o.TLS.CA)
		if err != nil {
			return nil, err
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(b) {
			return nil, errors.New("failed to append ca certificate")
		}

		tlsConfig.RootCAs = pool
	}

	if o.TLS.Cert != "" && o.TLS.Key != "" {
		cert, err := tls.LoadX509KeyPair(o.TLS.Cert, o.TLS.Key)
		if err != nil {
			return nil, err
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
