package http

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

func getTLSConfig(key string, cert string, cacert string, serverName string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{}
	if key != "" {
		keyPair, err := tls.LoadX509KeyPair(cert, key)
		if err != nil {
			return nil, fmt.Errorf("fail to load certificates: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{keyPair}
	}
	if cacert != "" {
		caCert, err := os.ReadFile(cacert)
		if err != nil {
			return nil, fmt.Errorf("fail to read the ca certificate: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("fail to parse the ca certificate %s", cacert)
		}
		tlsConfig.RootCAs = caCertPool
		tlsConfig.ClientCAs = caCertPool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}
	if serverName != "" {
		tlsConfig.ServerName = serverName
	}
	tlsConfig.InsecureSkipVerify = insecure
	return tlsConfig, nil
}
