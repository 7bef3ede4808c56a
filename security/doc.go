// Package security builds the server-side TLS configuration of the HTTP
// listener, optionally requiring client certificates.
//
//	cfg := security.TLSConfig{
//	    CertFile:     "/etc/usermodel/tls/cert.pem",
//	    KeyFile:      "/etc/usermodel/tls/key.pem",
//	    ClientCAFile: "/etc/usermodel/tls/clients-ca.pem",
//	}
//	tlsConfig, err := cfg.Build()
package security
