// Package bootstrap wires the service together and runs its lifecycle:
// configure, start the HTTP server, wait for a shutdown signal, then stop
// the server and flush telemetry within a graceful timeout.
//
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
package bootstrap
