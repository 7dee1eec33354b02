package main

import (
	_ "go.uber.org/automaxprocs"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app"
)

func main() {
	ctx := genericapiserver.SetupSignalContext()
	app.NewApp(ctx).Run()
}
