package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tubecast/video-services/api"
	"github.com/tubecast/video-services/models/common"
	"github.com/tubecast/video-services/util"
	"github.com/tubecast/video-services/util/cli"
)

func main() {
	cli.Init()
	opts := cli.ParseOpts()
	if opts.PrintHelp {
		printHelp()
		cli.PrintDefaults()
		os.Exit(0)
	}

	// If anything goes wrong here, this panics.
	appContext := common.NewContext()
	if opts.Port != 0 {
		appContext.Config.Port = opts.Port
	}

	if appContext.Config.PidFile != "" {
		if util.IsRunningInOtherProcess(appContext.Config.PidFile) {
			fmt.Fprintf(os.Stderr, "Another instance is already running (pid file %s)\n",
				appContext.Config.PidFile)
			os.Exit(1)
		}
		if err := util.WritePidFile(appContext.Config.PidFile); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot write pid file: %v\n", err)
			os.Exit(1)
		}
		defer util.DeletePidFile(appContext.Config.PidFile)
	}

	server := api.NewServer(appContext)
	go func() {
		err := server.Serve()
		if err != nil && err != http.ErrServerClosed {
			appContext.Logger.Fatalf("Server failed: %v", err)
		}
	}()
	appContext.Logger.Infof("tubecast_api listening on port %d", appContext.Config.Port)

	// Block until we get an interrupt or other kill signal, then give
	// in-flight uploads a grace period to finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appContext.Logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appContext.Logger.Errorf("Shutdown error: %v", err)
	}
}

func printHelp() {
	message := `
tubecast_api serves the video-hosting HTTP API. It accepts video and
thumbnail uploads, remuxes videos for fast-start playback, stores them
in S3-compatible object storage, and issues time-limited presigned
playback URLs.`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
