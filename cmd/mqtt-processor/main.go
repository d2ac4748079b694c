package main

import (
	"os"
	"os/signal"
	"syscall"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/bittoy/mqtt-processor/builtin/converters"
	"github.com/bittoy/mqtt-processor/builtin/rules"
	"github.com/bittoy/mqtt-processor/config"
	"github.com/bittoy/mqtt-processor/dispatcher"
	mqttlog "github.com/bittoy/mqtt-processor/log"
	"github.com/bittoy/mqtt-processor/registry"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		kitlog.NewLogfmtLogger(os.Stderr).Log("msg", "loading environment configuration", "err", err)
		os.Exit(1)
	}

	logger := mqttlog.New(env.LogLevel)
	level.Info(logger).Log("msg", "starting mqtt-processor", "client_id", env.ClientID)

	data, err := os.ReadFile(env.ConfigFile)
	if err != nil {
		level.Error(logger).Log("msg", "reading config file", "path", env.ConfigFile, "err", err)
		os.Exit(1)
	}

	file, err := config.LoadFile(data)
	if err != nil {
		level.Error(logger).Log("msg", "parsing config file", "err", err)
		os.Exit(1)
	}

	reg := registry.New()
	rules.Register(reg)
	converters.Register(reg)

	processors, err := config.BuildProcessors(file, reg)
	if err != nil {
		level.Error(logger).Log("msg", "building processors", "err", err)
		os.Exit(1)
	}

	d := dispatcher.New(dispatcher.Config{
		Host:     env.Host,
		Port:     env.Port,
		Username: env.Username,
		Password: env.Password,
		ClientID: env.ClientID,
	}, processors, logger)

	go func() {
		if err := d.Run(); err != nil {
			level.Error(logger).Log("msg", "dispatcher stopped", "err", err)
			os.Exit(1)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	<-signalChan

	level.Info(logger).Log("msg", "received termination signal, shutting down")
	d.Stop()
}
