package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"smarterthings-bridge/internal/adapters/input/http"
	"smarterthings-bridge/internal/adapters/input/push"
	"smarterthings-bridge/internal/adapters/input/ssdp"
	"smarterthings-bridge/internal/adapters/output/mqtt"
	"smarterthings-bridge/internal/adapters/output/persistence"
	"smarterthings-bridge/internal/adapters/output/smartthings"
	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/service"
	"smarterthings-bridge/internal/logging"
	"smarterthings-bridge/internal/ports"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

const defaultConfigPath = "/app/config.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	configRepo := persistence.NewYAMLConfigRepository(configPath)
	cfg, err := configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.Logging, version)

	ip := cfg.Hue.LocalIP
	if ip == "" {
		ip = getLocalIP()
	}
	if ip == "" {
		return errors.New("could not determine local IP, set LOCAL_IP")
	}
	log.Info().Str("ip", ip).Str("config", configPath).Msg("Starting SmarterThings bridge")

	client := smartthings.NewClient(cfg.SmartThings.Timeout, log)
	client.Configure(cfg.SmartThings.URL, cfg.SmartThings.Token)
	client.SetLocation(cfg.SmartThings.LocationID)

	var writer ports.StateWriter
	var mqttClient *mqtt.Client
	if cfg.MQTT.Broker != "" {
		mqttClient, err = mqtt.Connect(cfg.MQTT, log)
		if err != nil {
			return err
		}
		defer mqttClient.Close()
		writer = mqttClient
	} else {
		log.Warn().Msg("No MQTT broker configured, entity renders and pushes are disabled")
	}

	broker := service.NewBroker(client, writer, entity.NewDefaultRegistry(), log)
	if err := broker.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial refresh failed")
	}

	configService := service.NewConfigService(configRepo, client, broker)
	bridgeService := service.NewBridgeService(broker, configService)

	httpServer, err := http.NewServer(bridgeService, ip, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(ctx, cfg.Hue.HTTPAddr)
	})
	if !cfg.Hue.DisableSSDP {
		ssdpServer := ssdp.NewServer(ip, portOf(cfg.Hue.HTTPAddr), log)
		g.Go(func() error {
			return ssdpServer.Run(ctx)
		})
	}
	if mqttClient != nil {
		listener := push.NewListener(mqttClient, broker, cfg.MQTT.PushPrefix, log)
		if err := listener.Start(ctx); err != nil {
			return err
		}
	}
	if cfg.RefreshInterval > 0 {
		g.Go(func() error {
			refreshLoop(ctx, broker, cfg.RefreshInterval, log)
			return nil
		})
	}

	return g.Wait()
}

func refreshLoop(ctx context.Context, broker *service.Broker, every time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := broker.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("Periodic refresh failed")
			}
		}
	}
}

func portOf(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, _ := strconv.Atoi(p)
	return port
}

func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
