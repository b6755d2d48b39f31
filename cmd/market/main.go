package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	match "github.com/0x5487/heap-market"
	"github.com/0x5487/heap-market/infra"
	"github.com/0x5487/heap-market/protocol"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	inputPath := flag.String("input", "", "command file, overrides market.input_file")
	flag.Parse()

	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *inputPath != "" {
		cfg.Market.InputFile = *inputPath
	}

	logger, closer := infra.NewLogger(cfg)
	defer closer.Close()
	slog.SetDefault(logger)
	match.SetLogger(logger)

	var publisher match.PublishLog = match.NewDiscardPublishLog()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaLog := infra.NewKafkaPublishLog(cfg, logger)
		defer kafkaLog.Close()
		publisher = kafkaLog
		logger.Info("publishing trades", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.Topic))
	}

	file, err := os.Open(cfg.Market.InputFile)
	if err != nil {
		return fmt.Errorf("cannot open file %s: %w", cfg.Market.InputFile, err)
	}
	defer file.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	market := match.NewMarket(publisher)
	stats, err := market.Replay(file, out, cfg.Market.Echo)
	if err != nil {
		return err
	}

	if cfg.Market.SnapshotFile != "" {
		if err := writeSnapshot(market, cfg.Market.SnapshotFile); err != nil {
			return err
		}
	}

	logger.Info("replay finished",
		slog.String("app", cfg.App.Name),
		slog.Int("lines", stats.Lines),
		slog.Int("commands", stats.Commands),
		slog.Int("malformed", stats.Malformed),
		slog.Int("rejected", stats.Rejected),
		slog.Uint64("trades", market.TradeCount()),
	)
	return nil
}

func writeSnapshot(market *match.Market, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := market.WriteSnapshot(f, protocol.DefaultJSONSerializer{}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
