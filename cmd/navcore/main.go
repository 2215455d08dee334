package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/theoremus-urban-solutions/navcore"
	"github.com/theoremus-urban-solutions/navcore/config"
	"github.com/theoremus-urban-solutions/navcore/directions"
	"github.com/theoremus-urban-solutions/navcore/geo"
	"github.com/theoremus-urban-solutions/navcore/gtfsrt"
	"github.com/theoremus-urban-solutions/navcore/guidance"
	"github.com/theoremus-urban-solutions/navcore/internal"
	"github.com/theoremus-urban-solutions/navcore/route"
	"github.com/theoremus-urban-solutions/navcore/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: search config.yml, ./config/config.yml)")
	mode := flag.String("mode", "oneshot", "oneshot|follow")
	feedURL := flag.String("vehiclePositions", "", "GTFS-RT VehiclePositions URL or .pbf file (overrides config)")
	vehicleID := flag.String("vehicle", "", "vehicle id, label or entity id to follow (overrides config)")
	osrmURL := flag.String("osrm", "", "OSRM base URL (overrides config)")
	from := flag.String("from", "", "route origin as lat,lon (default: first vehicle position)")
	to := flag.String("to", "", "route destination as lat,lon")
	sinkKind := flag.String("sink", "", "telemetry sink: log|postgres (overrides config)")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	override(&cfg.Feed.VehiclePositionsURL, *feedURL)
	override(&cfg.Feed.VehicleID, *vehicleID)
	override(&cfg.Directions.BaseURL, *osrmURL)
	override(&cfg.Telemetry.Sink, *sinkKind)

	logger := internal.InitLogging(cfg.Logging.Level)

	if *to == "" {
		log.Fatal("-to is required")
	}
	dest, err := parseCoord(*to)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *mode, *from, dest, logger); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, mode, from string, dest geo.Coordinate, logger *slog.Logger) error {
	interval := time.Duration(0)
	switch mode {
	case "oneshot":
	case "follow":
		interval = cfg.Feed.PollInterval()
		if interval <= 0 {
			interval = 5 * time.Second
		}
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	client := gtfsrt.NewClient(nil)
	origin, err := resolveOrigin(ctx, client, cfg.Feed, from)
	if err != nil {
		return err
	}

	osrm := directions.NewOSRM(cfg.Directions.BaseURL,
		directions.WithProfile(cfg.Directions.Profile),
		directions.WithLogger(logger),
	)
	reqCtx, cancel := context.WithTimeout(ctx, cfg.Directions.Timeout())
	r, err := osrm.Calculate(reqCtx, route.Options{
		Waypoints: []route.Waypoint{route.NewWaypoint(origin, "origin"), route.NewWaypoint(dest, "destination")},
		Profile:   cfg.Directions.Profile,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("initial route: %w", err)
	}
	logger.Info("route calculated", "distance", r.Distance, "duration", r.ExpectedTravelTime, "steps", len(r.Legs[0].Steps))

	sink, closeSink, err := openSink(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	g := cfg.Guidance.EngineConfig()
	g.HistoryCapacity = cfg.Telemetry.HistoryCapacity
	trip, err := navcore.NewTrip(r, osrm, sink,
		navcore.WithGuidanceConfig(g),
		navcore.WithCollectionWindow(cfg.Telemetry.CollectionWindow()),
		navcore.WithLogger(logger),
		navcore.WithObserver(announcer(logger)),
	)
	if err != nil {
		return err
	}

	src := gtfsrt.NewSource(client, cfg.Feed.VehiclePositionsURL, cfg.Feed.VehicleID, interval, cfg.Feed.Accuracy, logger)
	return trip.Run(ctx, src.Fixes(ctx))
}

func resolveOrigin(ctx context.Context, client *gtfsrt.Client, feed config.FeedConfig, from string) (geo.Coordinate, error) {
	if from != "" {
		return parseCoord(from)
	}
	data, err := client.Fetch(ctx, feed.VehiclePositionsURL)
	if err != nil {
		return geo.Coordinate{}, err
	}
	fixes, err := gtfsrt.DecodeFixes(data, feed.VehicleID, feed.Accuracy)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return fixes[0].Coordinate, nil
}

func openSink(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (telemetry.Sink, func(), error) {
	if cfg.Sink != "postgres" {
		return telemetry.NewLogSink(logger), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}
	sink := telemetry.NewPostgresSink(pool)
	if err := sink.EnsureSchema(connectCtx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("Connected to PostgreSQL")
	return sink, pool.Close, nil
}

// announcer logs alert level changes together with the upcoming instruction.
func announcer(logger *slog.Logger) guidance.Observer {
	return guidance.ObserverFunc(func(n guidance.Notification) {
		switch n.Kind {
		case guidance.AlertLevelChanged:
			lp := n.Progress.LegProgress()
			instr := lp.CurrentStep().Instructions
			if next, ok := lp.UpcomingStep(); ok {
				instr = next.Instructions
			}
			logger.Info("alert",
				"level", n.Progress.AlertLevel().String(),
				"step", n.Progress.StepIndex(),
				"in", fmt.Sprintf("%.0fm", n.DistanceToManeuver),
				"instruction", instr,
			)
		case guidance.RerouteFailed:
			logger.Warn("reroute failed", "error", n.Err)
		}
	})
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
