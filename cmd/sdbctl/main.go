// sdbctl is the operator CLI for the session consistency layer: domain
// administration, journal cleanup sweeps, ad-hoc reads, and a status
// endpoint.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/edirooss/sdbsession/internal/config"
	"github.com/edirooss/sdbsession/internal/httpapi"
	"github.com/edirooss/sdbsession/pkg/fmtt"
	"github.com/edirooss/sdbsession/pkg/journal"
	"github.com/edirooss/sdbsession/pkg/session"
	"github.com/edirooss/sdbsession/pkg/simpledb"
)

// Config is the sdbctl YAML configuration.
type Config struct {
	ServerID            string `yaml:"server_id"`
	JournalTTL          int    `yaml:"journal_ttl"` // seconds
	RandomJournalCleans int    `yaml:"random_journal_cleans"`

	RedisAddr    string `yaml:"redis_address"`
	RedisLogsDB  int    `yaml:"redis_logs_db"`
	RedisListsDB int    `yaml:"redis_lists_db"`

	SDBEndpoint    string    `yaml:"sdb_endpoint"`
	AccessKey      string    `yaml:"aws_access_key_id"`
	SecretKey      string    `yaml:"aws_secret_access_key"`
	SDBTimeout     int       `yaml:"sdb_timeout"`      // seconds
	SDBRetryDelays []float64 `yaml:"sdb_retry_delays"` // seconds

	StatusAddr string `yaml:"status_address"`
}

func main() {
	configPath := flag.String("config", "sdbsession.yaml", "path to configuration file")
	debug := flag.Bool("debug", false, "dump full error chains on failure")
	v := flag.Bool("v", false, "print version and exit")
	flag.BoolVar(v, "version", false, "print version and exit")
	flag.Parse()

	if *v {
		fmt.Printf("sdbctl %s (commit %s, built %s)\n", config.Version, config.GitCommit, config.BuildDate)
		os.Exit(0)
	}

	log := buildLogger()
	defer log.Sync()
	log = log.Named("main")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	verb := flag.Arg(0)
	if verb == "" {
		usage()
		os.Exit(2)
	}

	engine, err := buildEngine(log, cfg)
	if err != nil {
		log.Fatal("engine creation failed", zap.Error(err))
	}

	ctx := context.Background()
	if err := run(ctx, log, engine, cfg, verb, flag.Args()[1:]); err != nil {
		fmtt.PrintErrChain(err)
		if *debug {
			fmtt.DumpErrChain(err)
		}
		log.Fatal("command failed", zap.String("verb", verb), zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger, engine *session.Engine, cfg *Config, verb string, args []string) error {
	switch verb {
	case "domains":
		domains, err := engine.ListDomains(ctx)
		if err != nil {
			return err
		}
		for _, domain := range domains {
			fmt.Println(domain)
		}
		return nil

	case "create-domain", "delete-domain", "metadata":
		if len(args) != 1 {
			return fmt.Errorf("usage: sdbctl %s <domain>", verb)
		}
		switch verb {
		case "create-domain":
			return engine.CreateDomain(ctx, args[0])
		case "delete-domain":
			return engine.DeleteDomain(ctx, args[0])
		default:
			meta, err := engine.GetDomainMetadata(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(meta)
		}

	case "get":
		if len(args) < 2 {
			return fmt.Errorf("usage: sdbctl get <domain> <item> [attribute...]")
		}
		result, err := engine.Get(ctx, map[string]map[string][]string{
			args[0]: {args[1]: args[2:]},
		})
		if err != nil {
			return err
		}
		return printJSON(result[args[0]][args[1]])

	case "clean":
		sweeps := cfg.RandomJournalCleans
		if sweeps <= 0 {
			sweeps = 1
		}
		total := 0
		for i := 0; i < sweeps; i++ {
			removed, err := engine.Journal().RandomCleanup(ctx)
			if err != nil {
				return err
			}
			total += removed
		}
		log.Info("journal cleanup done", zap.Int("sweeps", sweeps), zap.Int("removed", total))
		return nil

	case "serve-status":
		addr := cfg.StatusAddr
		if addr == "" {
			addr = "127.0.0.1:8723"
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(log),
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		log.Info("running status server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown verb %q", verb)
	}
}

func buildEngine(log *zap.Logger, cfg *Config) (*session.Engine, error) {
	retryDelays := make([]time.Duration, len(cfg.SDBRetryDelays))
	for i, seconds := range cfg.SDBRetryDelays {
		retryDelays[i] = time.Duration(seconds * float64(time.Second))
	}

	sdb, err := simpledb.NewClient(log, simpledb.Config{
		Endpoint:    cfg.SDBEndpoint,
		AccessKey:   cfg.AccessKey,
		SecretKey:   cfg.SecretKey,
		Timeout:     time.Duration(cfg.SDBTimeout) * time.Second,
		RetryDelays: retryDelays,
	})
	if err != nil {
		return nil, fmt.Errorf("simpledb client: %w", err)
	}

	jstore, err := journal.NewRedisStore(cfg.RedisAddr, cfg.RedisLogsDB, cfg.RedisListsDB, log)
	if err != nil {
		return nil, fmt.Errorf("journal store: %w", err)
	}

	return session.New(context.TODO(), log, session.Config{
		ServerID:            cfg.ServerID,
		JournalTTL:          time.Duration(cfg.JournalTTL) * time.Second,
		RandomJournalCleans: cfg.RandomJournalCleans,
	}, sdb, jstore)
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RedisAddr:    "localhost:6379",
		RedisLogsDB:  1,
		RedisListsDB: 2,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// The marker namespace must be unique per running process; without
	// a configured identity, mint one for this invocation.
	if cfg.ServerID == "" {
		cfg.ServerID = uuid.NewString()
	}
	return cfg, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: sdbctl [flags] <verb> [args]

verbs:
  domains                     list domains
  create-domain <domain>      create a domain
  delete-domain <domain>      delete a domain and its items
  metadata <domain>           print domain metadata
  get <domain> <item> [a...]  session-consistent read of one item
  clean                       run random journal cleanup sweeps
  serve-status                serve /statusz and /healthz over HTTP`)
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	logConfig.Level.SetLevel(zap.DebugLevel)
	return zap.Must(logConfig.Build())
}
