package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

func main() {
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	specName := flag.String("spec", "horde.yaml", "horde spec in prefabs/")
	seed := flag.Int64("seed", 1, "spawn and wander seed")
	seconds := flag.Float64("seconds", 60, "simulated seconds")
	tps := flag.Int("tps", 60, "fixed steps per simulated second")
	fire := flag.Float64("fire", 0.5, "seconds between dummy attacks, 0 disables")
	attackRange := flag.Float64("range", 12, "dummy attack range")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "hordesim"})
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("bad log level", "level", *logLevel, "err", err)
	}
	logger.SetLevel(lvl)

	rep, err := run(config{
		level:       *levelName,
		spec:        *specName,
		seed:        *seed,
		seconds:     *seconds,
		tps:         *tps,
		fire:        *fire,
		attackRange: *attackRange,
	}, logger)
	if err != nil {
		logger.Fatal("run", "err", err)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		logger.Fatal("encode", "err", err)
	}
	_ = enc.Close()
}
