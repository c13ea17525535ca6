// dvbtune tunes a DVB frontend from a transponder definition and reports
// signal status until the frontend locks.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/common/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mich181189/libdvb/config"
	"github.com/mich181189/libdvb/frontend"
)

var log = logrus.New()

func main() {
	var (
		adapter     = kingpin.Flag("adapter", "DVB adapter number.").Short('a').Default("0").Uint32()
		fe          = kingpin.Flag("frontend", "Frontend number on the adapter.").Short('f').Default("0").Uint32()
		tuneFile    = kingpin.Flag("tune", "Tune file with KEY = VALUE lines.").Short('t').ExistingFile()
		configFile  = kingpin.Flag("config", "Transponder list in yaml format.").Short('c').ExistingFile()
		transponder = kingpin.Flag("transponder", "Transponder name inside the yaml list.").String()
		timeout     = kingpin.Flag("timeout", "How long to wait for a lock.").Default("10s").Duration()
		interval    = kingpin.Flag("interval", "Status poll interval.").Default("500ms").Duration()
		monitor     = kingpin.Flag("monitor", "Keep printing status after lock.").Short('m').Bool()
		clear       = kingpin.Flag("clear", "Clear the frontend before tuning.").Bool()
		debug       = kingpin.Flag("debug", "Enable debug logging.").Bool()
	)
	kingpin.Version(version.Print("dvbtune"))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	seq, err := buildSequence(*tuneFile, *configFile, *transponder)
	if err != nil {
		log.Fatal(err)
	}

	// no tune source selected: just show what the frontend is and what it
	// currently sees, read-only access is enough for that
	if seq == nil {
		dev, err := frontend.OpenRO(*adapter, *fe)
		if err != nil {
			log.Fatal(err)
		}
		defer dev.Close()

		fmt.Println(dev.Info())
		rec, err := dev.ReadStatus()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(rec)
		return
	}

	dev, err := frontend.OpenRW(*adapter, *fe)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()

	log.WithFields(logrus.Fields{
		"adapter":  *adapter,
		"frontend": *fe,
		"name":     dev.Info().Name,
	}).Info("frontend open")
	log.Debug("tune request:\n", seq)

	if *clear {
		if err := dev.Clear(); err != nil {
			log.Fatal(err)
		}
	}

	if err := dev.SetProperties(seq); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := watch(ctx, dev, *interval, *monitor); err != nil {
		log.Fatal(err)
	}
}

// buildSequence assembles the tune request from whichever source was given.
// A nil sequence with nil error means status-only mode.
func buildSequence(tuneFile, configFile, transponder string) (*frontend.Sequence, error) {
	switch {
	case tuneFile != "":
		f, err := os.Open(tuneFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		seq, err := frontend.ParseTune(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tuneFile, err)
		}
		if !seq.Committed() {
			if err := seq.Commit(); err != nil {
				return nil, err
			}
		}
		return seq, nil

	case configFile != "":
		if transponder == "" {
			return nil, fmt.Errorf("--config needs --transponder")
		}
		var cfg config.TuneConfig
		if err := cfg.ReadConfig(configFile); err != nil {
			return nil, err
		}
		t, ok := cfg.Lookup(transponder)
		if !ok {
			return nil, fmt.Errorf("no transponder %q in %s", transponder, configFile)
		}
		return t.Sequence()

	default:
		return nil, nil
	}
}

// watch polls the frontend, printing one femon-style line per poll. Without
// --monitor it stops on the first lock; the context bounds the wait either
// way.
func watch(ctx context.Context, dev *frontend.Device, interval time.Duration, monitor bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var acq frontend.Acquisition
	for {
		rec, err := dev.ReadStatus()
		if err != nil {
			return err
		}
		fmt.Println(rec)

		state := acq.Observe(rec.Flags)
		if state == frontend.LockLocked && !monitor {
			log.WithField("polls", acq.Polls()).Info("frontend locked")
			return nil
		}

		select {
		case <-ctx.Done():
			if monitor {
				return nil
			}
			return fmt.Errorf("no lock after %d polls: %w", acq.Polls(), ctx.Err())
		case <-ticker.C:
		}
	}
}
